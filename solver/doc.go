// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver implements the per-stage optimization core of
// reachability-analysis-based path parametrization.
//
// A geometric path is discretized into N stages. At stage i the feasible
// motions are described by the pair (u, x) of path acceleration and squared
// path velocity, optionally extended by auxiliary variables, and the core
// operation solves
//
//	minimize ½ [u,x,v] 𝐇 [u,x,v]ᵀ + 𝐠ᵀ[u,x,v] subject to
//	  - (u, x) feasible at stage i
//	  - 𝑥ₘᵢₙ ≤ x ≤ 𝑥ₘₐₓ
//	  - 𝑥ₙₘᵢₙ ≤ x + 2𝛥ᵢu ≤ 𝑥ₙₘₐₓ
//
// once or twice per stage while the outer algorithm sweeps the path.
// Feasibility at a stage is the conjunction of canonical linear constraints
// whose coefficient arrays are computed once at construction by the
// Constraint implementations.
//
// The solve itself is delegated to a qp.Engine. Two engine sessions are held,
// one per optimization direction, so that consecutive stage solves of the
// same sweep can be warm started. Assembled problems are rescaled before they
// reach the engine and solutions are verified against the original bounds
// before they are returned; a failed stage yields an all-NaN vector, never an
// error.
//
// A SolverWrapper owns mutable per-call scratch and the two engine sessions,
// and must not be used from multiple goroutines. Callers that want to solve
// stages in parallel need one SolverWrapper per worker.
package solver
