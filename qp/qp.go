// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package qp provides dense convex QP/LP engines for very small problems.
//
// An engine solves
//
//	minimize ½ 𝐱ᵀ𝐇𝐱 + 𝐠ᵀ𝐱 subject to
//	  - 𝒍ᴬ ≤ 𝐀𝐱 ≤ 𝒉ᴬ
//	  - 𝒍 ≤ 𝐱 ≤ 𝒉
//
// where 𝐇 is positive semi-definite (or absent, in which case the problem
// is a linear program). The problems produced by the stagewise solver have
// two or three variables and a few dozen rows, so engines trade asymptotic
// complexity for exactness and a warm-startable call surface.
package qp

const (
	zero = 0.0
	one  = 1.0
)

// Status reports the outcome of a single solve.
type Status int

const (
	// Optimal problem solved to optimality.
	Optimal Status = iota
	// Infeasible no point satisfies all constraints.
	Infeasible
	// Unbounded the objective decreases without bound over the feasible set.
	Unbounded
	// ExceedMaxIter the iteration budget was exhausted before a certificate was found.
	ExceedMaxIter
	// BadProblem input dimensions are inconsistent.
	BadProblem
)

// Solved reports whether the engine produced a usable primal solution.
func (s Status) Solved() bool { return s == Optimal }

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	case ExceedMaxIter:
		return "exceed max iterations"
	case BadProblem:
		return "bad problem"
	}
	return "unknown"
}

// Problem is one dense stage problem handed to an engine.
// All matrices are row-major. Infinite bound entries mean the bound is absent.
type Problem struct {
	// N is the number of decision variables.
	N int
	// H is the n×n quadratic objective term, nil to drop the quadratic part.
	H []float64
	// G is the n-vector linear objective term.
	G []float64
	// A is the m×n constraint matrix with row bounds 𝒍ᴬ ≤ 𝐀𝐱 ≤ 𝒉ᴬ.
	A []float64
	// LA, HA are the m-vector row bounds.
	LA, HA []float64
	// L, U are the n-vector variable bounds.
	L, U []float64
	// MaxIter bounds the internal work of a single solve.
	MaxIter int
}

// Rows returns the number of constraint rows.
func (p *Problem) Rows() int {
	if p.N <= 0 {
		return 0
	}
	return len(p.A) / p.N
}

func (p *Problem) valid() bool {
	n, m := p.N, p.Rows()
	switch {
	case n <= 0:
		return false
	case p.H != nil && len(p.H) != n*n:
		return false
	case len(p.G) != n:
		return false
	case len(p.A) != m*n || len(p.LA) != m || len(p.HA) != m:
		return false
	case len(p.L) != n || len(p.U) != n:
		return false
	}
	return true
}

// Engine abstracts the backend QP/LP solver behind init/hotstart primitives.
//
// Hotstart may reuse internal state left behind by a previous call to speed
// up a closely related problem. Both entry points must return the same primal
// solution for the same problem: warm starting is a performance optimization,
// never a semantic one.
//
// Engines hold mutable per-call state and are not safe for concurrent use.
type Engine interface {
	Init(p *Problem) (Status, []float64)
	Hotstart(p *Problem) (Status, []float64)
}
