// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qp

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultBndInf is the horizon beyond which a bound is treated as absent.
	DefaultBndInf = 1e10
	// DefaultTol is the feasibility tolerance of the dense engine.
	DefaultTol = 1e-9
	// DefaultMaxIter caps the number of active sets examined per solve.
	DefaultMaxIter = 10000
)

// Dense is an exact active-set engine for convex problems with very few
// variables. It solves the problem by enumerating candidate active sets:
// each subset of at most n constraints yields a KKT system
//
//	⎡ 𝐇  𝐆ꜱᵀ ⎤⎡ 𝐱 ⎤ = ⎡ -𝐠 ⎤
//	⎣ 𝐆ꜱ  O  ⎦⎣ 𝛌 ⎦   ⎣ 𝐡ꜱ ⎦
//
// whose solution is a candidate; the feasible candidate with the smallest
// objective is the global optimum. For a linear program only the full-rank
// vertex subsets (|S| = n) are determinate, which is sufficient because the
// artificial ±BndInf box keeps the feasible set a polytope. A winner pressed
// against that artificial box is reported as Unbounded.
//
// 𝐇 must be absent or positive definite; positive semi-definite problems may
// report Infeasible when the optimum is only attained on a singular face.
//
// Hotstart replays the most recent optimal active set and certifies it with a
// primal and dual feasibility check, falling back to full enumeration when
// the certificate fails. Init always enumerates from scratch.
//
// A Dense engine owns reusable scratch and must not be shared by goroutines.
type Dense struct {
	n int

	// BndInf is the absent-bound horizon, strictly positive.
	BndInf float64
	// Tol is the feasibility tolerance, strictly positive.
	Tol float64

	// Canonical one-sided form 𝐆𝐱 ≤ 𝐡 of the current problem.
	// Row ids are stable across calls with the same shape:
	// 2j and 2j+1 are the upper/lower side of constraint row j,
	// 2m+2i and 2m+2i+1 are the upper/lower bound of variable i.
	mc   int
	rows []float64
	rhs  []float64
	art  []bool

	kkt  []float64
	krhs []float64
	idx  []int
	best []float64
	set  []int

	active []int
	cached bool

	lu  mat.LU
	sol mat.VecDense
}

// NewDense creates a dense engine for problems with n variables.
func NewDense(n int) *Dense {
	return &Dense{n: n, BndInf: DefaultBndInf, Tol: DefaultTol}
}

// Init solves the problem from scratch, discarding any warm-start state.
func (e *Dense) Init(p *Problem) (Status, []float64) {
	e.cached = false
	if !e.canonicalize(p) {
		return BadProblem, nil
	}
	return e.enumerate(p)
}

// Hotstart solves the problem, first replaying the active set left behind by
// the previous successful solve.
func (e *Dense) Hotstart(p *Problem) (Status, []float64) {
	if !e.canonicalize(p) {
		e.cached = false
		return BadProblem, nil
	}
	if x, ok := e.replay(p); ok {
		return Optimal, x
	}
	return e.enumerate(p)
}

// canonicalize rewrites the two-sided problem into 𝐆𝐱 ≤ 𝐡 with the stable
// row layout documented on Dense, clipping absent bounds to ±BndInf and
// marking the clipped rows as artificial.
func (e *Dense) canonicalize(p *Problem) bool {
	if !p.valid() || p.N != e.n {
		return false
	}
	n, m := e.n, p.Rows()
	mc := 2*m + 2*n
	if cap(e.rows) < mc*n {
		e.rows = make([]float64, mc*n)
		e.rhs = make([]float64, mc)
		e.art = make([]bool, mc)
	}
	e.mc = mc
	e.rows = e.rows[:mc*n]
	e.rhs = e.rhs[:mc]
	e.art = e.art[:mc]

	inf := e.BndInf
	for j := 0; j < m; j++ {
		up, lo := e.rows[(2*j)*n:(2*j+1)*n], e.rows[(2*j+1)*n:(2*j+2)*n]
		for i, v := range p.A[j*n : (j+1)*n] {
			up[i], lo[i] = v, -v
		}
		e.rhs[2*j] = math.Min(p.HA[j], inf)
		e.art[2*j] = p.HA[j] >= inf
		e.rhs[2*j+1] = -math.Max(p.LA[j], -inf)
		e.art[2*j+1] = p.LA[j] <= -inf
	}
	for i := 0; i < n; i++ {
		up, lo := 2*m+2*i, 2*m+2*i+1
		dzero(e.rows[up*n : (up+1)*n])
		dzero(e.rows[lo*n : (lo+1)*n])
		e.rows[up*n+i] = one
		e.rows[lo*n+i] = -one
		e.rhs[up] = math.Min(p.U[i], inf)
		e.art[up] = p.U[i] >= inf
		e.rhs[lo] = -math.Max(p.L[i], -inf)
		e.art[lo] = p.L[i] <= -inf
	}
	return true
}

// kktSolve solves the KKT system of the active subset and returns the primal
// and the multipliers of the active rows. ok is false when the subset is
// rank-deficient.
func (e *Dense) kktSolve(p *Problem, set []int) (x, lam []float64, ok bool) {
	n, k := e.n, len(set)
	dim := n + k
	if cap(e.kkt) < dim*dim {
		e.kkt = make([]float64, dim*dim)
		e.krhs = make([]float64, dim)
	}
	kkt, rhs := e.kkt[:dim*dim], e.krhs[:dim]

	dzero(kkt)
	if p.H != nil {
		for i := 0; i < n; i++ {
			copy(kkt[i*dim:i*dim+n], p.H[i*n:(i+1)*n])
		}
	}
	for s, r := range set {
		row := e.rows[r*n : (r+1)*n]
		for i, v := range row {
			kkt[i*dim+n+s] = v // 𝐆ꜱᵀ
			kkt[(n+s)*dim+i] = v
		}
		rhs[n+s] = e.rhs[r]
	}
	for i, g := range p.G {
		rhs[i] = -g
	}

	a := mat.NewDense(dim, dim, kkt)
	b := mat.NewVecDense(dim, rhs)
	e.sol.Reset()
	e.lu.Factorize(a)
	if err := e.lu.SolveVecTo(&e.sol, false, b); err != nil {
		return nil, nil, false
	}
	raw := e.sol.RawVector().Data
	for _, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, false
		}
	}
	return raw[:n], raw[n:dim], true
}

// feasible checks 𝐆𝐱 ≤ 𝐡 within the feasibility tolerance.
func (e *Dense) feasible(x []float64) bool {
	n := e.n
	for r := 0; r < e.mc; r++ {
		v := ddot(e.rows[r*n:(r+1)*n], x)
		if v > e.rhs[r]+e.Tol*(one+math.Abs(e.rhs[r])) {
			return false
		}
	}
	return true
}

func (e *Dense) objective(p *Problem, x []float64) float64 {
	n := p.N
	obj := ddot(p.G, x)
	if p.H != nil {
		for i := 0; i < n; i++ {
			obj += 0.5 * x[i] * ddot(p.H[i*n:(i+1)*n], x)
		}
	}
	return obj
}

func (e *Dense) artCount(set []int) (na int) {
	for _, r := range set {
		if e.art[r] {
			na++
		}
	}
	return
}

// replay retries the cached active set and certifies it by stationarity,
// primal feasibility and sign of the multipliers.
func (e *Dense) replay(p *Problem) ([]float64, bool) {
	if !e.cached {
		return nil, false
	}
	for _, r := range e.active {
		if r >= e.mc || e.art[r] {
			return nil, false
		}
	}
	x, lam, ok := e.kktSolve(p, e.active)
	if !ok || !e.feasible(x) {
		return nil, false
	}
	dualTol := math.Sqrt(e.Tol)
	for _, l := range lam {
		if l < -dualTol {
			return nil, false
		}
	}
	return slices.Clone(x), true
}

// enumerate examines every candidate active set and keeps the best feasible
// candidate. Ties prefer candidates resting on fewer artificial rows so that
// a genuinely bounded optimum is never mistaken for an unbounded one.
func (e *Dense) enumerate(p *Problem) (Status, []float64) {
	n := e.n
	budget := p.MaxIter
	if budget <= 0 {
		budget = DefaultMaxIter
	}

	if cap(e.best) < n {
		e.best = make([]float64, n)
		e.idx = make([]int, n)
		e.set = make([]int, n)
	}

	var (
		found     bool
		bestObj   float64
		bestArt   int
		exhausted bool
		iter      int
	)
	e.cached = false

	try := func(set []int) {
		if iter++; iter > budget {
			exhausted = true
			return
		}
		x, _, ok := e.kktSolve(p, set)
		if !ok || !e.feasible(x) {
			return
		}
		obj := e.objective(p, x)
		na := e.artCount(set)
		objTol := e.Tol * (one + math.Abs(obj))
		if !found || obj < bestObj-objTol || (obj <= bestObj+objTol && na < bestArt) {
			found, bestObj, bestArt = true, obj, na
			copy(e.best[:n], x)
			e.active = append(e.active[:0], set...)
		}
	}

	lo := n
	if p.H != nil {
		lo = 0
	}
	for k := lo; k <= n && !exhausted; k++ {
		if k == 0 {
			try(e.set[:0])
			continue
		}
		if k > e.mc {
			break
		}
		idx := e.idx[:k]
		for i := range idx {
			idx[i] = i
		}
		for {
			try(idx)
			if exhausted || !nextComb(idx, e.mc) {
				break
			}
		}
	}

	switch {
	case exhausted:
		return ExceedMaxIter, nil
	case !found:
		return Infeasible, nil
	case bestArt > 0:
		return Unbounded, nil
	}
	e.cached = true
	return Optimal, slices.Clone(e.best[:n])
}

// nextComb advances idx to the next k-combination of {0, ..., m-1} in
// lexicographic order.
func nextComb(idx []int, m int) bool {
	k := len(idx)
	for i := k - 1; i >= 0; i-- {
		if idx[i] < m-k+i {
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
			return true
		}
	}
	return false
}

func ddot(a, b []float64) (dot float64) {
	for i, v := range a {
		dot += v * b[i]
	}
	return
}

func dzero(a []float64) {
	for i := range a {
		a[i] = zero
	}
}
