// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
)

// SolverWrapper assembles, conditions and solves the per-stage constrained
// optimization problems of a reachability-analysis sweep.
//
// All constraint parameters are computed once at construction. Every call to
// SolveStagewiseOptim reuses the same scratch buffers and the two persistent
// engine sessions; the wrapper is therefore not safe for concurrent use.
type SolverWrapper struct {
	path    Path
	disc    []float64
	deltas  []float64
	scaling float64

	n  int // number of stages, grid points are n+1
	nv int // decision variables, 2 + auxiliary
	nc int // constraint rows, 2 next-state rows + per-constraint rows

	cons []*consEntry
	prob *stageProblem

	opts   options
	logger *slog.Logger

	minSess, maxSess *session
}

// New computes all constraint parameters for the given discretization grid
// and returns a solver whose per-stage problems have a fixed shape.
//
// The grid must be strictly increasing. A nil path leaves the path scaling
// factor at one.
func New(constraints []Constraint, path Path, disc []float64, opts ...Option) (*SolverWrapper, error) {

	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	if len(disc) < 2 {
		return nil, ErrDiscretization
	}
	n := len(disc) - 1
	deltas := make([]float64, n)
	for i := 0; i < n; i++ {
		if !(disc[i+1] > disc[i]) {
			return nil, ErrDiscretization
		}
		deltas[i] = disc[i+1] - disc[i]
	}

	scaling := 1.0
	if path != nil {
		if d := path.Duration(); d > 0 {
			scaling = (disc[n] - disc[0]) / d
		}
	}

	w := &SolverWrapper{
		path:    path,
		disc:    slices.Clone(disc),
		deltas:  deltas,
		scaling: scaling,
		n:       n,
		nv:      2,
		nc:      2,
		opts:    o,
		logger:  o.logger,
	}

	for j, c := range constraints {
		if c == nil {
			return nil, fmt.Errorf("constraint %d: %w", j, ErrNilConstraint)
		}
		extra := c.ExtraVars()
		if extra < 0 {
			return nil, fmt.Errorf("constraint %d: %w", j, ErrExtraVars)
		}
		prm, err := c.Params(path, w.disc, scaling)
		if err != nil {
			return nil, fmt.Errorf("constraint %d: %w", j, err)
		}
		entry, err := newConsEntry(j, c, prm, n)
		if err != nil {
			return nil, err
		}
		w.nv += extra
		w.nc += entry.rows
		w.cons = append(w.cons, entry)
	}

	w.prob = newStageProblem(w.nv, w.nc, o.budget)
	return w, nil
}

// NumStages returns the number of stages N; the grid has N+1 points.
func (w *SolverWrapper) NumStages() int { return w.n }

// NumVars returns the total number of decision variables, including u and x.
func (w *SolverWrapper) NumVars() int { return w.nv }

// Deltas returns the grid spacings δᵢ = sᵢ₊₁ - sᵢ.
func (w *SolverWrapper) Deltas() []float64 { return slices.Clone(w.deltas) }

// Scaling returns the path scaling factor handed to the constraints.
func (w *SolverWrapper) Scaling() float64 { return w.scaling }

// SetupSolver creates the two backend sessions. It is called implicitly by
// the first solve, but callers that pair it with CloseSolver around a batch
// of stage solves control the session lifetime explicitly.
func (w *SolverWrapper) SetupSolver() {
	w.minSess = newSession(minimizing, w.opts.engine(w.nv))
	w.maxSess = newSession(maximizing, w.opts.engine(w.nv))
}

// CloseSolver releases the backend sessions and their warm-start state.
func (w *SolverWrapper) CloseSolver() {
	w.minSess, w.maxSess = nil, nil
}

// SolveStagewiseOptim solves the stage-wise program
//
//	minimize ½ [u,x,v] 𝐇 [u,x,v]ᵀ + 𝐠ᵀ[u,x,v]
//
// over the feasible set of stage i intersected with the requested state and
// next-state bounds. H is a dense nV×nV row-major matrix or nil to drop the
// quadratic term; NaN bound arguments mean the bound is absent.
//
// On success the returned vector has length NumVars and satisfies every
// assembled constraint within tolerance. On failure every entry is NaN and
// the caller must treat the stage as infeasible.
func (w *SolverWrapper) SolveStagewiseOptim(i int, H, g []float64, xMin, xMax, xNextMin, xNextMax float64) []float64 {
	switch {
	case i < 0 || i > w.n:
		panic("stage index out of range")
	case len(g) != w.nv:
		panic("objective dimension not match solver")
	case H != nil && len(H) != w.nv*w.nv:
		panic("hessian dimension not match solver")
	}

	if w.minSess == nil {
		w.SetupSolver()
	}

	w.assemble(i, xMin, xMax, xNextMin, xNextMax)

	if w.degenerate(H, xMin, xMax) {
		w.logger.Debug("state interval collapsed, using line search",
			slog.Int("stage", i), slog.Float64("x", xMin))
		return w.lineSearch(g, xMin)
	}

	p := w.prob
	p.scale(H, g, w.opts.scaling)

	sess := w.maxSess
	if g[1] > 0 {
		sess = w.minSess
	}
	status, primal := sess.solve(&p.qp, i)

	if status.Solved() {
		for j := range primal {
			primal[j] *= p.colScale[j]
		}
		if !w.opts.check || w.verify(primal) {
			return primal
		}
		w.logger.Warn("backend reported success but solution violates tolerance",
			slog.Int("stage", i), slog.String("session", sess.kind.String()),
			slog.Any("solution", primal))
		return w.failure()
	}

	if w.originFeasible() {
		w.logger.Warn("origin satisfies all constraints, failure is likely numerical",
			slog.Int("stage", i), slog.String("status", status.String()))
	} else {
		w.logger.Debug("stage problem not solvable",
			slog.Int("stage", i), slog.String("status", status.String()))
	}
	return w.failure()
}

// degenerate reports whether the feasible state interval collapsed to a
// point and the closed-form fallback applies.
func (w *SolverWrapper) degenerate(H []float64, xMin, xMax float64) bool {
	return w.nv == 2 && H == nil &&
		!math.IsNaN(xMin) && !math.IsNaN(xMax) &&
		math.Abs(xMin-xMax) < w.opts.tol
}

// failure returns the all-NaN vector signalling an unsolved stage.
func (w *SolverWrapper) failure() []float64 {
	res := make([]float64, w.nv)
	for j := range res {
		res[j] = math.NaN()
	}
	return res
}
