// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

// verify re-checks a backend solution against the original, unscaled bounds.
// A solution the backend reported as optimal but which fails this check is
// treated as a failed stage.
func (w *SolverWrapper) verify(sol []float64) bool {
	p, eps := w.prob, w.opts.tol
	for j, v := range sol {
		if v < p.l[j]-eps || v > p.u[j]+eps {
			return false
		}
	}
	for r := 0; r < p.nc; r++ {
		ax := 0.0
		for j, v := range sol {
			ax += p.a[r*p.nv+j] * v
		}
		if ax < p.la[r]-eps || ax > p.ha[r]+eps {
			return false
		}
	}
	return true
}

// originFeasible reports whether the all-zero point satisfies every
// assembled constraint. A backend failure on a problem whose origin is
// feasible points at ill-conditioning rather than genuine infeasibility;
// the distinction is diagnostic only.
func (w *SolverWrapper) originFeasible() bool {
	p := w.prob
	for j := 0; j < p.nv; j++ {
		if p.l[j] > 0 || p.u[j] < 0 {
			return false
		}
	}
	for r := 0; r < p.nc; r++ {
		if p.la[r] > 0 || p.ha[r] < 0 {
			return false
		}
	}
	return true
}
