// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "math"

// lineSearch solves the degenerate stage problem where the feasible state
// interval is a single point x and the objective is linear. With x fixed
// every assembled row with a nonzero control coefficient becomes a one-sided
// bound on u:
//
//	𝐀ᵣ₀ u ≤ 𝒉ᴬᵣ - 𝐀ᵣ₁ x
//
// so the feasible controls form the interval [u_min, u_max] and the optimum
// sits on the boundary picked by the sign of the objective's control
// coefficient. The result must agree with the general backend path, so the
// direct control bounds participate as well.
func (w *SolverWrapper) lineSearch(g []float64, x float64) []float64 {
	p, eps := w.prob, w.opts.tol

	if x < p.l[1]-eps || x > p.u[1]+eps {
		return w.failure()
	}

	uMin, uMax := p.l[0], p.u[0]
	for r := 0; r < p.nc; r++ {
		h := p.ha[r]
		if math.IsInf(h, 1) {
			continue
		}
		switch a0, a1 := p.a[r*p.nv], p.a[r*p.nv+1]; {
		case a0 > 0:
			uMax = math.Min(uMax, (h-a1*x)/a0)
		case a0 < 0:
			uMin = math.Max(uMin, (h-a1*x)/a0)
		}
	}

	if uMin > uMax+eps {
		return w.failure()
	}
	u := uMin
	if g[0] < 0 {
		u = uMax
	}
	if math.IsInf(u, 0) || math.IsNaN(u) {
		return w.failure()
	}
	return []float64{u, x}
}
