// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "math"

// colReg regularizes the column magnitude so an all-zero column still
// yields a finite scale.
const colReg = 1e-5

// scale rewrites the assembled problem into the s-prefixed buffers,
// conditioned for the backend:
//
//  1. column scales 𝐒ⱼ = 1 / (Σᵣ₌₂ |𝐀ᵣⱼ| + 1e-5), taken over the
//     constraint-derived rows only;
//  2. columns, variable bounds, 𝐠 and 𝐇 are rescaled so the backend solves
//     for 𝐲 = 𝐒⁻¹[u,x,v] (the quadratic term gets the congruence 𝐒𝐇𝐒);
//  3. row scales 1 / (1 + Σⱼ|𝐀ᵣⱼ|) rescale each row and its bounds.
//
// The transform is exactly invertible: multiplying the backend primal by the
// column scales recovers the original-units solution. With enabled false the
// buffers are plain copies and every scale is one.
func (p *stageProblem) scale(H, g []float64, enabled bool) {
	nv, nc := p.nv, p.nc

	for j := 0; j < nv; j++ {
		s := 1.0
		if enabled {
			sum := colReg
			for r := 2; r < nc; r++ {
				sum += math.Abs(p.a[r*nv+j])
			}
			s = 1 / sum
		}
		p.colScale[j] = s
		p.sl[j] = p.l[j] / s
		p.su[j] = p.u[j] / s
		p.sg[j] = g[j] * s
	}

	if H != nil {
		for i := 0; i < nv; i++ {
			for j := 0; j < nv; j++ {
				p.sh[i*nv+j] = p.colScale[i] * H[i*nv+j] * p.colScale[j]
			}
		}
		p.qp.H = p.sh
	} else {
		p.qp.H = nil
	}

	for r := 0; r < nc; r++ {
		row, srow := p.a[r*nv:(r+1)*nv], p.sa[r*nv:(r+1)*nv]
		sum := 0.0
		for j := 0; j < nv; j++ {
			srow[j] = row[j] * p.colScale[j]
			sum += math.Abs(srow[j])
		}
		m := 1.0
		if enabled {
			m = 1 / (1 + sum)
		}
		p.rowScale[r] = m
		for j := 0; j < nv; j++ {
			srow[j] *= m
		}
		p.sla[r] = p.la[r] * m
		p.sha[r] = p.ha[r] * m
	}
}
