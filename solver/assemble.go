// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/toppra/qp"
)

// stageProblem is the reusable scratch of the assembler. Its shape is fixed
// at construction by the largest possible constraint set: rows of inactive
// bounds stay in place as vacuous rows so the problem handed to the backend
// keeps a stable shape across stages, which warm starting requires.
//
// The original-units arrays survive the solve untouched so the verifier can
// re-check solutions against them; the s-prefixed arrays carry the rescaled
// problem handed to the engine.
type stageProblem struct {
	nv, nc int

	// original units: l ≤ [u,x,v] ≤ u, lA ≤ A[u,x,v] ≤ hA
	a      []float64 // nc×nv
	la, ha []float64
	l, u   []float64

	// scaled copies
	sa       []float64
	sla, sha []float64
	sl, su   []float64
	sg       []float64
	sh       []float64

	colScale []float64
	rowScale []float64

	qp qp.Problem
}

func newStageProblem(nv, nc, budget int) *stageProblem {
	p := &stageProblem{
		nv: nv, nc: nc,
		a:  make([]float64, nc*nv),
		la: make([]float64, nc),
		ha: make([]float64, nc),
		l:  make([]float64, nv),
		u:  make([]float64, nv),

		sa:  make([]float64, nc*nv),
		sla: make([]float64, nc),
		sha: make([]float64, nc),
		sl:  make([]float64, nv),
		su:  make([]float64, nv),
		sg:  make([]float64, nv),
		sh:  make([]float64, nv*nv),

		colScale: make([]float64, nv),
		rowScale: make([]float64, nc),
	}
	p.qp = qp.Problem{
		N:       nv,
		G:       p.sg,
		A:       p.sa,
		LA:      p.sla,
		HA:      p.sha,
		L:       p.sl,
		U:       p.su,
		MaxIter: budget,
	}
	return p
}

// assemble overwrites the scratch with the constraint system of stage i.
//
// The leading two rows encode the next-state bounds
//
//	𝑥ₙₘᵢₙ ≤ x + 2δᵢu ≤ 𝑥ₙₘₐₓ
//
// as one-sided upper rows; an absent bound leaves its row vacuous rather
// than removing it. Every remaining row is a canonical linear constraint
// 𝐅𝐚ᵢ·u + 𝐅𝐛ᵢ·x ≤ 𝐯 - 𝐅𝐜ᵢ. Box bounds only ever tighten.
func (w *SolverWrapper) assemble(i int, xMin, xMax, xNextMin, xNextMax float64) {
	p := w.prob
	nv := p.nv

	for j := 0; j < nv; j++ {
		p.l[j] = math.Inf(-1)
		p.u[j] = math.Inf(1)
	}
	if !math.IsNaN(xMin) {
		p.l[1] = math.Max(p.l[1], xMin)
	}
	if !math.IsNaN(xMax) {
		p.u[1] = math.Min(p.u[1], xMax)
	}

	dzero(p.a[:2*nv])
	p.la[0], p.la[1] = math.Inf(-1), math.Inf(-1)
	p.ha[0], p.ha[1] = math.Inf(1), math.Inf(1)
	if i < w.n {
		delta := w.deltas[i]
		if !math.IsNaN(xNextMin) {
			p.a[0], p.a[1] = -2*delta, -1
			p.ha[0] = -xNextMin
		}
		if !math.IsNaN(xNextMax) {
			p.a[nv], p.a[nv+1] = 2*delta, 1
			p.ha[1] = xNextMax
		}
	}

	cur := 2
	for _, c := range w.cons {
		if c.prm.A != nil {
			f, v := c.face(i)
			k := c.fa.Len()
			c.fa.MulVec(f, rowVec(c.prm.A, i))
			c.fb.MulVec(f, rowVec(c.prm.B, i))
			c.fc.MulVec(f, rowVec(c.prm.C, i))
			for r := 0; r < k; r++ {
				row := p.a[(cur+r)*nv : (cur+r+1)*nv]
				dzero(row)
				row[0], row[1] = c.fa.AtVec(r), c.fb.AtVec(r)
				p.la[cur+r] = math.Inf(-1)
				p.ha[cur+r] = v.AtVec(r) - c.fc.AtVec(r)
			}
			cur += k
		}
		if b := c.prm.UBound; b != nil {
			p.l[0] = math.Max(p.l[0], b.At(i, 0))
			p.u[0] = math.Min(p.u[0], b.At(i, 1))
		}
		if b := c.prm.XBound; b != nil {
			p.l[1] = math.Max(p.l[1], b.At(i, 0))
			p.u[1] = math.Min(p.u[1], b.At(i, 1))
		}
	}
}

// rowVec views row i of m as a vector without copying.
func rowVec(m *mat.Dense, i int) *mat.VecDense {
	_, c := m.Dims()
	return mat.NewVecDense(c, m.RawRowView(i))
}

func dzero(a []float64) {
	for i := range a {
		a[i] = 0
	}
}
