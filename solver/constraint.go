// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Path is the geometric path being parametrized. The solver never
// interpolates the path itself; it only needs the parameter duration to
// relate the discretization grid to the path scaling handed to constraints.
type Path interface {
	// Duration returns the length of the path parameter interval.
	Duration() float64
}

// Params holds the canonical coefficient arrays of one constraint,
// precomputed for every stage of a fixed discretization grid.
//
// A constraint contributing linear rows describes, at stage i,
//
//	𝐅ᵢ (𝐚ᵢ u + 𝐛ᵢ x + 𝐜ᵢ) ≤ 𝐯ᵢ
//
// where 𝐚ᵢ, 𝐛ᵢ, 𝐜ᵢ are k-vectors and 𝐅ᵢ is an m×k face matrix. When the
// face matrix does not vary along the path the constraint is "identical"
// and stores a single 𝐅, 𝐯 pair shared by every stage.
type Params struct {
	// A, B, C hold the per-stage coefficient vectors as rows, (N+1)×k each.
	// All three are nil when the constraint contributes no linear rows.
	A, B, C *mat.Dense
	// F holds the face matrices: a single entry when Identical, otherwise
	// one m×k entry per stage.
	F []*mat.Dense
	// V holds the corresponding m-vector right-hand sides, aligned with F.
	V []*mat.VecDense
	// UBound, XBound optionally bound the control and state variable
	// directly, (N+1)×2 with the lower bound in column 0.
	UBound, XBound *mat.Dense
	// Identical marks F and V as stage-invariant.
	Identical bool
}

// Constraint is the contract between the solver and constraint sources.
// Parameter computation happens exactly once, at solver construction.
type Constraint interface {
	// Params computes the canonical coefficient arrays for the given
	// discretization grid. The scaling factor relates the grid to the
	// path parameter interval.
	Params(path Path, disc []float64, scaling float64) (*Params, error)
	// ExtraVars reports the number of auxiliary variables the constraint
	// appends after the core (u, x) pair.
	ExtraVars() int
}

// consEntry couples a constraint with its precomputed parameters and the
// per-stage matvec scratch used during assembly.
type consEntry struct {
	src        Constraint
	prm        *Params
	rows       int
	fa, fb, fc *mat.VecDense
}

// newConsEntry validates the parameter shapes against the declared layout
// and sizes the assembly scratch.
func newConsEntry(j int, src Constraint, prm *Params, stages int) (*consEntry, error) {
	if prm == nil {
		return nil, fmt.Errorf("constraint %d: %w", j, ErrParamShape)
	}

	e := &consEntry{src: src, prm: prm}

	linear := 0
	for _, p := range []*mat.Dense{prm.A, prm.B, prm.C} {
		if p != nil {
			linear++
		}
	}
	if prm.F != nil || prm.V != nil {
		linear++
	}
	if linear != 0 && (linear != 4 || prm.F == nil || prm.V == nil) {
		return nil, fmt.Errorf("constraint %d: %w", j, ErrParamShape)
	}

	if prm.A != nil {
		ra, k := prm.A.Dims()
		if rb, kb := prm.B.Dims(); rb != ra || kb != k {
			return nil, fmt.Errorf("constraint %d: %w", j, ErrParamShape)
		}
		if rc, kc := prm.C.Dims(); rc != ra || kc != k {
			return nil, fmt.Errorf("constraint %d: %w", j, ErrParamShape)
		}
		if ra != stages+1 {
			return nil, fmt.Errorf("constraint %d: %w", j, ErrParamShape)
		}
		want := stages + 1
		if prm.Identical {
			want = 1
		}
		if len(prm.F) != want || len(prm.V) != want {
			return nil, fmt.Errorf("constraint %d: %w", j, ErrParamShape)
		}
		m, _ := prm.F[0].Dims()
		for t := range prm.F {
			mt, kt := prm.F[t].Dims()
			if mt != m || kt != k || prm.V[t].Len() != m {
				return nil, fmt.Errorf("constraint %d: %w", j, ErrParamShape)
			}
		}
		e.rows = m
		e.fa = mat.NewVecDense(m, nil)
		e.fb = mat.NewVecDense(m, nil)
		e.fc = mat.NewVecDense(m, nil)
	}

	for _, b := range []*mat.Dense{prm.UBound, prm.XBound} {
		if b == nil {
			continue
		}
		if r, c := b.Dims(); r != stages+1 || c != 2 {
			return nil, fmt.Errorf("constraint %d: %w", j, ErrParamShape)
		}
	}

	return e, nil
}

// face returns the face matrix and right-hand side effective at stage i.
func (e *consEntry) face(i int) (*mat.Dense, *mat.VecDense) {
	if e.prm.Identical {
		return e.prm.F[0], e.prm.V[0]
	}
	return e.prm.F[i], e.prm.V[i]
}
