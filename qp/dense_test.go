// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qp

import (
	"math"
	"testing"
)

func almostEqual(got, want []float64, tol float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			return false
		}
	}
	return true
}

func inf() float64 { return math.Inf(1) }

func TestDenseLP(t *testing.T) {

	// minimize u + x subject to u + x ≥ 1, 0 ≤ u ≤ 2, 0 ≤ x ≤ 2
	p := &Problem{
		N:  2,
		G:  []float64{1, 1},
		A:  []float64{1, 1},
		LA: []float64{1},
		HA: []float64{inf()},
		L:  []float64{0, 0},
		U:  []float64{2, 2},
	}

	e := NewDense(2)
	s, x := e.Init(p)

	switch {
	case s != Optimal:
		t.Fatal("TestDenseLP: Unexpected Status", s)
	case math.Abs(x[0]+x[1]-1) > 1e-9:
		t.Fatal("TestDenseLP: Bad Objective", x)
	case x[0] < -1e-9 || x[1] < -1e-9:
		t.Fatal("TestDenseLP: Bound Violation", x)
	}
}

func TestDenseQP(t *testing.T) {

	// minimize ½(u² + x²) - 2u - 2x over the unit box: optimum at (1, 1)
	p := &Problem{
		N:  2,
		H:  []float64{1, 0, 0, 1},
		G:  []float64{-2, -2},
		A:  []float64{0, 0},
		LA: []float64{math.Inf(-1)},
		HA: []float64{inf()},
		L:  []float64{0, 0},
		U:  []float64{1, 1},
	}

	e := NewDense(2)
	s, x := e.Init(p)

	switch {
	case s != Optimal:
		t.Fatal("TestDenseQP: Unexpected Status", s)
	case !almostEqual(x, []float64{1, 1}, 1e-9):
		t.Fatal("TestDenseQP: Bad Solution", x)
	}

	// Unconstrained interior optimum at (½, ½).
	p.G = []float64{-0.5, -0.5}
	s, x = e.Init(p)

	switch {
	case s != Optimal:
		t.Fatal("TestDenseQP: Unexpected Status", s)
	case !almostEqual(x, []float64{0.5, 0.5}, 1e-9):
		t.Fatal("TestDenseQP: Bad Interior Solution", x)
	}
}

func TestDenseUnbounded(t *testing.T) {

	// minimize u with x boxed and u entirely free
	p := &Problem{
		N:  2,
		G:  []float64{1, 0},
		A:  []float64{0, 0},
		LA: []float64{math.Inf(-1)},
		HA: []float64{inf()},
		L:  []float64{math.Inf(-1), 0},
		U:  []float64{inf(), 1},
	}

	e := NewDense(2)
	if s, _ := e.Init(p); s != Unbounded {
		t.Fatal("TestDenseUnbounded: Unexpected Status", s)
	}
}

func TestDenseInfeasible(t *testing.T) {

	// u ≤ -1 contradicts u ≥ 0
	p := &Problem{
		N:  2,
		G:  []float64{1, 0},
		A:  []float64{1, 0},
		LA: []float64{math.Inf(-1)},
		HA: []float64{-1},
		L:  []float64{0, 0},
		U:  []float64{1, 1},
	}

	e := NewDense(2)
	if s, _ := e.Init(p); s != Infeasible {
		t.Fatal("TestDenseInfeasible: Unexpected Status", s)
	}
}

func TestDenseHotstart(t *testing.T) {

	p := &Problem{
		N:  2,
		G:  []float64{1, 1},
		A:  []float64{1, 1},
		LA: []float64{1},
		HA: []float64{inf()},
		L:  []float64{0, 0},
		U:  []float64{2, 2},
	}

	e := NewDense(2)
	s1, x1 := e.Init(p)
	s2, x2 := e.Hotstart(p)

	switch {
	case s1 != Optimal || s2 != Optimal:
		t.Fatal("TestDenseHotstart: Unexpected Status", s1, s2)
	case !almostEqual(x1, x2, 1e-12):
		t.Fatal("TestDenseHotstart: Hotstart Mismatch", x1, x2)
	}

	// Nudge the constraint: the cached active set remains optimal.
	p.LA = []float64{1.1}
	s3, x3 := e.Hotstart(p)
	s4, x4 := e.Init(p)

	switch {
	case s3 != Optimal || s4 != Optimal:
		t.Fatal("TestDenseHotstart: Unexpected Status", s3, s4)
	case !almostEqual(x3, x4, 1e-9):
		t.Fatal("TestDenseHotstart: Hotstart Drift", x3, x4)
	}

	// Flip the objective so the cached set turns dual infeasible and the
	// engine falls back to enumeration.
	p.G = []float64{-1, -1}
	s5, x5 := e.Hotstart(p)

	switch {
	case s5 != Optimal:
		t.Fatal("TestDenseHotstart: Unexpected Status", s5)
	case math.Abs(x5[0]-2) > 1e-9 || math.Abs(x5[1]-2) > 1e-9:
		t.Fatal("TestDenseHotstart: Bad Solution", x5)
	}
}

func TestDenseBudget(t *testing.T) {

	p := &Problem{
		N:       2,
		G:       []float64{1, 1},
		A:       []float64{1, 1},
		LA:      []float64{1},
		HA:      []float64{inf()},
		L:       []float64{0, 0},
		U:       []float64{2, 2},
		MaxIter: 1,
	}

	e := NewDense(2)
	if s, _ := e.Init(p); s != ExceedMaxIter {
		t.Fatal("TestDenseBudget: Unexpected Status", s)
	}
}

func TestDenseBadProblem(t *testing.T) {

	e := NewDense(2)
	if s, _ := e.Init(&Problem{N: 3, G: []float64{0, 0, 0}, L: []float64{0, 0, 0}, U: []float64{0, 0, 0}}); s != BadProblem {
		t.Fatal("TestDenseBadProblem: Unexpected Status", s)
	}
	if s, _ := e.Init(&Problem{N: 2, G: []float64{0}, L: []float64{0, 0}, U: []float64{0, 0}}); s != BadProblem {
		t.Fatal("TestDenseBadProblem: Unexpected Status", s)
	}
}

func TestNextComb(t *testing.T) {

	idx := []int{0, 1}
	var combs [][2]int
	for {
		combs = append(combs, [2]int{idx[0], idx[1]})
		if !nextComb(idx, 4) {
			break
		}
	}

	want := [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	if len(combs) != len(want) {
		t.Fatal("TestNextComb: Bad Count", combs)
	}
	for i, c := range combs {
		if c != want[i] {
			t.Fatal("TestNextComb: Bad Order", combs)
		}
	}
}
