// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFallbackSingleActiveRow(t *testing.T) {
	// One canonical row -u ≤ 2. With the state pinned at 0.5 and a linear
	// objective the answer comes from the closed-form line search.
	lo := &linConstraint{a: 1, f: []float64{-1}, v: []float64{2}}
	w, err := New([]Constraint{lo}, nil, grid(2, 0.1))
	require.NoError(t, err)

	res := w.SolveStagewiseOptim(1, nil, []float64{1, 0}, 0.5, 0.5, math.NaN(), math.NaN())
	require.InDeltaSlice(t, []float64{-2, 0.5}, res, 1e-9)
}

func TestFallbackUnboundedControl(t *testing.T) {
	// The single row only bounds u from below; maximizing u has no finite
	// optimum and the stage must fail.
	lo := &linConstraint{a: 1, f: []float64{-1}, v: []float64{2}}
	w, err := New([]Constraint{lo}, nil, grid(2, 0.1))
	require.NoError(t, err)

	res := w.SolveStagewiseOptim(1, nil, []float64{-1, 0}, 0.5, 0.5, math.NaN(), math.NaN())
	require.True(t, isNaNVec(res))
}

func TestFallbackStateOutsideBounds(t *testing.T) {
	// The pinned state conflicts with the constraint's own state bound.
	w, err := New([]Constraint{accelBox(2), velBox(0, 0.4)}, nil, grid(2, 0.1))
	require.NoError(t, err)

	res := w.SolveStagewiseOptim(1, nil, []float64{1, 0}, 0.5, 0.5, math.NaN(), math.NaN())
	require.True(t, isNaNVec(res))
}

func TestFallbackAgreesWithBackend(t *testing.T) {
	// An explicit zero quadratic term routes the same degenerate problem
	// through the backend instead of the line search. Both paths must land
	// on the same vertex, next-state rows included.
	zero := []float64{0, 0, 0, 0}

	for _, g := range [][]float64{{1, 0}, {-1, 0}} {
		w, err := New([]Constraint{accelBox(2), velBox(0, 1)}, nil, grid(2, 0.1))
		require.NoError(t, err)

		direct := w.SolveStagewiseOptim(1, nil, g, 0.5, 0.5, 0, 0.5)
		general := w.SolveStagewiseOptim(1, zero, g, 0.5, 0.5, 0, 0.5)

		require.False(t, isNaNVec(direct))
		require.InDeltaSlice(t, direct, general, 1e-9)
	}
}
