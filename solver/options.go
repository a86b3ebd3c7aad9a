// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"log/slog"

	"github.com/curioloop/toppra/qp"
)

const (
	// DefaultTolerance is the tolerance used for feasibility verification
	// and for detecting a collapsed state interval. Whether it should scale
	// with the problem magnitude is an open tuning question, hence the
	// WithTolerance override.
	DefaultTolerance = 1e-8
	// DefaultIterationBudget is the fixed per-solve budget handed to the
	// backend engine. It is never tuned per call.
	DefaultIterationBudget = 10000
)

type options struct {
	engine  func(n int) qp.Engine
	scaling bool
	check   bool
	budget  int
	tol     float64
	logger  *slog.Logger
}

// Option configures a SolverWrapper at construction.
type Option func(*options) error

func defaultOptions() options {
	return options{
		engine:  func(n int) qp.Engine { return qp.NewDense(n) },
		scaling: true,
		check:   true,
		budget:  DefaultIterationBudget,
		tol:     DefaultTolerance,
		logger:  slog.Default().With(slog.String("component", "solver")),
	}
}

// WithEngine substitutes the backend engine factory. The factory is invoked
// once per session with the variable count.
func WithEngine(factory func(n int) qp.Engine) Option {
	return func(o *options) error {
		if factory == nil {
			return ErrBadOption
		}
		o.engine = factory
		return nil
	}
}

// WithoutScaling disables problem rescaling before the backend solve.
func WithoutScaling() Option {
	return func(o *options) error {
		o.scaling = false
		return nil
	}
}

// WithoutCheck disables the post-solve feasibility verification.
// This trades roughly a fifth of the solve time for the possibility that a
// backend misreport goes unnoticed.
func WithoutCheck() Option {
	return func(o *options) error {
		o.check = false
		return nil
	}
}

// WithIterationBudget overrides the fixed backend iteration budget.
func WithIterationBudget(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return ErrBadOption
		}
		o.budget = n
		return nil
	}
}

// WithTolerance overrides the feasibility and degeneracy tolerance.
func WithTolerance(eps float64) Option {
	return func(o *options) error {
		if !(eps > 0) {
			return ErrBadOption
		}
		o.tol = eps
		return nil
	}
}

// WithLogger substitutes the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) error {
		if l == nil {
			return ErrBadOption
		}
		o.logger = l
		return nil
	}
}
