// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "errors"

var (
	// ErrDiscretization indicates the path discretization grid is not strictly increasing.
	ErrDiscretization = errors.New("solver: path discretization must be strictly increasing")
	// ErrNilConstraint indicates the constraint list contains a nil entry.
	ErrNilConstraint = errors.New("solver: constraint list contains nil entry")
	// ErrParamShape indicates constraint parameter arrays disagree with the declared layout.
	ErrParamShape = errors.New("solver: constraint parameter shapes do not match declared layout")
	// ErrExtraVars indicates a constraint declared a negative auxiliary variable count.
	ErrExtraVars = errors.New("solver: auxiliary variable count must not be negative")
	// ErrBadOption indicates an option carried an out-of-range value.
	ErrBadOption = errors.New("solver: invalid option value")
)
