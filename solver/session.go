// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/curioloop/toppra/qp"

// sessionKind tags the two persistent backend sessions. The reachability
// sweep alternates between maximizing and minimizing solves, and each
// direction keeps its own warm-start state.
type sessionKind int

const (
	minimizing sessionKind = iota
	maximizing
)

func (k sessionKind) String() string {
	if k == minimizing {
		return "minimizing"
	}
	return "maximizing"
}

// coldStage is an index no real stage is adjacent to, forcing the first
// solve of a session to cold start.
const coldStage = -2

// session is one persistent backend engine plus the index of the stage it
// most recently solved.
type session struct {
	kind   sessionKind
	engine qp.Engine
	last   int
}

func newSession(kind sessionKind, engine qp.Engine) *session {
	return &session{kind: kind, engine: engine, last: coldStage}
}

// solve dispatches the problem to the engine, warm starting when the stage
// is adjacent to the previous one. Warm and cold starts must produce the
// same solution; only the amount of backend work differs.
func (s *session) solve(p *qp.Problem, stage int) (qp.Status, []float64) {
	gap := s.last - stage
	if gap < 0 {
		gap = -gap
	}
	s.last = stage
	if gap <= 1 {
		return s.engine.Hotstart(p)
	}
	return s.engine.Init(p)
}
