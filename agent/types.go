// Package agent implements the reasoning-action loop that turns a
// natural-language question into SQL, observes results, and iterates
// until it can answer.
//
// Contains the decision types produced by the output parser.
package agent

import (
	"github.com/sqltalk/sqltalk/model"
)

// Decision is one fully-typed parsed model completion: either a tool
// action or a final answer. The parser produces a complete Decision or
// a ParseError, never a partially-populated value.
type Decision struct {
	Thought string
	Action  model.ActionKind
	Input   string
}

// Final reports whether the decision ends the turn.
func (d Decision) Final() bool {
	return d.Action == model.ActionFinish
}

// ParseError describes a completion that does not match the action
// grammar.
type ParseError struct {
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return "malformed completion: " + e.Reason
}
