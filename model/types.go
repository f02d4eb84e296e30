// Package model provides turn-scoped domain types shared across packages.
package model

import "fmt"

// ActionKind is the closed set of actions the agent may take.
type ActionKind string

const (
	// ActionQuerySQL executes a read-only SQL statement.
	ActionQuerySQL ActionKind = "query_sql"
	// ActionListTables lists the tables visible on the connection.
	ActionListTables ActionKind = "list_tables"
	// ActionDescribeTable describes the columns of a single table.
	ActionDescribeTable ActionKind = "describe_table"
	// ActionFinish ends the turn with a final answer.
	ActionFinish ActionKind = "finish"
)

// Valid reports whether k is a member of the action vocabulary.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionQuerySQL, ActionListTables, ActionDescribeTable, ActionFinish:
		return true
	}
	return false
}

// Step is one (thought, action, observation) entry in a turn's scratchpad.
// The scratchpad is append-only within a turn and discarded at turn end.
type Step struct {
	Index       int
	Thought     string
	Action      ActionKind
	ActionInput string
	Observation string
}

// ToolCall contains metrics about a single tool invocation within a turn.
type ToolCall struct {
	Name       string `json:"name"`
	InputSize  int    `json:"input_size"`
	OutputSize int    `json:"output_size"`
	DurationMs uint64 `json:"duration_ms"`
	Success    bool   `json:"success"`
}

// Status is the terminal state of a turn.
type Status int

const (
	// StatusCompleted means the model produced a final answer.
	StatusCompleted Status = iota
	// StatusAborted means a loop-integrity limit was hit; see AbortReason.
	StatusAborted
	// StatusFailed means the turn could not start (e.g. model unavailable).
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusAborted:
		return "aborted"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AbortReason distinguishes why an aborted turn stopped.
type AbortReason int

const (
	// AbortNone is the zero value for non-aborted turns.
	AbortNone AbortReason = iota
	// AbortMalformedOutput means two consecutive completions failed to parse.
	AbortMalformedOutput
	// AbortStepLimit means the step cap was exhausted.
	AbortStepLimit
	// AbortTimeLimit means the wall-clock deadline for the turn passed.
	AbortTimeLimit
	// AbortCancelled means the host cancelled the turn between steps.
	AbortCancelled
)

// String returns the reason code name.
func (r AbortReason) String() string {
	switch r {
	case AbortNone:
		return "none"
	case AbortMalformedOutput:
		return "malformed_output"
	case AbortStepLimit:
		return "step_limit_exceeded"
	case AbortTimeLimit:
		return "time_limit_exceeded"
	case AbortCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Metadata carries execution metrics for a turn.
type Metadata struct {
	DurationMs       uint64
	LLMCalls         int
	PromptTokens     uint32
	CompletionTokens uint32
	ToolCalls        []ToolCall
}

// Turn is the full record of one user question through to its terminal
// state. The host always receives a Turn, never a fault.
type Turn struct {
	UserInput   string
	Steps       []Step
	FinalAnswer string
	Status      Status
	Reason      AbortReason
	Err         string // populated for StatusFailed
	Metadata    Metadata
}

// Completed reports whether the turn produced a final answer.
func (t Turn) Completed() bool {
	return t.Status == StatusCompleted
}

// Summary returns a one-line human-readable outcome for the turn.
func (t Turn) Summary() string {
	switch t.Status {
	case StatusCompleted:
		return t.FinalAnswer
	case StatusAborted:
		return fmt.Sprintf("turn aborted: %s", t.Reason)
	case StatusFailed:
		return fmt.Sprintf("turn failed: %s", t.Err)
	default:
		return "unknown turn state"
	}
}
