// Package tools provides the callable capabilities the agent may
// invoke as actions: SQL execution and schema introspection.
//
// Information Hiding:
// - Tool execution details hidden behind an interface
// - Safety classification and truncation internalized per tool
// - Registry and dispatch hidden from consumers
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ToolParameter defines a parameter schema for a tool.
type ToolParameter struct {
	Name        string `json:"name"`
	ParamType   string `json:"param_type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// ToolMetadata describes what a tool does and how to use it.
type ToolMetadata struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ToolParameter `json:"parameters"`
}

// String returns a string representation of the tool metadata.
func (m ToolMetadata) String() string {
	return fmt.Sprintf("%s: %s", m.Name, m.Description)
}

// ToolResult is the outcome of a tool execution. Failures are data,
// not faults: the agent feeds them back to the model as observations.
type ToolResult struct {
	Output    string
	Truncated bool
	Err       error
}

// Success returns true if the tool execution succeeded.
func (t ToolResult) Success() bool {
	return t.Err == nil
}

// Observation renders the result as the text the model will see next.
func (t ToolResult) Observation() string {
	if t.Err != nil {
		return fmt.Sprintf("Error: %s", t.Err.Error())
	}
	return t.Output
}

// SuccessResult creates a successful tool result.
func SuccessResult(output string) ToolResult {
	return ToolResult{Output: output}
}

// FailureResult creates a failed tool result.
func FailureResult(err error) ToolResult {
	return ToolResult{Err: err}
}

// FailureResultf creates a failed tool result with a formatted message.
func FailureResultf(format string, args ...interface{}) ToolResult {
	return ToolResult{Err: fmt.Errorf(format, args...)}
}

// Tool is the interface all agent tools implement.
//
// Execute must not raise database faults to the caller: backend
// failures come back inside the ToolResult so the agent can reason
// over them. The returned error is reserved for invocation problems
// (malformed arguments, cancelled context).
type Tool interface {
	// Metadata returns tool metadata (name, description, parameters).
	Metadata() ToolMetadata

	// Execute runs the tool with the given arguments.
	Execute(ctx context.Context, args json.RawMessage) (ToolResult, error)
}

// Config holds the policy knobs for SQL tool execution. The zero
// value is safe; every field has a working default.
type Config struct {
	// MaxRows caps the number of result rows serialized per query.
	MaxRows int
	// MaxOutputBytes caps the serialized result size per query.
	MaxOutputBytes int
	// QueryTimeout bounds a single statement's execution.
	QueryTimeout time.Duration
}

// DefaultConfig returns the default tool configuration.
func DefaultConfig() Config {
	return Config{
		MaxRows:        200,
		MaxOutputBytes: 16 * 1024,
		QueryTimeout:   30 * time.Second,
	}
}

// rows returns the row cap, applying the default when unset.
func (c Config) rows() int {
	if c.MaxRows <= 0 {
		return 200
	}
	return c.MaxRows
}

// outputBytes returns the output cap, applying the default when unset.
func (c Config) outputBytes() int {
	if c.MaxOutputBytes <= 0 {
		return 16 * 1024
	}
	return c.MaxOutputBytes
}

// timeout returns the per-statement timeout, applying the default when unset.
func (c Config) timeout() time.Duration {
	if c.QueryTimeout <= 0 {
		return 30 * time.Second
	}
	return c.QueryTimeout
}

// textArgument decodes a single-field tool argument. Models sometimes
// send a bare string instead of the documented object shape, so both
// are accepted.
func textArgument(args json.RawMessage, field string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("missing %q argument", field)
	}

	var bare string
	if err := json.Unmarshal(args, &bare); err == nil {
		return bare, nil
	}

	var object map[string]string
	if err := json.Unmarshal(args, &object); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if value, ok := object[field]; ok && value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing %q argument", field)
}
