// Tool executor with bounded retry for transient backend failures.
//
// Information Hiding:
// - Retry and backoff strategy hidden
// - Transient-error classification hidden

package tools

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Executor runs tools, retrying only failures that look transient
// (lock contention, dropped connections). Semantic failures such as
// unsafe statements, syntax errors and unknown tables are never
// retried: they are observations the agent needs to see.
type Executor struct {
	maxAttempts int
}

// NewExecutor creates an executor with the given attempt budget.
func NewExecutor(maxAttempts int) *Executor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Executor{maxAttempts: maxAttempts}
}

// NewDefaultExecutor creates an executor with up to 2 attempts.
func NewDefaultExecutor() *Executor {
	return &Executor{maxAttempts: 2}
}

// Execute runs a tool, retrying transient failures with backoff.
func (e *Executor) Execute(ctx context.Context, tool Tool, args json.RawMessage) (ToolResult, error) {
	var result ToolResult
	var err error

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ToolResult{}, ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}

		result, err = tool.Execute(ctx, args)
		if err != nil {
			return ToolResult{}, err
		}
		if result.Success() || !transient(result.Err) {
			return result, nil
		}
	}

	return result, nil
}

func backoff(attempt int) time.Duration {
	const base = 100 * time.Millisecond
	const max = 2 * time.Second

	delay := base << (attempt - 1)
	if delay > max {
		delay = max
	}
	return delay
}

// transient reports whether a failure is worth one more attempt.
func transient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"database is locked", "connection reset", "broken pipe", "bad connection"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
