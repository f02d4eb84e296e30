// Agent configuration.

package agent

import (
	"time"

	"github.com/sqltalk/sqltalk/tools"
)

// Config holds the policy knobs for a turn. Values here are policy,
// not behavior: hosts tune them per deployment.
type Config struct {
	// SystemPrompt is optional extra guidance prepended to the
	// generated system prompt.
	SystemPrompt string

	// MaxSteps caps the number of scratchpad steps per turn.
	MaxSteps int

	// TurnTimeout bounds the wall-clock duration of a turn.
	TurnTimeout time.Duration

	// Tools holds the SQL tool policy (row cap, output cap, per-query
	// timeout).
	Tools tools.Config

	// Verbose streams model tokens to stdout as they arrive.
	Verbose bool
}

// DefaultConfig returns the default agent configuration.
func DefaultConfig() Config {
	return Config{
		MaxSteps:    15,
		TurnTimeout: 2 * time.Minute,
		Tools:       tools.DefaultConfig(),
	}
}

// steps returns the step cap, applying the default when unset.
func (c Config) steps() int {
	if c.MaxSteps <= 0 {
		return 15
	}
	return c.MaxSteps
}

// turnTimeout returns the turn deadline, applying the default when unset.
func (c Config) turnTimeout() time.Duration {
	if c.TurnTimeout <= 0 {
		return 2 * time.Minute
	}
	return c.TurnTimeout
}
