// Reasoning-action loop for natural-language questions over SQL.
//
// This is the canonical turn controller: it seeds the scratchpad,
// asks the model for the next action, dispatches tools, and feeds
// observations back until the model finishes or a limit trips.
//
// Information Hiding:
// - Loop state-machine internals hidden
// - LLM communication hidden
// - Tool dispatch coordination hidden

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sqltalk/sqltalk/llm"
	"github.com/sqltalk/sqltalk/model"
	"github.com/sqltalk/sqltalk/schema"
	"github.com/sqltalk/sqltalk/tools"
)

// Agent runs turns against one borrowed database connection. The
// connection is owned by the host; the agent only issues read queries
// and introspection calls through it.
type Agent struct {
	config   Config
	client   *llm.Client
	registry *tools.Registry
	executor *tools.Executor
	summary  schema.Summary
}

// New creates an agent over a provider and a live connection. The
// schema summary grounds every prompt; rebuild it (and the agent) only
// when the connection target changes.
func New(config Config, provider llm.Provider, db *sqlx.DB, summary schema.Summary) (*Agent, error) {
	registry, err := tools.ForConnection(db, config.Tools)
	if err != nil {
		return nil, err
	}

	return &Agent{
		config:   config,
		client:   llm.NewClient(provider),
		registry: registry,
		executor: tools.NewDefaultExecutor(),
		summary:  summary,
	}, nil
}

// RunTurn processes one user question through to a terminal state.
// history carries prior Q&A the host wants re-injected as context; the
// scratchpad itself always starts fresh. The returned Turn is always
// terminal; the caller never sees a fault.
func (a *Agent) RunTurn(ctx context.Context, userInput string, history []llm.ChatMessage) model.Turn {
	startTime := time.Now()
	maxSteps := a.config.steps()

	ctx, cancel := context.WithTimeout(ctx, a.config.turnTimeout())
	defer cancel()

	turn := model.Turn{UserInput: userInput}

	conversation := make([]llm.ChatMessage, 0, len(history)+2)
	conversation = append(conversation, llm.SystemMessage(buildSystemPrompt(
		a.config.SystemPrompt,
		a.summary.Render(),
		a.registry.Description(),
		maxSteps,
	)))
	conversation = append(conversation, history...)
	conversation = append(conversation, llm.UserMessage(fmt.Sprintf("Question: %s", userInput)))

	parseFailures := 0

	for {
		// Cancellation and deadline are checked before starting any
		// new reasoning or dispatch work.
		if reason, stopped := a.interrupted(ctx); stopped {
			return a.aborted(turn, reason, startTime)
		}
		if len(turn.Steps) >= maxSteps {
			return a.aborted(turn, model.AbortStepLimit, startTime)
		}

		// Reasoning: ask the model for the next action.
		completion, usage, err := a.think(ctx, conversation)
		turn.Metadata.LLMCalls++
		if usage != nil {
			turn.Metadata.PromptTokens += usage.PromptTokens
			turn.Metadata.CompletionTokens += usage.CompletionTokens
		}
		if err != nil {
			if reason, stopped := a.interrupted(ctx); stopped {
				return a.aborted(turn, reason, startTime)
			}
			if len(turn.Steps) == 0 {
				// Setup-time failure: no scratchpad to recover with.
				turn.Status = model.StatusFailed
				turn.Err = "model unavailable"
				turn.Metadata.DurationMs = uint64(time.Since(startTime).Milliseconds())
				return turn
			}
			// Mid-turn model failures become observations; the step
			// cap bounds how long a broken backend can spin.
			observation := fmt.Sprintf("model error: %v", err)
			turn.Steps = append(turn.Steps, model.Step{
				Index:       len(turn.Steps),
				Observation: observation,
			})
			conversation = append(conversation, llm.UserMessage(
				buildObservationMessage(observation, maxSteps-len(turn.Steps))))
			continue
		}

		decision, perr := parseDecision(completion)
		if perr != nil {
			parseFailures++
			if parseFailures >= 2 {
				return a.aborted(turn, model.AbortMalformedOutput, startTime)
			}
			conversation = append(conversation,
				llm.AssistantMessage(completion),
				llm.UserMessage(correctiveMessage),
			)
			continue
		}
		parseFailures = 0

		if decision.Final() {
			turn.Steps = append(turn.Steps, model.Step{
				Index:   len(turn.Steps),
				Thought: decision.Thought,
				Action:  model.ActionFinish,
			})
			turn.Status = model.StatusCompleted
			turn.FinalAnswer = decision.Input
			turn.Metadata.DurationMs = uint64(time.Since(startTime).Milliseconds())
			return turn
		}

		conversation = append(conversation, llm.AssistantMessage(marshalDecision(decision)))

		// Loop break: an identical repeated action gets a corrective
		// observation instead of a second execution.
		observation := repeatedActionObservation
		var toolCall *model.ToolCall
		if !a.repeatsLast(turn.Steps, decision) {
			if reason, stopped := a.interrupted(ctx); stopped {
				return a.aborted(turn, reason, startTime)
			}
			observation, toolCall = a.dispatch(ctx, decision)
		}

		turn.Steps = append(turn.Steps, model.Step{
			Index:       len(turn.Steps),
			Thought:     decision.Thought,
			Action:      decision.Action,
			ActionInput: decision.Input,
			Observation: observation,
		})
		if toolCall != nil {
			turn.Metadata.ToolCalls = append(turn.Metadata.ToolCalls, *toolCall)
		}
		if a.config.Verbose {
			fmt.Printf("[step %d] %s(%s)\n%s\n\n", len(turn.Steps), decision.Action, decision.Input, observation)
		}

		conversation = append(conversation, llm.UserMessage(
			buildObservationMessage(observation, maxSteps-len(turn.Steps))))
	}
}

// interrupted reports whether the host cancelled the turn or the
// deadline passed.
func (a *Agent) interrupted(ctx context.Context) (model.AbortReason, bool) {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return model.AbortTimeLimit, true
	case ctx.Err() != nil:
		return model.AbortCancelled, true
	default:
		return model.AbortNone, false
	}
}

func (a *Agent) aborted(turn model.Turn, reason model.AbortReason, startTime time.Time) model.Turn {
	turn.Status = model.StatusAborted
	turn.Reason = reason
	turn.Metadata.DurationMs = uint64(time.Since(startTime).Milliseconds())
	return turn
}

// repeatsLast reports whether the decision re-issues the previous
// step's exact (action, input) pair.
func (a *Agent) repeatsLast(steps []model.Step, decision Decision) bool {
	if len(steps) == 0 {
		return false
	}
	last := steps[len(steps)-1]
	return last.Action == decision.Action && last.ActionInput == decision.Input
}

// think asks the model for the next completion. Verbose mode streams
// tokens to stdout as they arrive; the loop only advances once the
// full completion is assembled.
func (a *Agent) think(ctx context.Context, conversation []llm.ChatMessage) (string, *llm.TokenUsage, error) {
	if a.config.Verbose {
		return a.thinkWithStreaming(ctx, conversation)
	}
	return a.client.ChatWithUsage(ctx, conversation)
}

// streamResult holds the result of a streaming call.
type streamResult struct {
	usage *llm.TokenUsage
	err   error
}

func (a *Agent) thinkWithStreaming(ctx context.Context, conversation []llm.ChatMessage) (string, *llm.TokenUsage, error) {
	chunks := make(chan string, 100)
	resultCh := make(chan streamResult, 1)

	go func() {
		defer close(chunks)
		usage, err := a.client.StreamChat(ctx, conversation, chunks)
		resultCh <- streamResult{usage: usage, err: err}
	}()

	var completion strings.Builder
	for chunk := range chunks {
		fmt.Print(chunk)
		os.Stdout.Sync()
		completion.WriteString(chunk)
	}
	if completion.Len() > 0 {
		fmt.Print("\n\n")
	}

	result := <-resultCh
	if result.err != nil {
		return "", nil, result.err
	}
	return completion.String(), result.usage, nil
}

// dispatch routes an action to its tool and returns the observation
// plus call metrics. Tool failures are observations, never faults.
func (a *Agent) dispatch(ctx context.Context, decision Decision) (string, *model.ToolCall) {
	tool, exists := a.registry.Get(string(decision.Action))
	if !exists {
		return fmt.Sprintf("Error: no tool for action %q", decision.Action), nil
	}

	args := marshalArgs(decision)
	started := time.Now()

	result, err := a.executor.Execute(ctx, tool, args)
	if err != nil {
		result = tools.FailureResultf("invalid action input: %v", err)
	}

	observation := result.Observation()
	return observation, &model.ToolCall{
		Name:       string(decision.Action),
		InputSize:  len(decision.Input),
		OutputSize: len(observation),
		DurationMs: uint64(time.Since(started).Milliseconds()),
		Success:    result.Success(),
	}
}

// marshalArgs builds the tool argument payload for a decision.
func marshalArgs(decision Decision) json.RawMessage {
	var args map[string]string
	switch decision.Action {
	case model.ActionQuerySQL:
		args = map[string]string{"sql": decision.Input}
	case model.ActionDescribeTable:
		args = map[string]string{"table": decision.Input}
	default:
		return nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return nil
	}
	return raw
}

// marshalDecision renders the decision back into the grammar for the
// conversation transcript.
func marshalDecision(decision Decision) string {
	raw, err := json.Marshal(map[string]string{
		"thought":      decision.Thought,
		"action":       string(decision.Action),
		"action_input": decision.Input,
	})
	if err != nil {
		return fmt.Sprintf(`{"thought": %q}`, decision.Thought)
	}
	return string(raw)
}
