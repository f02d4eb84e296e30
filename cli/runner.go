// Command execution for CLI commands.
//
// Information Hiding:
// - Command dispatch logic hidden
// - Agent setup hidden
// - Output formatting hidden

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pterm/pterm"

	"github.com/sqltalk/sqltalk/llm"
	"github.com/sqltalk/sqltalk/model"
)

// Ask answers a single question and exits.
func Ask(ctx context.Context, question string, opts Options) error {
	s, err := newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	pterm.Info.Printfln("Asking %s about %d tables...", s.model, len(s.summary.Tables))

	turn := s.agent.RunTurn(ctx, question, nil)
	printTurn(turn, opts.Verbose)

	if !turn.Completed() {
		return fmt.Errorf("%s", turn.Summary())
	}
	return nil
}

// Chat starts an interactive question session. History stays in memory
// for the lifetime of the session; 'clear' drops it.
func Chat(ctx context.Context, opts Options) error {
	s, err := newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	conversationID := uuid.NewString()
	pterm.DefaultSection.Println("sqltalk")
	pterm.Info.Printfln("Model: %s", s.model)
	pterm.Info.Printfln("Conversation: %s", conversationID)
	fmt.Println()
	fmt.Println(renderSchemaPreview(s.summary.TableNames()))
	fmt.Println("Ask questions in plain language. Type 'tables' for the schema, 'clear' to reset history, 'exit' to quit.")
	fmt.Println()

	var history []llm.ChatMessage
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "exit", "quit":
			return scanner.Err()
		case "clear":
			history = nil
			pterm.Info.Println("history cleared")
			continue
		case "tables":
			fmt.Println(s.summary.Render())
			fmt.Println()
			continue
		}

		turn := s.agent.RunTurn(ctx, input, history)
		printTurn(turn, opts.Verbose)

		if turn.Completed() {
			history = append(history,
				llm.UserMessage(input),
				llm.AssistantMessage(turn.FinalAnswer),
			)
		}
	}

	return scanner.Err()
}

// Tables prints the introspected schema and exits.
func Tables(ctx context.Context, opts Options) error {
	s, err := newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Println(s.summary.Render())
	return nil
}

// maxObservationLen bounds observation output in verbose step listings.
const maxObservationLen = 400

func printTurn(turn model.Turn, verbose bool) {
	switch turn.Status {
	case model.StatusCompleted:
		if verbose {
			printSteps(turn.Steps)
		}
		fmt.Println()
		pterm.Success.Println(turn.FinalAnswer)
		if verbose {
			printTokenStats(turn.Metadata)
		}
		fmt.Println()
	case model.StatusAborted:
		if verbose {
			printSteps(turn.Steps)
		}
		pterm.Warning.Printfln("turn aborted: %s (%d steps)", turn.Reason, len(turn.Steps))
	case model.StatusFailed:
		pterm.Error.Printfln("turn failed: %s", turn.Err)
	}
}

func printSteps(steps []model.Step) {
	fmt.Println("--- Steps ---")
	for _, step := range steps {
		fmt.Printf("[%d] %s\n", step.Index, step.Thought)
		if step.Action != "" {
			fmt.Printf("    Action: %s(%s)\n", step.Action, step.ActionInput)
		}
		if step.Observation != "" {
			fmt.Printf("    Observation: %s\n", truncateString(step.Observation, maxObservationLen))
		}
		fmt.Println()
	}
	fmt.Println("-------------")
}

// printTokenStats prints token usage statistics.
func printTokenStats(meta model.Metadata) {
	fmt.Printf("\n(%d LLM calls, %d prompt + %d completion tokens, %dms)\n",
		meta.LLMCalls, meta.PromptTokens, meta.CompletionTokens, meta.DurationMs)
}

// renderSchemaPreview shows table names without the full column listing.
func renderSchemaPreview(names []string) string {
	if len(names) == 0 {
		return "No tables visible on this connection."
	}
	return fmt.Sprintf("Tables: %s", strings.Join(names, ", "))
}

// truncateString truncates a string to maxLen runes, preserving UTF-8 boundaries.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
