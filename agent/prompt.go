// Prompt construction: renders schema context, tool vocabulary, and
// response grammar into the system prompt. The rendering is
// deterministic so the model sees identical context for identical
// state.

package agent

import (
	"fmt"
	"strings"
)

// correctiveMessage is appended after a completion that failed to
// parse; the model gets exactly one chance to repair its output.
const correctiveMessage = `Your previous reply did not match the required format. Respond with a single JSON object and nothing else:
{"thought": "...", "action": "query_sql" | "list_tables" | "describe_table" | "finish", "action_input": "..."}`

// repeatedActionObservation breaks loops where the model re-issues the
// exact action it just ran.
const repeatedActionObservation = "repeated action; try a different approach"

const promptTemplate = `You answer questions about a relational database by writing SQL.

Database schema:
%s

Available actions:
%s

Rules:
- Only read queries are allowed; write statements will be rejected.
- Query results may be truncated; refine with WHERE/LIMIT if you need more.
- You have at most %d steps. Use "finish" as soon as you can answer.

Respond with a single JSON object and nothing else:
{
  "thought": "your reasoning about what to do next",
  "action": "query_sql" | "list_tables" | "describe_table" | "finish",
  "action_input": "the SQL text, the table name, or your final answer"
}`

// buildSystemPrompt renders the full system prompt for a turn.
func buildSystemPrompt(extra, schemaText, toolsText string, maxSteps int) string {
	prompt := fmt.Sprintf(promptTemplate, schemaText, toolsText, maxSteps)
	if extra != "" {
		prompt = extra + "\n\n" + prompt
	}
	return prompt
}

// buildObservationMessage renders a tool observation as the next user
// message, with an urgency warning when the step budget runs low.
func buildObservationMessage(observation string, remaining int) string {
	var b strings.Builder
	b.WriteString("Observation: ")
	b.WriteString(observation)
	if remaining <= 2 {
		fmt.Fprintf(&b, "\n\nWARNING: only %d steps remaining. Finish if you can.", remaining)
	}
	return b.String()
}
