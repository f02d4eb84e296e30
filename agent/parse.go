// Output parsing: turns a free-text model completion into a typed
// Decision or a ParseError. Lenient about fencing and surrounding
// prose, strict about the action vocabulary.

package agent

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/sqltalk/sqltalk/internal/jsonutil"
	"github.com/sqltalk/sqltalk/model"
)

// wireDecision is the JSON shape the model is asked to produce.
// ActionInput stays raw so both string and object payloads decode.
type wireDecision struct {
	Thought     string          `json:"thought"`
	Action      string          `json:"action"`
	ActionInput json.RawMessage `json:"action_input"`
}

// inputKeys maps each action to the object keys accepted when the
// model wraps action_input in an object instead of a plain string.
var inputKeys = map[model.ActionKind][]string{
	model.ActionQuerySQL:      {"sql", "query"},
	model.ActionDescribeTable: {"table", "name"},
	model.ActionFinish:        {"answer", "final_answer"},
}

// parseDecision extracts and validates the decision in a completion.
func parseDecision(completion string) (Decision, error) {
	var wire wireDecision
	if err := jsonutil.Decode(completion, &wire); err != nil {
		return Decision{}, &ParseError{Reason: err.Error()}
	}

	kind := model.ActionKind(strings.ToLower(strings.TrimSpace(wire.Action)))
	if !kind.Valid() {
		return Decision{}, &ParseError{Reason: "unknown or missing action " + strconv.Quote(wire.Action)}
	}

	input, err := decodeInput(kind, wire.ActionInput)
	if err != nil {
		return Decision{}, err
	}

	if input == "" && kind != model.ActionListTables {
		return Decision{}, &ParseError{Reason: "empty action_input for " + string(kind)}
	}

	return Decision{
		Thought: strings.TrimSpace(wire.Thought),
		Action:  kind,
		Input:   input,
	}, nil
}

// decodeInput accepts action_input as a plain string or as an object
// carrying one of the action's recognized keys.
func decodeInput(kind model.ActionKind, raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text), nil
	}

	var object map[string]string
	if err := json.Unmarshal(raw, &object); err != nil {
		return "", &ParseError{Reason: "action_input is neither a string nor an object"}
	}
	for _, key := range inputKeys[kind] {
		if value, ok := object[key]; ok && value != "" {
			return strings.TrimSpace(value), nil
		}
	}
	return "", &ParseError{Reason: "action_input object has no recognized key for " + string(kind)}
}
