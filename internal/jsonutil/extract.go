// Package jsonutil extracts JSON objects from free-text LLM completions.
//
// Models frequently wrap their JSON in markdown fences or surround it
// with commentary. The helpers here locate the object, validate it,
// and decode it into a typed value.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractObject returns the JSON object embedded in text.
//
// It tries, in order:
//  1. the whole text (after stripping markdown fences)
//  2. the span from the first '{' to the last '}'
//
// Only objects are handled, not top-level arrays. Brace matching is
// positional, so pathological inputs with unbalanced braces inside
// string values may not extract.
func ExtractObject(text string) (string, error) {
	candidate := stripFences(text)

	if json.Valid([]byte(candidate)) && strings.HasPrefix(strings.TrimSpace(candidate), "{") {
		return candidate, nil
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start != -1 && end > start {
		span := candidate[start : end+1]
		if json.Valid([]byte(span)) {
			return span, nil
		}
	}

	return "", fmt.Errorf("no JSON object found in %q", preview(text))
}

// Decode extracts the JSON object in text and unmarshals it into v.
func Decode(text string, v interface{}) error {
	obj, err := ExtractObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return fmt.Errorf("decode extracted JSON: %w", err)
	}
	return nil
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		// Drop an optional language tag on the opening fence.
		if idx := strings.IndexByte(trimmed, '\n'); idx != -1 {
			first := strings.TrimSpace(trimmed[:idx])
			if first != "" && !strings.ContainsAny(first, "{}") {
				trimmed = trimmed[idx+1:]
			}
		}
		trimmed = strings.TrimSpace(trimmed)
	}
	if strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "```"))
	}

	return trimmed
}

func preview(text string) string {
	const max = 80
	text = strings.TrimSpace(text)
	if len(text) > max {
		return text[:max] + "..."
	}
	return text
}
