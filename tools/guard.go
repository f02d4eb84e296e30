// Statement guard: keeps model-authored SQL read-only.
//
// The SQL text originates from an untrusted model completion, so the
// guard classifies every statement before it reaches the backend.

package tools

import (
	"errors"
	"strings"
)

// ErrUnsafeStatement is returned for any statement that is not a
// read. The message is part of the tool contract: the model sees it
// verbatim as an observation.
var ErrUnsafeStatement = errors.New("write operations are not permitted")

// readKeywords are the statement-leading keywords allowed through.
var readKeywords = map[string]bool{
	"select":  true,
	"with":    true,
	"explain": true,
	"show":    true,
	"values":  true,
}

// writeKeywords flag statements (or CTE bodies) that mutate state.
var writeKeywords = map[string]bool{
	"insert":   true,
	"update":   true,
	"delete":   true,
	"drop":     true,
	"alter":    true,
	"create":   true,
	"truncate": true,
	"replace":  true,
	"grant":    true,
	"revoke":   true,
	"merge":    true,
	"attach":   true,
	"detach":   true,
	"vacuum":   true,
	"pragma":   true,
}

// CheckReadOnly returns ErrUnsafeStatement unless sql is a single
// read statement. Classification is by keyword after stripping
// leading whitespace and SQL comments, case-insensitive.
func CheckReadOnly(sql string) error {
	body := stripLeadingComments(sql)
	if body == "" {
		return errors.New("empty statement")
	}
	if hasStackedStatement(body) {
		// One statement per call; a second one could hide a write.
		return ErrUnsafeStatement
	}

	keyword := strings.ToLower(firstWord(body))
	if !readKeywords[keyword] {
		return ErrUnsafeStatement
	}

	// A CTE prefix can front a data-modifying statement
	// (WITH x AS (...) DELETE FROM ...), and EXPLAIN ANALYZE runs the
	// statement it explains on postgres, so scan the remaining words
	// of both for write keywords.
	if keyword == "with" || keyword == "explain" {
		for _, word := range strings.Fields(strings.ToLower(body)) {
			if writeKeywords[strings.Trim(word, "(),")] {
				return ErrUnsafeStatement
			}
		}
	}

	return nil
}

// hasStackedStatement reports whether body contains a statement
// separator outside quoted literals. A trailing terminator is fine.
func hasStackedStatement(body string) bool {
	s := strings.TrimRight(strings.TrimSpace(body), "; \t\n\r")

	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ';':
			return true
		}
	}
	return false
}

// stripLeadingComments removes leading whitespace, line comments
// (`-- ...`) and block comments (`/* ... */`) before the statement.
func stripLeadingComments(sql string) string {
	s := strings.TrimSpace(sql)
	for {
		switch {
		case strings.HasPrefix(s, "--"):
			idx := strings.IndexByte(s, '\n')
			if idx == -1 {
				return ""
			}
			s = strings.TrimSpace(s[idx+1:])
		case strings.HasPrefix(s, "/*"):
			idx := strings.Index(s, "*/")
			if idx == -1 {
				return ""
			}
			s = strings.TrimSpace(s[idx+2:])
		default:
			return s
		}
	}
}

func firstWord(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '('
	})
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
