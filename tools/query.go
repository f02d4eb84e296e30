// SQL execution tool.
//
// Information Hiding:
// - Result serialization and truncation internalized
// - Backend errors converted to observation data, never faults

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
)

// TruncationMarker is appended whenever a result is cut at the row or
// byte cap, so the model knows the output is partial.
const TruncationMarker = "... (truncated)"

// QueryTool executes a single read-only SQL statement against the
// borrowed connection and serializes the result for the model.
type QueryTool struct {
	db     *sqlx.DB
	config Config
}

// NewQueryTool creates a query tool over a connection.
func NewQueryTool(db *sqlx.DB, config Config) *QueryTool {
	return &QueryTool{db: db, config: config}
}

// Metadata returns tool metadata.
func (t *QueryTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "query_sql",
		Description: "Execute a single read-only SQL query and return the rows. Write statements are rejected.",
		Parameters: []ToolParameter{
			{Name: "sql", ParamType: "string", Description: "The SQL SELECT statement to execute", Required: true},
		},
	}
}

// Execute runs the statement. All backend failures (syntax errors,
// permission errors, timeouts) come back as failed ToolResults so the
// agent can observe and recover from them.
func (t *QueryTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	sql, err := textArgument(args, "sql")
	if err != nil {
		return ToolResult{}, err
	}

	if err := CheckReadOnly(sql); err != nil {
		// Rejected before reaching the backend.
		return FailureResult(err), nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, t.config.timeout())
	defer cancel()

	rows, err := t.db.QueryxContext(queryCtx, sql)
	if err != nil {
		return t.backendFailure(queryCtx, err), nil
	}
	defer rows.Close()

	output, truncated, err := t.serialize(rows)
	if err != nil {
		return t.backendFailure(queryCtx, err), nil
	}

	return ToolResult{Output: output, Truncated: truncated}, nil
}

// backendFailure maps a backend error to observation data. Deadline
// errors get the stable "query timed out" message.
func (t *QueryTool) backendFailure(ctx context.Context, err error) ToolResult {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return FailureResult(errors.New("query timed out"))
	}
	return FailureResultf("query failed: %v", err)
}

// serialize renders rows as a pipe-separated table, applying the row
// cap and the output byte cap with an explicit truncation marker.
func (t *QueryTool) serialize(rows *sqlx.Rows) (string, bool, error) {
	columns, err := rows.Columns()
	if err != nil {
		return "", false, err
	}

	var b strings.Builder
	b.WriteString(strings.Join(columns, " | "))
	b.WriteByte('\n')

	maxRows := t.config.rows()
	maxBytes := t.config.outputBytes()
	count := 0
	truncated := false

	for rows.Next() {
		if count >= maxRows {
			truncated = true
			break
		}
		values, err := rows.SliceScan()
		if err != nil {
			return "", false, err
		}

		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = formatValue(v)
		}
		b.WriteString(strings.Join(cells, " | "))
		b.WriteByte('\n')
		count++

		if b.Len() > maxBytes {
			truncated = true
			break
		}
	}
	if err := rows.Err(); err != nil {
		return "", false, err
	}

	output := b.String()
	if len(output) > maxBytes {
		// Cut on a rune boundary so the model never sees broken UTF-8.
		cut := maxBytes
		for cut > 0 && !utf8.RuneStart(output[cut]) {
			cut--
		}
		output = output[:cut]
		truncated = true
	}
	if count == 0 && !truncated {
		output += "(0 rows)\n"
	}
	if truncated {
		output = strings.TrimRight(output, "\n") + "\n" + TruncationMarker
	}

	return strings.TrimRight(output, "\n"), truncated, nil
}

// formatValue renders a single scanned cell. Drivers hand back []byte
// for most text-ish types.
func formatValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(value)
	case string:
		return value
	default:
		return fmt.Sprintf("%v", value)
	}
}
