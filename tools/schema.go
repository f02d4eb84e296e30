// Schema introspection tools: list_tables and describe_table.

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/sqltalk/sqltalk/schema"
)

// ListTablesTool exposes schema.Introspector.ListTables as an action.
type ListTablesTool struct {
	intro *schema.Introspector
}

// NewListTablesTool creates a list_tables tool.
func NewListTablesTool(intro *schema.Introspector) *ListTablesTool {
	return &ListTablesTool{intro: intro}
}

// Metadata returns tool metadata.
func (t *ListTablesTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "list_tables",
		Description: "List the tables visible on the current database connection.",
	}
}

// Execute lists tables. Connection failures come back as observation data.
func (t *ListTablesTool) Execute(ctx context.Context, _ json.RawMessage) (ToolResult, error) {
	names, err := t.intro.ListTables(ctx)
	if err != nil {
		return FailureResultf("could not list tables: %v", err), nil
	}
	if len(names) == 0 {
		return SuccessResult("(no tables visible on this connection)"), nil
	}
	return SuccessResult(strings.Join(names, ", ")), nil
}

// DescribeTableTool exposes schema.Introspector.DescribeTable as an action.
type DescribeTableTool struct {
	intro *schema.Introspector
}

// NewDescribeTableTool creates a describe_table tool.
func NewDescribeTableTool(intro *schema.Introspector) *DescribeTableTool {
	return &DescribeTableTool{intro: intro}
}

// Metadata returns tool metadata.
func (t *DescribeTableTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "describe_table",
		Description: "Show the column names, types and nullability of one table.",
		Parameters: []ToolParameter{
			{Name: "table", ParamType: "string", Description: "Name of the table to describe", Required: true},
		},
	}
}

// Execute describes a table. Unknown names and connection failures
// come back as observation data.
func (t *DescribeTableTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	name, err := textArgument(args, "table")
	if err != nil {
		return ToolResult{}, err
	}

	desc, err := t.intro.DescribeTable(ctx, name)
	if err != nil {
		if errors.Is(err, schema.ErrTableNotFound) {
			return FailureResultf("table %q does not exist; use list_tables to see available tables", name), nil
		}
		return FailureResultf("could not describe table: %v", err), nil
	}

	return SuccessResult(schema.Summary{Tables: []schema.TableDescriptor{desc}}.Render()), nil
}
