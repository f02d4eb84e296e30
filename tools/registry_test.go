package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	db := newStudentsDB(t)
	registry := NewRegistry()

	if err := registry.Register(NewQueryTool(db, DefaultConfig())); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, ok := registry.Get("query_sql"); !ok {
		t.Error("registered tool not found")
	}
	if _, ok := registry.Get("missing_tool"); ok {
		t.Error("unregistered tool reported as present")
	}
}

func TestRegistryDuplicate(t *testing.T) {
	db := newStudentsDB(t)
	registry := NewRegistry()

	tool := NewQueryTool(db, DefaultConfig())
	if err := registry.Register(tool); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := registry.Register(tool); err == nil {
		t.Error("duplicate registration should fail")
	}
}

func TestForConnection(t *testing.T) {
	db := newStudentsDB(t)

	registry, err := ForConnection(db, DefaultConfig())
	if err != nil {
		t.Fatalf("ForConnection failed: %v", err)
	}

	names := registry.Names()
	want := []string{"describe_table", "list_tables", "query_sql"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestRegistryDescriptionDeterministic(t *testing.T) {
	db := newStudentsDB(t)
	registry, err := ForConnection(db, DefaultConfig())
	if err != nil {
		t.Fatalf("ForConnection failed: %v", err)
	}

	first := registry.Description()
	if !strings.Contains(first, "Tool: query_sql") {
		t.Errorf("description missing query_sql:\n%s", first)
	}
	if first != registry.Description() {
		t.Error("registry description is not deterministic")
	}
}

func TestSchemaToolsObservations(t *testing.T) {
	db := newStudentsDB(t)
	registry, err := ForConnection(db, DefaultConfig())
	if err != nil {
		t.Fatalf("ForConnection failed: %v", err)
	}
	ctx := context.Background()

	listTool, _ := registry.Get("list_tables")
	result, err := listTool.Execute(ctx, nil)
	if err != nil {
		t.Fatalf("list_tables failed: %v", err)
	}
	if !strings.Contains(result.Output, "students") {
		t.Errorf("list_tables output missing table:\n%s", result.Output)
	}

	descTool, _ := registry.Get("describe_table")
	args, _ := json.Marshal(map[string]string{"table": "students"})
	result, err = descTool.Execute(ctx, args)
	if err != nil {
		t.Fatalf("describe_table failed: %v", err)
	}
	if !strings.Contains(result.Output, "marks") {
		t.Errorf("describe_table output missing column:\n%s", result.Output)
	}

	args, _ = json.Marshal(map[string]string{"table": "teachers"})
	result, err = descTool.Execute(ctx, args)
	if err != nil {
		t.Fatalf("unknown table must not fault: %v", err)
	}
	if result.Success() {
		t.Error("unknown table should produce a failed observation")
	}
	if !strings.Contains(result.Err.Error(), "does not exist") {
		t.Errorf("unexpected observation: %v", result.Err)
	}
}

func TestExecutorPassesThroughSemanticFailure(t *testing.T) {
	db := newStudentsDB(t)
	executor := NewDefaultExecutor()
	tool := NewQueryTool(db, DefaultConfig())

	args, _ := json.Marshal(map[string]string{"sql": "DELETE FROM students"})
	result, err := executor.Execute(context.Background(), tool, args)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Success() {
		t.Error("unsafe statement should stay rejected through the executor")
	}
}
