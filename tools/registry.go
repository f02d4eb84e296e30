// Tool registration and lookup.

package tools

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/sqltalk/sqltalk/schema"
)

// Registry manages the tools available to an agent.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a new tool to the registry.
// Returns an error if a tool with the same name already exists.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Metadata().Name
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.tools[name] = tool
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// Names returns all registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Description returns a formatted description of all tools for the
// prompt. Tools are listed in name order so the prompt is
// deterministic.
func (r *Registry) Description() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	var descriptions []string
	for _, name := range names {
		meta := r.tools[name].Metadata()
		var params []string
		for _, p := range meta.Parameters {
			required := "optional"
			if p.Required {
				required = "required"
			}
			params = append(params, fmt.Sprintf("  - %s (%s): %s [%s]",
				p.Name, p.ParamType, p.Description, required))
		}

		entry := fmt.Sprintf("Tool: %s\nDescription: %s", meta.Name, meta.Description)
		if len(params) > 0 {
			entry += "\nParameters:\n" + strings.Join(params, "\n")
		}
		descriptions = append(descriptions, entry)
	}

	return strings.Join(descriptions, "\n\n")
}

// ForConnection builds the standard SQL agent registry for a
// connection: query_sql plus the two introspection tools.
func ForConnection(db *sqlx.DB, config Config) (*Registry, error) {
	intro := schema.NewIntrospector(db)

	registry := NewRegistry()
	all := []Tool{
		NewQueryTool(db, config),
		NewListTablesTool(intro),
		NewDescribeTableTool(intro),
	}
	for _, t := range all {
		if err := registry.Register(t); err != nil {
			return nil, fmt.Errorf("failed to register default tools: %w", err)
		}
	}
	return registry, nil
}
