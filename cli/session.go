// Session setup: provider, connection and agent wiring shared by all
// CLI commands.

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sqltalk/sqltalk/agent"
	"github.com/sqltalk/sqltalk/config"
	"github.com/sqltalk/sqltalk/db"
	"github.com/sqltalk/sqltalk/llm"
	"github.com/sqltalk/sqltalk/schema"
	"github.com/sqltalk/sqltalk/tools"
)

// Options holds CLI execution options.
type Options struct {
	Provider string
	Backend  string
	DB       db.Options
	MaxSteps int
	Verbose  bool
}

// session bundles everything a command needs to run turns.
type session struct {
	agent   *agent.Agent
	conn    *sqlx.DB
	summary schema.Summary
	model   string
}

// Close releases the session's database connection.
func (s *session) Close() {
	s.conn.Close()
}

// connectTimeout bounds initial connection and introspection.
const connectTimeout = 15 * time.Second

// schemaCache avoids re-introspecting a target when a process opens
// several sessions against the same database.
var schemaCache = schema.NewCache()

// newSession wires provider, connection, schema and agent from options.
func newSession(ctx context.Context, opts Options) (*session, error) {
	provider, err := createProvider(opts.Provider)
	if err != nil {
		return nil, err
	}

	backend, err := db.ParseBackend(opts.Backend)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	conn, err := db.Connect(connectCtx, backend, opts.DB)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%s|%s|%s:%d/%s", backend, opts.DB.Path, opts.DB.Host, opts.DB.Port, opts.DB.Database)
	summary, cached := schemaCache.Get(cacheKey)
	if !cached {
		summary, err = schema.NewIntrospector(conn).Introspect(connectCtx)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("introspect schema: %w", err)
		}
		schemaCache.Put(cacheKey, summary)
	}

	settings, err := config.New(opts.Provider)
	if err != nil {
		conn.Close()
		return nil, err
	}

	agentConfig := agent.Config{
		MaxSteps:    settings.Agent.MaxSteps,
		TurnTimeout: settings.Agent.TurnTimeout,
		Tools: tools.Config{
			MaxRows:        settings.SQL.MaxRows,
			MaxOutputBytes: settings.SQL.MaxOutputBytes,
			QueryTimeout:   settings.SQL.QueryTimeout,
		},
		Verbose: opts.Verbose,
	}
	if opts.MaxSteps > 0 {
		agentConfig.MaxSteps = opts.MaxSteps
	}

	a, err := agent.New(agentConfig, provider, conn, summary)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &session{
		agent:   a,
		conn:    conn,
		summary: summary,
		model:   fmt.Sprintf("%s/%s", provider.Name(), provider.Model()),
	}, nil
}

// createProvider builds an LLM provider from its configured settings.
func createProvider(providerName string) (llm.Provider, error) {
	if providerName == "" {
		providerName = config.DefaultProvider
	}

	providerType, err := llm.ParseProviderType(providerName)
	if err != nil {
		return nil, err
	}

	settings, err := config.New(providerName)
	if err != nil {
		return nil, err
	}

	apiKey, err := config.APIKeyFor(providerName)
	if err != nil {
		return nil, err
	}

	return providerType.
		Model(settings.LLM.Model).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(float32(settings.LLM.Temperature)).
		APIKey(apiKey)
}
