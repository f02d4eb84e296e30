// Package main provides the sqltalk CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sqltalk/sqltalk/cli"
	"github.com/sqltalk/sqltalk/db"
)

var (
	// Global flags
	provider string
	backend  string
	maxSteps int
	verbose  bool

	dbPath     string
	dbHost     string
	dbPort     int
	dbUser     string
	dbPassword string
	dbName     string
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "sqltalk",
		Short: "Ask questions about a SQL database in plain language",
		Long: `sqltalk answers natural-language questions about a relational database.

An LLM plans read-only SQL against the introspected schema, runs it,
and turns the results into an answer. Write statements never reach the
database.

Supported backends: sqlite (default), postgres, mysql.`,
	}

	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "LLM provider (groq, openai, anthropic, deepseek, gemini)")
	rootCmd.PersistentFlags().StringVarP(&backend, "backend", "b", "sqlite", "Database backend (sqlite, postgres, mysql)")
	rootCmd.PersistentFlags().IntVarP(&maxSteps, "max-steps", "m", 0, "Maximum reasoning steps per question (0 = configured default)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show reasoning steps and token usage")

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database file path")
	rootCmd.PersistentFlags().StringVar(&dbHost, "host", "", "Database host (postgres/mysql)")
	rootCmd.PersistentFlags().IntVar(&dbPort, "port", 0, "Database port (postgres/mysql)")
	rootCmd.PersistentFlags().StringVar(&dbUser, "user", "", "Database user (postgres/mysql)")
	rootCmd.PersistentFlags().StringVar(&dbPassword, "password", "", "Database password (postgres/mysql)")
	rootCmd.PersistentFlags().StringVar(&dbName, "dbname", "", "Database name (postgres/mysql)")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(tablesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options assembles CLI options from the global flags.
func options() cli.Options {
	return cli.Options{
		Provider: provider,
		Backend:  backend,
		DB: db.Options{
			Path:     dbPath,
			Host:     dbHost,
			Port:     dbPort,
			User:     dbUser,
			Password: dbPassword,
			Database: dbName,
		},
		MaxSteps: maxSteps,
		Verbose:  verbose,
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a single question and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Ask(signalContext(), args[0], options())
		},
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive question session",
		Long: `Start an interactive session against one database connection.

Earlier questions and answers in the session are carried as context, so
follow-ups like "and only the top five?" work.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Chat(signalContext(), options())
		},
	}
}

func tablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Print the introspected schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Tables(signalContext(), options())
		},
	}
}
