// Package schema introspects a live database connection into a textual
// summary the agent can ground its reasoning on.
//
// Information Hiding:
// - Dialect-specific catalog queries hidden behind one interface
// - Ordering guarantees internalized (catalog queries ORDER BY name)
package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrTableNotFound is returned by DescribeTable for unknown table names.
var ErrTableNotFound = errors.New("table not found")

// Column describes a single column of a table.
type Column struct {
	Name     string
	Type     string
	Nullable bool
}

// TableDescriptor describes one table: its name and ordered columns.
type TableDescriptor struct {
	Name    string
	Columns []Column
}

// Summary is the full schema snapshot for a connection. Immutable once
// built; rebuild only when the connection target changes.
type Summary struct {
	Tables []TableDescriptor
}

// TableNames returns the table names in summary order.
func (s Summary) TableNames() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}

// Render formats the summary as prompt text. Output is deterministic:
// tables in catalog order, columns in ordinal order.
func (s Summary) Render() string {
	if len(s.Tables) == 0 {
		return "(no tables visible on this connection)"
	}

	var b strings.Builder
	for _, table := range s.Tables {
		fmt.Fprintf(&b, "TABLE %s (\n", table.Name)
		for _, col := range table.Columns {
			null := "NOT NULL"
			if col.Nullable {
				null = "NULL"
			}
			fmt.Fprintf(&b, "  %s %s %s\n", col.Name, col.Type, null)
		}
		b.WriteString(")\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Introspector reads table and column metadata from a connection.
// It never mutates data; every query it issues is a catalog read.
type Introspector struct {
	db *sqlx.DB
}

// NewIntrospector creates an introspector for the given connection.
// The dialect is taken from the connection's driver name.
func NewIntrospector(db *sqlx.DB) *Introspector {
	return &Introspector{db: db}
}

// ListTables returns the base table names visible on the connection,
// sorted by name so repeated calls within a turn are stable.
func (i *Introspector) ListTables(ctx context.Context) ([]string, error) {
	query, err := i.listTablesQuery()
	if err != nil {
		return nil, err
	}

	var names []string
	if err := i.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return names, nil
}

// DescribeTable returns the descriptor for a single table.
// Returns ErrTableNotFound (wrapped) if the name is unknown.
func (i *Introspector) DescribeTable(ctx context.Context, name string) (TableDescriptor, error) {
	columns, err := i.describeColumns(ctx, name)
	if err != nil {
		return TableDescriptor{}, err
	}
	if len(columns) == 0 {
		return TableDescriptor{}, fmt.Errorf("describe %q: %w", name, ErrTableNotFound)
	}
	return TableDescriptor{Name: name, Columns: columns}, nil
}

// Introspect builds the full schema summary for the connection.
func (i *Introspector) Introspect(ctx context.Context) (Summary, error) {
	names, err := i.ListTables(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Tables: make([]TableDescriptor, 0, len(names))}
	for _, name := range names {
		desc, err := i.DescribeTable(ctx, name)
		if err != nil {
			return Summary{}, err
		}
		summary.Tables = append(summary.Tables, desc)
	}
	return summary, nil
}

func (i *Introspector) listTablesQuery() (string, error) {
	switch i.db.DriverName() {
	case "sqlite3":
		return `SELECT name FROM sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
			ORDER BY name`, nil
	case "postgres":
		return `SELECT table_name FROM information_schema.tables
			WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
			ORDER BY table_name`, nil
	case "mysql":
		return `SELECT table_name FROM information_schema.tables
			WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
			ORDER BY table_name`, nil
	default:
		return "", fmt.Errorf("unsupported dialect: %q", i.db.DriverName())
	}
}

func (i *Introspector) describeColumns(ctx context.Context, table string) ([]Column, error) {
	switch i.db.DriverName() {
	case "sqlite3":
		return i.describeSqlite(ctx, table)
	case "postgres", "mysql":
		return i.describeInformationSchema(ctx, table)
	default:
		return nil, fmt.Errorf("unsupported dialect: %q", i.db.DriverName())
	}
}

// describeSqlite reads PRAGMA table_info. PRAGMA arguments cannot be
// bound, so the table name is validated as an identifier first.
func (i *Introspector) describeSqlite(ctx context.Context, table string) ([]Column, error) {
	if !validIdentifier(table) {
		return nil, fmt.Errorf("describe %q: %w", table, ErrTableNotFound)
	}

	rows, err := i.db.QueryxContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("describe %q: %w", table, err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var info struct {
			Cid        int     `db:"cid"`
			Name       string  `db:"name"`
			Type       string  `db:"type"`
			NotNull    int     `db:"notnull"`
			DfltValue  *string `db:"dflt_value"`
			PrimaryKey int     `db:"pk"`
		}
		if err := rows.StructScan(&info); err != nil {
			return nil, fmt.Errorf("describe %q: %w", table, err)
		}
		columns = append(columns, Column{
			Name:     info.Name,
			Type:     info.Type,
			Nullable: info.NotNull == 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("describe %q: %w", table, err)
	}
	return columns, nil
}

func (i *Introspector) describeInformationSchema(ctx context.Context, table string) ([]Column, error) {
	query := `SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_name = ?`
	if i.db.DriverName() == "postgres" {
		query += ` AND table_schema = 'public'`
	} else {
		query += ` AND table_schema = DATABASE()`
	}
	query += ` ORDER BY ordinal_position`

	rows, err := i.db.QueryContext(ctx, i.db.Rebind(query), table)
	if err != nil {
		return nil, fmt.Errorf("describe %q: %w", table, err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var name, typ, nullable string
		if err := rows.Scan(&name, &typ, &nullable); err != nil {
			return nil, fmt.Errorf("describe %q: %w", table, err)
		}
		columns = append(columns, Column{
			Name:     name,
			Type:     typ,
			Nullable: strings.EqualFold(nullable, "YES"),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("describe %q: %w", table, err)
	}
	return columns, nil
}

// validIdentifier accepts plain SQL identifiers: letters, digits and
// underscores, not starting with a digit.
func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
