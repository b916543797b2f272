package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ColumnInfo describes a single column of a sample database table.
type ColumnInfo struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Nullable   bool    `json:"nullable"`
	PrimaryKey bool    `json:"primary_key"`
	Default    *string `json:"default,omitempty"`
}

// TableInfo describes a table: its columns in declaration order and its
// current row count.
type TableInfo struct {
	Name     string       `json:"name"`
	Columns  []ColumnInfo `json:"columns"`
	RowCount int          `json:"row_count"`
}

// Schema is the complete sample database schema.
type Schema struct {
	Tables []TableInfo `json:"tables"`
}

// TableNames returns all user table names in sqlite_master order.
func (s *Store) TableNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// TableExists reports whether name is a user table.
func (s *Store) TableExists(ctx context.Context, name string) (bool, error) {
	var found string
	err := s.db.QueryRowContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name = ?`, name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup table %q: %w", name, err)
	}
	return true, nil
}

// Table returns the TableInfo for name, or *UnknownTableError when the
// table doesn't exist.
func (s *Store) Table(ctx context.Context, name string) (*TableInfo, error) {
	exists, err := s.TableExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &UnknownTableError{Table: name}
	}
	return s.tableInfo(ctx, name)
}

// SchemaInfo returns the full schema of the sample database.
func (s *Store) SchemaInfo(ctx context.Context) (*Schema, error) {
	names, err := s.TableNames(ctx)
	if err != nil {
		return nil, err
	}

	schema := &Schema{Tables: make([]TableInfo, 0, len(names))}
	for _, name := range names {
		info, err := s.tableInfo(ctx, name)
		if err != nil {
			return nil, err
		}
		schema.Tables = append(schema.Tables, *info)
	}
	return schema, nil
}

// SchemaText renders the schema as plain text suitable for an LLM prompt.
func (s *Store) SchemaText(ctx context.Context) (string, error) {
	schema, err := s.SchemaInfo(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, table := range schema.Tables {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Table: %s (%d rows)\n", table.Name, table.RowCount)
		for _, col := range table.Columns {
			nullable := "not null"
			if col.Nullable {
				nullable = "nullable"
			}
			pk := ""
			if col.PrimaryKey {
				pk = ", primary key"
			}
			fmt.Fprintf(&b, "  - %s: %s (%s%s)\n", col.Name, col.Type, nullable, pk)
		}
	}
	return b.String(), nil
}

// Sample returns up to limit rows from the named table, bypassing the
// generated-SQL validator since the statement is built locally.
func (s *Store) Sample(ctx context.Context, table string, limit int) (*Result, error) {
	exists, err := s.TableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &UnknownTableError{Table: table}
	}
	if limit <= 0 {
		limit = 5
	}
	return s.Execute(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoteIdent(table), limit))
}

func (s *Store) tableInfo(ctx context.Context, name string) (*TableInfo, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(name)))
	if err != nil {
		return nil, fmt.Errorf("table info for %q: %w", name, err)
	}
	defer rows.Close()

	info := &TableInfo{Name: name}
	for rows.Next() {
		var (
			cid        int
			colName    string
			colType    string
			notNull    int
			defaultVal *string
			pk         int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("scan column info: %w", err)
		}
		info.Columns = append(info.Columns, ColumnInfo{
			Name:       colName,
			Type:       colType,
			Nullable:   notNull == 0,
			PrimaryKey: pk > 0,
			Default:    defaultVal,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(name))).Scan(&info.RowCount)
	if err != nil {
		return nil, fmt.Errorf("count rows for %q: %w", name, err)
	}

	return info, nil
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
