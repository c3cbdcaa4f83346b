// Package mssql stores panels in SQL Server.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"panelprep/internal/storage"
)

func init() {
	storage.Register("mssql", New)
}

// SQL Server caps a statement at 2100 parameters; stay under it.
const maxParams = 2000

// Repo writes panel rows into SQL Server.
type Repo struct {
	db *sql.DB
}

// New opens the database at dsn and verifies the connection.
func New(ctx context.Context, dsn string) (storage.Repository, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("mssql open: %w", err)
	}
	db.SetMaxOpenConns(64)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mssql ping: %w", err)
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Close() { r.db.Close() }

func (r *Repo) EnsureTable(ctx context.Context, spec storage.TableSpec) error {
	if _, err := r.db.ExecContext(ctx, buildCreateSQL(spec)); err != nil {
		return fmt.Errorf("mssql create table %s: %w", spec.Name, err)
	}
	return nil
}

// InsertRows inserts rows in chunks sized to the parameter cap. Rows whose
// keys already exist are filtered out by an anti-join on the VALUES set.
func (r *Repo) InsertRows(ctx context.Context, spec storage.TableSpec, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	chunk := maxParams / len(spec.Columns)
	if chunk < 1 {
		chunk = 1
	}
	var inserted int64
	for start := 0; start < len(rows); start += chunk {
		end := start + chunk
		if end > len(rows) {
			end = len(rows)
		}
		part := rows[start:end]
		args := make([]any, 0, len(part)*len(spec.Columns))
		for _, row := range part {
			args = append(args, row...)
		}
		res, err := r.db.ExecContext(ctx, buildInsertNotExistsSQL(spec, len(part)), args...)
		if err != nil {
			return inserted, fmt.Errorf("mssql insert into %s: %w", spec.Name, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		}
	}
	return inserted, nil
}

func sqlType(t string) string {
	if t == storage.TypeText {
		return "NVARCHAR(255)"
	}
	return "FLOAT"
}

func buildCreateSQL(spec storage.TableSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (", spec.Name, spec.Name)
	for i, c := range spec.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", c.Name, sqlType(c.Type))
	}
	if len(spec.KeyColumns) > 0 {
		fmt.Fprintf(&b, ", CONSTRAINT uq_%s UNIQUE (%s)", spec.Name, strings.Join(spec.KeyColumns, ", "))
	}
	b.WriteString(")")
	return b.String()
}

// buildInsertNotExistsSQL builds a multi-row insert that skips rows whose
// key columns already exist in the destination.
func buildInsertNotExistsSQL(spec storage.TableSpec, numRows int) string {
	names := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		names[i] = c.Name
	}
	cols := strings.Join(names, ", ")

	var values strings.Builder
	p := 1
	for r := 0; r < numRows; r++ {
		if r > 0 {
			values.WriteString(", ")
		}
		values.WriteString("(")
		for c := range spec.Columns {
			if c > 0 {
				values.WriteString(", ")
			}
			fmt.Fprintf(&values, "@p%d", p)
			p++
		}
		values.WriteString(")")
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM (VALUES %s) AS v(%s)",
		spec.Name, cols, cols, values.String(), cols)
	if len(spec.KeyColumns) > 0 {
		conds := make([]string, len(spec.KeyColumns))
		for i, k := range spec.KeyColumns {
			conds[i] = fmt.Sprintf("t.%s = v.%s", k, k)
		}
		sql += fmt.Sprintf(" WHERE NOT EXISTS (SELECT 1 FROM %s AS t WHERE %s)",
			spec.Name, strings.Join(conds, " AND "))
	}
	return sql
}
