// Package sqlite stores panels in SQLite via the modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"panelprep/internal/storage"
)

func init() {
	storage.Register("sqlite", New)
}

// Repo writes panel rows into a SQLite database file.
type Repo struct {
	db *sql.DB
}

// New opens the database at dsn and verifies the connection.
func New(ctx context.Context, dsn string) (storage.Repository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Close() { r.db.Close() }

func (r *Repo) EnsureTable(ctx context.Context, spec storage.TableSpec) error {
	if _, err := r.db.ExecContext(ctx, buildCreateSQL(spec)); err != nil {
		return fmt.Errorf("sqlite create table %s: %w", spec.Name, err)
	}
	return nil
}

// InsertRows inserts rows inside one transaction; key collisions are
// skipped via INSERT OR IGNORE.
func (r *Repo) InsertRows(ctx context.Context, spec storage.TableSpec, rows [][]any) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, buildInsertSQL(spec))
	if err != nil {
		return 0, fmt.Errorf("sqlite prepare insert into %s: %w", spec.Name, err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		res, err := stmt.ExecContext(ctx, row...)
		if err != nil {
			return 0, fmt.Errorf("sqlite insert into %s: %w", spec.Name, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite commit: %w", err)
	}
	return inserted, nil
}

func sqlType(t string) string {
	if t == storage.TypeText {
		return "TEXT"
	}
	return "REAL"
}

func buildCreateSQL(spec storage.TableSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (", spec.Name)
	for i, c := range spec.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", c.Name, sqlType(c.Type))
	}
	if len(spec.KeyColumns) > 0 {
		fmt.Fprintf(&b, ", UNIQUE (%s)", strings.Join(spec.KeyColumns, ", "))
	}
	b.WriteString(")")
	return b.String()
}

func buildInsertSQL(spec storage.TableSpec) string {
	names := make([]string, len(spec.Columns))
	placeholders := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		names[i] = c.Name
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (%s)",
		spec.Name, strings.Join(names, ", "), strings.Join(placeholders, ", "))
}
