// Package postgres stores panels in PostgreSQL via pgx.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"panelprep/internal/storage"
)

func init() {
	storage.Register("postgres", New)
}

// Repo writes panel rows through a pgx connection pool.
type Repo struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and verifies the connection.
func New(ctx context.Context, dsn string) (storage.Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Repo{pool: pool}, nil
}

func (r *Repo) Close() { r.pool.Close() }

// EnsureTable creates the destination table with a uniqueness constraint on
// the key columns.
func (r *Repo) EnsureTable(ctx context.Context, spec storage.TableSpec) error {
	if _, err := r.pool.Exec(ctx, buildCreateSQL(spec)); err != nil {
		return fmt.Errorf("postgres create table %s: %w", spec.Name, err)
	}
	return nil
}

// InsertRows inserts rows one statement at a time; key collisions are
// skipped via ON CONFLICT DO NOTHING.
func (r *Repo) InsertRows(ctx context.Context, spec storage.TableSpec, rows [][]any) (int64, error) {
	sql := buildInsertSQL(spec)
	var inserted int64
	for _, row := range rows {
		tag, err := r.pool.Exec(ctx, sql, row...)
		if err != nil {
			return inserted, fmt.Errorf("postgres insert into %s: %w", spec.Name, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

func sqlType(t string) string {
	if t == storage.TypeText {
		return "TEXT"
	}
	return "DOUBLE PRECISION"
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
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		spec.Name, strings.Join(names, ", "), strings.Join(placeholders, ", "))
	if len(spec.KeyColumns) > 0 {
		sql += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", strings.Join(spec.KeyColumns, ", "))
	}
	return sql
}
