// Package storage persists reconciled panels into SQL databases. Backends
// register themselves by kind; callers pick one through Config.
package storage

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"panelprep/internal/table"
)

// Column types understood by every backend. Each backend maps them to its
// own SQL type.
const (
	TypeText  = "text"
	TypeFloat = "float"
)

// ColumnSpec describes one destination column.
type ColumnSpec struct {
	Name string
	Type string
}

// TableSpec describes the destination table. KeyColumns form the uniqueness
// constraint; rows that collide on them are skipped, not updated.
type TableSpec struct {
	Name       string
	Columns    []ColumnSpec
	KeyColumns []string
}

// Repository is a destination for panel rows.
type Repository interface {
	// EnsureTable creates the destination table if it does not exist.
	EnsureTable(ctx context.Context, spec TableSpec) error
	// InsertRows inserts rows, skipping key collisions. Returns the number
	// of rows actually written.
	InsertRows(ctx context.Context, spec TableSpec, rows [][]any) (int64, error)
	Close()
}

// Config selects a backend and its connection string.
type Config struct {
	Kind string
	DSN  string
}

// Factory builds a Repository from a DSN.
type Factory func(ctx context.Context, dsn string) (Repository, error)

var factories = map[string]Factory{}

// Register makes a backend available under kind. It is meant to be called
// from backend init functions.
func Register(kind string, f Factory) {
	if kind == "" {
		panic("storage: empty kind")
	}
	if f == nil {
		panic("storage: nil factory for kind " + kind)
	}
	if _, dup := factories[kind]; dup {
		panic("storage: duplicate factory for kind " + kind)
	}
	factories[kind] = f
}

// New builds the repository selected by cfg.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: no backend kind configured")
	}
	f, ok := factories[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("storage: unsupported backend %q", cfg.Kind)
	}
	return f(ctx, cfg.DSN)
}

// Kinds returns the registered backend kinds.
func Kinds() []string {
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	return out
}

// SpecFor derives a TableSpec from a finished panel. The date column and an
// optional geo column become text keys; every other column is stored as a
// float. Column names are normalized into safe SQL identifiers.
func SpecFor(name string, t *table.Table, dateColumn, geoColumn string) TableSpec {
	spec := TableSpec{Name: name}
	for _, col := range t.Columns() {
		cs := ColumnSpec{Name: ColumnName(col), Type: TypeFloat}
		if col == dateColumn || col == geoColumn {
			cs.Type = TypeText
			spec.KeyColumns = append(spec.KeyColumns, cs.Name)
		}
		spec.Columns = append(spec.Columns, cs)
	}
	return spec
}

// RowsFor converts panel rows to driver values in column order. Missing
// cells become NULL.
func RowsFor(t *table.Table) [][]any {
	rows := make([][]any, 0, t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		row := t.Row(r)
		vals := make([]any, len(row))
		for c, v := range row {
			switch {
			case v.IsMissing():
				vals[c] = nil
			default:
				if f, ok := v.Float(); ok {
					vals[c] = f
					continue
				}
				vals[c] = v.String()
			}
		}
		rows = append(rows, vals)
	}
	return rows
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ColumnName normalizes a panel column name into a portable SQL identifier:
// accents stripped, lowercased, runs of anything outside [a-z0-9] collapsed
// to a single underscore.
func ColumnName(name string) string {
	if flat, _, err := transform.String(stripAccents, name); err == nil {
		name = flat
	}
	name = strings.ToLower(name)
	var b strings.Builder
	lastUnderscore := true
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "col"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "c_" + out
	}
	return out
}
