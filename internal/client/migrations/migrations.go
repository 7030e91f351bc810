// Package migrations holds the versioned schema history of the local store.
//
// Versions 1 and 8 are plain SQL files embedded in Migrations. The versions in
// between are Go migrations because they inspect what an older app release
// left behind (column sets, legacy tables) before reshaping it. Every Go
// migration runs in its own transaction; the caller is expected to have
// foreign-key enforcement switched off while they run.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var Migrations embed.FS

// Latest is the schema version a fully migrated store reports.
const Latest int64 = 8

// NewProvider returns a goose provider over db with every migration
// registered.
func NewProvider(db *sql.DB) (*goose.Provider, error) {
	return goose.NewProvider(goose.DialectSQLite3, db, Migrations,
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(goMigrations()...),
	)
}

func goMigrations() []*goose.Migration {
	return []*goose.Migration{
		goose.NewGoMigration(2, &goose.GoFunc{RunTx: addLetterColumns}, nil),
		goose.NewGoMigration(3, &goose.GoFunc{RunTx: foldLegacyLetters}, nil),
		goose.NewGoMigration(4, &goose.GoFunc{RunTx: rebuildPhotos}, nil),
		goose.NewGoMigration(5, &goose.GoFunc{RunTx: rebuildDrawings}, nil),
		goose.NewGoMigration(6, &goose.GoFunc{RunTx: foldLegacyMessages}, nil),
		goose.NewGoMigration(7, &goose.GoFunc{RunTx: uniqueServerOwner}, nil),
	}
}

// nowExpr renders the current time in the stored timestamp layout.
const nowExpr = `strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`

func tableExists(ctx context.Context, tx *sql.Tx, name string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("lookup table %s: %w", name, err)
	}
	return n > 0, nil
}

// columnSet returns the column names of table.
func columnSet(ctx context.Context, tx *sql.Tx, table string) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, table))
	if err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table_info %s: %w", table, err)
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}

// pick returns the first of names present in cols, or fallback (an SQL
// expression) when none is.
func pick(cols map[string]bool, fallback string, names ...string) string {
	for _, n := range names {
		if cols[n] {
			return n
		}
	}
	return fallback
}

func execAll(ctx context.Context, tx *sql.Tx, stmts ...string) error {
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("exec %.60q: %w", s, err)
		}
	}
	return nil
}
