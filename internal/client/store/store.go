package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/magicletters/internal/client/migrations"
	"github.com/dmitrijs2005/magicletters/internal/common"
	"github.com/dmitrijs2005/magicletters/internal/filex"
	"github.com/dmitrijs2005/magicletters/internal/logging"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Store owns the database handle shared by all repositories.
type Store struct {
	db     *sql.DB
	log    logging.Logger
	strict bool
}

type Option func(*Store)

// WithLogger sets the logger used for migration and repair reports.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithStrictIntegrity makes Migrate fail with common.ErrForeignKeyViolation
// instead of deleting orphaned rows.
func WithStrictIntegrity(strict bool) Option {
	return func(s *Store) { s.strict = strict }
}

// OpenDir opens (creating if needed) the database file name inside dir.
func OpenDir(ctx context.Context, dir, name string, opts ...Option) (*Store, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return Open(ctx, filepath.Join(abs, name), opts...)
}

// Open opens the database at dsn and migrates it. dsn is a file path, a
// "file:" URI or ":memory:".
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, log: logging.Nop()}
	for _, o := range opts {
		o(s)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func withPragmas(dsn string) string {
	const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if dsn == ":memory:" {
		return "file::memory:?" + pragmas
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + pragmas
	}
	return dsn + "?" + pragmas
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// Version reports the schema version recorded by the migration engine.
func (s *Store) Version(ctx context.Context) (int64, error) {
	p, err := migrations.NewProvider(s.db)
	if err != nil {
		return 0, fmt.Errorf("migration provider: %w", err)
	}
	return p.GetDBVersion(ctx)
}

// Migrate brings the schema to migrations.Latest, repairs dangling
// references and seeds the administrator.
func (s *Store) Migrate(ctx context.Context) (err error) {
	if _, err := s.db.ExecContext(ctx, `PRAGMA foreign_keys = OFF`); err != nil {
		return fmt.Errorf("disable foreign keys: %w", err)
	}
	defer func() {
		_, ferr := s.db.ExecContext(context.WithoutCancel(ctx), `PRAGMA foreign_keys = ON`)
		if ferr != nil {
			err = errors.Join(err, fmt.Errorf("enable foreign keys: %w", ferr))
		}
	}()

	p, err := migrations.NewProvider(s.db)
	if err != nil {
		return fmt.Errorf("migration provider: %w", err)
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	for _, r := range results {
		s.log.Info(ctx, "migration applied",
			"version", r.Source.Version, "type", string(r.Source.Type), "duration", r.Duration)
	}

	if err := s.repairForeignKeys(ctx); err != nil {
		return err
	}
	return s.seedAdmin(ctx)
}

// Violation is one row reported by PRAGMA foreign_key_check.
type Violation struct {
	Table  string
	RowID  int64
	Parent string
}

// ForeignKeyViolations lists rows whose references point at missing parents.
func (s *Store) ForeignKeyViolations(ctx context.Context) ([]Violation, error) {
	rows, err := s.db.QueryContext(ctx, `PRAGMA foreign_key_check`)
	if err != nil {
		return nil, fmt.Errorf("foreign_key_check: %w", err)
	}
	defer rows.Close()

	var out []Violation
	for rows.Next() {
		var (
			v     Violation
			rowID sql.NullInt64
			fkid  int
		)
		if err := rows.Scan(&v.Table, &rowID, &v.Parent, &fkid); err != nil {
			return nil, fmt.Errorf("scan foreign_key_check: %w", err)
		}
		v.RowID = rowID.Int64
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) repairForeignKeys(ctx context.Context) error {
	violations, err := s.ForeignKeyViolations(ctx)
	if err != nil {
		return err
	}
	if len(violations) == 0 {
		return nil
	}
	if s.strict {
		return fmt.Errorf("%w: %d dangling rows, first in %s referencing %s",
			common.ErrForeignKeyViolation, len(violations), violations[0].Table, violations[0].Parent)
	}

	for _, v := range violations {
		q := fmt.Sprintf(`DELETE FROM %q WHERE rowid = ?`, v.Table)
		if _, err := s.db.ExecContext(ctx, q, v.RowID); err != nil {
			return fmt.Errorf("delete orphan %s/%d: %w", v.Table, v.RowID, err)
		}
		s.log.Warn(ctx, "removed orphaned row", "table", v.Table, "rowid", v.RowID, "parent", v.Parent)
	}

	left, err := s.ForeignKeyViolations(ctx)
	if err != nil {
		return err
	}
	if len(left) > 0 {
		return fmt.Errorf("%w: %d rows remain after repair", common.ErrForeignKeyViolation, len(left))
	}
	return nil
}

func (s *Store) seedAdmin(ctx context.Context) error {
	now := common.FormatTime(common.Now())
	_, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO users (id, role, name, email, phone, is_protected, created_at, updated_at)
VALUES (?, 'ADMIN', ?, ?, ?, 1, ?, ?)`,
		common.AdminID, common.AdminName, common.AdminEmail, common.AdminPhone, now, now)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
