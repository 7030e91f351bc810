package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/magicletters/internal/common"
	"github.com/dmitrijs2005/magicletters/internal/dbx"
)

// SQLiteRepository keeps timestamps as text rows of the metadata table.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetTime(ctx context.Context, key Key) (time.Time, error) {
	query, args, err := sq.Select("value").From("metadata").Where(sq.Eq{"key": string(key)}).ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to build metadata query: %w", err)
	}

	var raw string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read %s: %w", key, err)
	}

	t, err := common.ParseTime(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return t, nil
}

func (r *SQLiteRepository) SetTime(ctx context.Context, key Key, t time.Time) error {
	query, args, err := sq.Insert("metadata").
		Columns("key", "value").
		Values(string(key), common.FormatTime(t)).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build metadata upsert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
