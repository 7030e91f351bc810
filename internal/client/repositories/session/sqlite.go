package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/magicletters/internal/client/models"
	"github.com/dmitrijs2005/magicletters/internal/common"
	"github.com/dmitrijs2005/magicletters/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context) (*models.Session, error) {
	var (
		s  models.Session
		at string
	)
	err := r.db.QueryRowContext(ctx, `SELECT user_id, logged_in_at FROM session WHERE id = 1`).Scan(&s.UserID, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if s.LoggedInAt, err = common.ParseTime(at); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session (id, user_id, logged_in_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, logged_in_at = excluded.logged_in_at`,
		userID, common.FormatTime(common.Now()))
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
