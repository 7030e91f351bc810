package messages

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

func (r *SQLiteRepository) Get(ctx context.Context, letterID string) (*models.Message, error) {
	var text, updated string
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(message_content, ''), updated_at FROM local_letters WHERE local_id = ?`, letterID).
		Scan(&text, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message[%s]: %w", letterID, err)
	}
	if text == "" {
		return nil, nil
	}

	m := &models.Message{LetterID: letterID, Text: text}
	if m.UpdatedAt, err = common.ParseTime(updated); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, letterID, text string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE local_letters SET message_content = ?, updated_at = ? WHERE local_id = ?`,
		text, common.FormatTime(common.Now()), letterID)
	if err != nil {
		return fmt.Errorf("failed to upsert message[%s]: %w", letterID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("letter %s: %w", letterID, common.ErrNotFound)
	}
	return nil
}
