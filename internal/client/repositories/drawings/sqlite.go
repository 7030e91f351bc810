package drawings

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

func (r *SQLiteRepository) Get(ctx context.Context, letterID string) (*models.Drawing, error) {
	var (
		d       models.Drawing
		kind    string
		updated string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT letter_id, kind, content, updated_at FROM drawings WHERE letter_id = ?`, letterID).
		Scan(&d.LetterID, &kind, &d.Content, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get drawing[%s]: %w", letterID, err)
	}
	d.Kind = models.DrawingKind(kind)
	if d.UpdatedAt, err = common.ParseTime(updated); err != nil {
		return nil, err
	}
	return &d, nil
}

// Upsert replaces the letter's drawing and bumps the letter's updated_at.
func (r *SQLiteRepository) Upsert(ctx context.Context, d models.Drawing) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		if err := letterExists(ctx, tx, d.LetterID); err != nil {
			return err
		}
		now := common.FormatTime(common.Now())
		_, err := tx.ExecContext(ctx, `
			INSERT INTO drawings (letter_id, kind, content, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(letter_id) DO UPDATE SET
			  kind = excluded.kind, content = excluded.content, updated_at = excluded.updated_at`,
			d.LetterID, string(d.Kind), d.Content, now, now)
		if err != nil {
			return fmt.Errorf("failed to upsert drawing[%s]: %w", d.LetterID, err)
		}
		return touchLetter(ctx, tx, d.LetterID, now)
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context, letterID string) error {
	return dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM drawings WHERE letter_id = ?`, letterID)
		if err != nil {
			return fmt.Errorf("failed to clear drawing[%s]: %w", letterID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		return touchLetter(ctx, tx, letterID, common.FormatTime(common.Now()))
	})
}

func touchLetter(ctx context.Context, tx dbx.DBTX, letterID, now string) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE local_letters SET updated_at = ? WHERE local_id = ?`, now, letterID); err != nil {
		return fmt.Errorf("failed to touch letter %s: %w", letterID, err)
	}
	return nil
}

func letterExists(ctx context.Context, tx dbx.DBTX, letterID string) error {
	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM local_letters WHERE local_id = ?`, letterID).Scan(&n); err != nil {
		return fmt.Errorf("failed to look up letter %s: %w", letterID, err)
	}
	if n == 0 {
		return fmt.Errorf("letter %s: %w", letterID, common.ErrNotFound)
	}
	return nil
}
