package photos

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/magicletters/internal/client/models"
	"github.com/dmitrijs2005/magicletters/internal/common"
	"github.com/dmitrijs2005/magicletters/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) List(ctx context.Context, letterID string) ([]models.Photo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, letter_id, slot, photo_uri, created_at, updated_at
		  FROM photos WHERE letter_id = ? ORDER BY slot`, letterID)
	if err != nil {
		return nil, fmt.Errorf("failed to select photos: %w", err)
	}
	defer rows.Close()

	var result []models.Photo
	for rows.Next() {
		var (
			p                models.Photo
			created, updated string
		)
		if err := rows.Scan(&p.ID, &p.LetterID, &p.Slot, &p.Path, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		if p.CreatedAt, err = common.ParseTime(created); err != nil {
			return nil, err
		}
		if p.UpdatedAt, err = common.ParseTime(updated); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate photos: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Add(ctx context.Context, letterID, path string) (int, error) {
	if strings.TrimSpace(path) == "" {
		return 0, fmt.Errorf("%w: photo path is required", common.ErrValidation)
	}

	var slot int
	err := dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		if err := letterExists(ctx, tx, letterID); err != nil {
			return err
		}
		var err error
		if slot, err = freeSlot(ctx, tx, letterID); err != nil {
			return err
		}

		now := common.FormatTime(common.Now())
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO photos (letter_id, slot, photo_uri, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`, letterID, slot, path, now, now); err != nil {
			return fmt.Errorf("failed to insert photo: %w", err)
		}
		return touchLetter(ctx, tx, letterID, now)
	})
	if err != nil {
		return 0, err
	}
	return slot, nil
}

// freeSlot returns the lowest slot not used by letterID.
func freeSlot(ctx context.Context, tx dbx.DBTX, letterID string) (int, error) {
	rows, err := tx.QueryContext(ctx, `SELECT slot FROM photos WHERE letter_id = ?`, letterID)
	if err != nil {
		return 0, fmt.Errorf("failed to select photo slots: %w", err)
	}
	defer rows.Close()

	used := make(map[int]bool, common.MaxPhotos)
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			return 0, fmt.Errorf("failed to scan photo slot: %w", err)
		}
		used[s] = true
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for s := 1; s <= common.MaxPhotos; s++ {
		if !used[s] {
			return s, nil
		}
	}
	return 0, common.ErrPhotoSlotsFull
}

func (r *SQLiteRepository) Delete(ctx context.Context, letterID string, slot int) error {
	if slot < 1 || slot > common.MaxPhotos {
		return fmt.Errorf("%w: %d", common.ErrInvalidSlot, slot)
	}
	return dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM photos WHERE letter_id = ? AND slot = ?`, letterID, slot)
		if err != nil {
			return fmt.Errorf("failed to delete photo: %w", err)
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
