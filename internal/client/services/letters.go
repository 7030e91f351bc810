package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/magicletters/internal/client/models"
	"github.com/dmitrijs2005/magicletters/internal/client/repositories/drawings"
	"github.com/dmitrijs2005/magicletters/internal/client/repositories/letters"
	"github.com/dmitrijs2005/magicletters/internal/client/repositories/messages"
	"github.com/dmitrijs2005/magicletters/internal/client/repositories/photos"
	"github.com/dmitrijs2005/magicletters/internal/common"
	"github.com/dmitrijs2005/magicletters/internal/dbx"
	"github.com/dmitrijs2005/magicletters/internal/filex"
)

// LetterDetail is a letter together with its child rows.
type LetterDetail struct {
	Letter  models.Letter
	Photos  []models.Photo
	Drawing *models.Drawing
}

// LetterService is what the technician does to letters on the device.
type LetterService interface {
	List(ctx context.Context, ownerPhone string, onlyDrafts bool) ([]models.Letter, error)
	// Detail returns (nil, nil) for an unknown letter.
	Detail(ctx context.Context, localID string) (*LetterDetail, error)
	Create(ctx context.Context, childCode, ownerPhone string) (string, error)
	SaveMessage(ctx context.Context, localID, text string) error
	AddPhoto(ctx context.Context, localID, path string) (int, error)
	DeletePhoto(ctx context.Context, localID string, slot int) error
	SaveDrawing(ctx context.Context, d models.Drawing) error
	ClearDrawing(ctx context.Context, localID string) error
	// MarkComplete moves a ready letter to PENDING_SYNC.
	MarkComplete(ctx context.Context, localID string) error
}

type letterService struct {
	db *sql.DB
}

func NewLetterService(db *sql.DB) LetterService {
	return &letterService{db: db}
}

func (s *letterService) List(ctx context.Context, ownerPhone string, onlyDrafts bool) ([]models.Letter, error) {
	return letters.NewSQLiteRepository(s.db).List(ctx, ownerPhone, letters.ListOptions{OnlyDrafts: onlyDrafts})
}

func (s *letterService) Detail(ctx context.Context, localID string) (*LetterDetail, error) {
	l, err := letters.NewSQLiteRepository(s.db).Get(ctx, localID)
	if err != nil || l == nil {
		return nil, err
	}
	ps, err := photos.NewSQLiteRepository(s.db).List(ctx, localID)
	if err != nil {
		return nil, err
	}
	d, err := drawings.NewSQLiteRepository(s.db).Get(ctx, localID)
	if err != nil {
		return nil, err
	}
	return &LetterDetail{Letter: *l, Photos: ps, Drawing: d}, nil
}

func (s *letterService) Create(ctx context.Context, childCode, ownerPhone string) (string, error) {
	return letters.NewSQLiteRepository(s.db).Create(ctx, childCode, ownerPhone)
}

func (s *letterService) SaveMessage(ctx context.Context, localID, text string) error {
	return messages.NewSQLiteRepository(s.db).Upsert(ctx, localID, text)
}

// AddPhoto stores a reference to an existing image file.
func (s *letterService) AddPhoto(ctx context.Context, localID, path string) (int, error) {
	if !filex.Exists(filex.LocalPath(path)) {
		return 0, fmt.Errorf("%w: photo %s does not exist", common.ErrValidation, path)
	}
	return photos.NewSQLiteRepository(s.db).Add(ctx, localID, path)
}

func (s *letterService) DeletePhoto(ctx context.Context, localID string, slot int) error {
	return photos.NewSQLiteRepository(s.db).Delete(ctx, localID, slot)
}

func (s *letterService) SaveDrawing(ctx context.Context, d models.Drawing) error {
	if d.Kind == models.DrawingRaster && !filex.Exists(filex.LocalPath(d.Content)) {
		return fmt.Errorf("%w: drawing %s does not exist", common.ErrValidation, d.Content)
	}
	return drawings.NewSQLiteRepository(s.db).Upsert(ctx, d)
}

func (s *letterService) ClearDrawing(ctx context.Context, localID string) error {
	return drawings.NewSQLiteRepository(s.db).Clear(ctx, localID)
}

// MarkComplete checks readiness and writes the status in one transaction.
// A letter that is already SYNCED is refused with common.ErrInvalidStatus.
func (s *letterService) MarkComplete(ctx context.Context, localID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := letters.NewSQLiteRepository(tx)
		l, err := repo.Get(ctx, localID)
		if err != nil {
			return err
		}
		if l == nil {
			return fmt.Errorf("letter %s: %w", localID, common.ErrNotFound)
		}

		switch l.Status {
		case models.StatusSynced:
			return fmt.Errorf("%w: letter %s is already synced", common.ErrInvalidStatus, localID)
		case models.StatusPendingSync:
			return nil
		}

		if !l.ReadyToSubmit() {
			return fmt.Errorf("%w: message=%t photos=%d drawing=%t",
				common.ErrNotReady, l.HasMessage, l.PhotosCount, l.HasDrawing)
		}
		return repo.SetStatus(ctx, localID, models.StatusPendingSync)
	})
}
