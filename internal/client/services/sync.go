package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/magicletters/internal/client/client"
	"github.com/dmitrijs2005/magicletters/internal/client/models"
	"github.com/dmitrijs2005/magicletters/internal/client/repositories/drawings"
	"github.com/dmitrijs2005/magicletters/internal/client/repositories/letters"
	"github.com/dmitrijs2005/magicletters/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/magicletters/internal/client/repositories/photos"
	"github.com/dmitrijs2005/magicletters/internal/common"
	"github.com/dmitrijs2005/magicletters/internal/dbx"
	"github.com/dmitrijs2005/magicletters/internal/filex"
	"github.com/dmitrijs2005/magicletters/internal/logging"
)

// Canvas size vector drawings are rendered at for upload.
const (
	drawingWidth  = 1080
	drawingHeight = 1350
)

// PushReport summarizes one push cycle.
type PushReport struct {
	Attempted int
	Synced    int
	// Failures maps local ids to the reason their upload failed.
	Failures map[string]error
}

// SyncResult is the outcome of a full sync.
type SyncResult struct {
	Push   PushReport
	Pulled int
}

// SyncTimes records when the device last completed each half of a sync.
// A zero time means it never has.
type SyncTimes struct {
	Pull time.Time
	Push time.Time
}

// SyncService exchanges letters with the server. Only one operation runs at
// a time; a concurrent call fails with common.ErrSyncInProgress.
type SyncService interface {
	// Pull replaces the owner's un-worked letters with the server's current
	// assignment and returns how many records the server sent.
	Pull(ctx context.Context, ownerPhone string) (int, error)
	// Push uploads every PENDING_SYNC letter. Per-letter failures are
	// reported in the PushReport and never abort the batch.
	Push(ctx context.Context) (PushReport, error)
	// Sync pushes, then pulls.
	Sync(ctx context.Context, ownerPhone string) (SyncResult, error)
	// LastSync reports the last successful pull and push. It does not wait
	// for a running sync.
	LastSync(ctx context.Context) (SyncTimes, error)
}

type syncService struct {
	client client.Client
	db     *sql.DB
	log    logging.Logger

	mu sync.Mutex
}

func NewSyncService(c client.Client, db *sql.DB, log logging.Logger) SyncService {
	return &syncService{client: c, db: db, log: log}
}

func (s *syncService) guard() (func(), error) {
	if !s.mu.TryLock() {
		return nil, common.ErrSyncInProgress
	}
	return s.mu.Unlock, nil
}

func (s *syncService) Pull(ctx context.Context, ownerPhone string) (int, error) {
	release, err := s.guard()
	if err != nil {
		return 0, err
	}
	defer release()
	return s.pull(ctx, ownerPhone)
}

func (s *syncService) Push(ctx context.Context) (PushReport, error) {
	release, err := s.guard()
	if err != nil {
		return PushReport{}, err
	}
	defer release()
	return s.push(ctx)
}

func (s *syncService) Sync(ctx context.Context, ownerPhone string) (SyncResult, error) {
	release, err := s.guard()
	if err != nil {
		return SyncResult{}, err
	}
	defer release()

	var res SyncResult
	if strings.TrimSpace(ownerPhone) == "" {
		return res, common.ErrNoIdentity
	}
	if res.Push, err = s.push(ctx); err != nil {
		return res, fmt.Errorf("push: %w", err)
	}
	if res.Pulled, err = s.pull(ctx, ownerPhone); err != nil {
		return res, fmt.Errorf("pull: %w", err)
	}
	return res, nil
}

func (s *syncService) LastSync(ctx context.Context) (SyncTimes, error) {
	var st SyncTimes
	repo := metadata.NewSQLiteRepository(s.db)
	var err error
	if st.Pull, err = repo.GetTime(ctx, metadata.KeyLastPullAt); err != nil {
		return st, err
	}
	if st.Push, err = repo.GetTime(ctx, metadata.KeyLastPushAt); err != nil {
		return st, err
	}
	return st, nil
}

func (s *syncService) pull(ctx context.Context, ownerPhone string) (int, error) {
	ownerPhone = strings.TrimSpace(ownerPhone)
	if ownerPhone == "" {
		return 0, common.ErrNoIdentity
	}
	log := s.log.With("owner", ownerPhone)

	records, err := s.client.FetchAssigned(ctx, ownerPhone)
	if err != nil {
		log.Error(ctx, "pull failed", "error", err)
		return 0, fmt.Errorf("fetch assigned letters: %w", err)
	}

	var cleared int64
	var skipped int
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := letters.NewSQLiteRepository(tx)
		var err error
		if cleared, err = repo.ClearLocal(ctx, ownerPhone); err != nil {
			return err
		}
		for _, rec := range records {
			_, err := repo.SaveSynced(ctx, rec, ownerPhone)
			switch {
			case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrInvalidStatus):
				skipped++
				log.Warn(ctx, "skipping remote letter", "server_id", string(rec.ID), "error", err)
			case err != nil:
				return err
			}
		}
		return metadata.NewSQLiteRepository(tx).SetTime(ctx, metadata.KeyLastPullAt, common.Now())
	})
	if err != nil {
		return 0, fmt.Errorf("store pulled letters: %w", err)
	}

	log.Info(ctx, "pull finished", "received", len(records), "cleared", cleared, "skipped", skipped)
	return len(records), nil
}

func (s *syncService) push(ctx context.Context) (PushReport, error) {
	report := PushReport{Failures: map[string]error{}}

	repo := letters.NewSQLiteRepository(s.db)
	pending, err := repo.ListPending(ctx)
	if err != nil {
		return report, fmt.Errorf("list pending letters: %w", err)
	}
	report.Attempted = len(pending)

	for _, l := range pending {
		log := s.log.With("local_id", l.LocalID, "server_id", l.ServerID, "owner", l.OwnerPhone)

		if err := s.pushOne(ctx, repo, l); err != nil {
			report.Failures[l.LocalID] = err
			log.Warn(ctx, "push failed, letter stays pending", "error", err)
			continue
		}
		report.Synced++
		log.Info(ctx, "letter pushed")
	}

	if report.Synced > 0 {
		if err := metadata.NewSQLiteRepository(s.db).SetTime(ctx, metadata.KeyLastPushAt, common.Now()); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (s *syncService) pushOne(ctx context.Context, repo letters.Repository, l models.Letter) error {
	up, err := s.buildUpload(ctx, l)
	if err != nil {
		return err
	}
	if err := s.client.UploadLetter(ctx, up); err != nil {
		return err
	}
	return repo.SetStatus(ctx, l.LocalID, models.StatusSynced)
}

// buildUpload assembles the multipart payload of l: its message, its drawing
// and its photos named photo_0.. A raster drawing is sent as its PNG file.
// A vector drawing is sent as drawing.svg with type image/svg+xml, not PNG,
// so the push endpoint must accept SVG in the drawing part.
func (s *syncService) buildUpload(ctx context.Context, l models.Letter) (models.Upload, error) {
	up := models.Upload{
		LocalID:    l.LocalID,
		ServerID:   l.ServerID,
		OwnerPhone: l.OwnerPhone,
		Message:    l.Message,
	}

	d, err := drawings.NewSQLiteRepository(s.db).Get(ctx, l.LocalID)
	if err != nil {
		return up, err
	}
	if d != nil {
		switch d.Kind {
		case models.DrawingRaster:
			up.Drawing = &models.UploadFile{Field: "drawing", Path: filex.LocalPath(d.Content), ContentType: "image/png"}
		case models.DrawingVector:
			svg, err := d.SVG(drawingWidth, drawingHeight)
			if err != nil {
				return up, err
			}
			up.Drawing = &models.UploadFile{Field: "drawing", Name: "drawing.svg", Data: svg, ContentType: "image/svg+xml"}
		}
	}

	ps, err := photos.NewSQLiteRepository(s.db).List(ctx, l.LocalID)
	if err != nil {
		return up, err
	}
	for i, p := range ps {
		path := filex.LocalPath(p.Path)
		up.Photos = append(up.Photos, models.UploadFile{
			Field:       fmt.Sprintf("photo_%d", i),
			Path:        path,
			ContentType: imageType(path),
		})
	}
	return up, nil
}

func imageType(path string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); strings.HasPrefix(t, "image/") {
		return t
	}
	return "image/jpeg"
}
