package drawings

import (
	"context"

	"github.com/dmitrijs2005/magicletters/internal/client/models"
)

type Repository interface {
	// Get returns the letter's drawing, or (nil, nil) when it has none.
	Get(ctx context.Context, letterID string) (*models.Drawing, error)
	Upsert(ctx context.Context, d models.Drawing) error
	Clear(ctx context.Context, letterID string) error
}
