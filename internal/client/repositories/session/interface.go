package session

import (
	"context"

	"github.com/dmitrijs2005/magicletters/internal/client/models"
)

type Repository interface {
	// Get returns the current session, or (nil, nil) when nobody is logged in.
	Get(ctx context.Context) (*models.Session, error)
	// Set replaces the session with one for userID.
	Set(ctx context.Context, userID string) error
	Clear(ctx context.Context) error
}
