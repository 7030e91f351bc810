package messages

import (
	"context"

	"github.com/dmitrijs2005/magicletters/internal/client/models"
)

type Repository interface {
	// Get returns the message of letterID, or (nil, nil) when the letter
	// does not exist or its body is empty.
	Get(ctx context.Context, letterID string) (*models.Message, error)

	// Upsert replaces the body. The letter must exist.
	Upsert(ctx context.Context, letterID, text string) error
}
