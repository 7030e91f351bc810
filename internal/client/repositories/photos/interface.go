package photos

import (
	"context"

	"github.com/dmitrijs2005/magicletters/internal/client/models"
)

type Repository interface {
	// List returns the letter's photos ordered by slot.
	List(ctx context.Context, letterID string) ([]models.Photo, error)

	// Add stores path in the lowest free slot and returns the slot number.
	// It fails with common.ErrPhotoSlotsFull when every slot is taken.
	Add(ctx context.Context, letterID, path string) (int, error)

	// Delete frees slot. Deleting an empty slot is not an error.
	Delete(ctx context.Context, letterID string, slot int) error
}
