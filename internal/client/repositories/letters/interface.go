package letters

import (
	"context"

	"github.com/dmitrijs2005/magicletters/internal/client/models"
)

// ListOptions narrows List.
type ListOptions struct {
	// OnlyDrafts limits the result to models.ActionableStatuses.
	OnlyDrafts bool
}

// Repository describes operations on Letter rows.
type Repository interface {
	// List returns the owner's letters, attention-needed first, then by due
	// date ascending, then most recently updated.
	List(ctx context.Context, ownerPhone string, opts ListOptions) ([]models.Letter, error)

	// Get returns a letter by local id, or (nil, nil) if there is none.
	Get(ctx context.Context, localID string) (*models.Letter, error)

	// Create inserts a DRAFT letter for childCode and returns its local id.
	Create(ctx context.Context, childCode, ownerPhone string) (string, error)

	// UpdateMessage replaces the message body.
	UpdateMessage(ctx context.Context, localID, text string) error

	// SetStatus writes status without checking the transition.
	SetStatus(ctx context.Context, localID string, status models.Status) error

	// SaveSynced upserts a pulled record keyed by (server id, owner) and
	// returns the local id it is stored under.
	SaveSynced(ctx context.Context, rec models.RemoteLetter, ownerPhone string) (string, error)

	// ClearLocal deletes the owner's un-worked pulled letters (ASSIGNED and
	// RETURNED) and reports how many were removed.
	ClearLocal(ctx context.Context, ownerPhone string) (int64, error)

	// ListPending returns every PENDING_SYNC letter.
	ListPending(ctx context.Context) ([]models.Letter, error)
}
