package client

import (
	"context"

	"github.com/dmitrijs2005/magicletters/internal/client/models"
)

// Client is the remote API used by the sync service.
type Client interface {
	// FetchAssigned returns the letters assigned to the technician with phone.
	FetchAssigned(ctx context.Context, phone string) ([]models.RemoteLetter, error)
	// UploadLetter pushes one completed letter. A nil error means the server
	// acknowledged it.
	UploadLetter(ctx context.Context, up models.Upload) error
}
