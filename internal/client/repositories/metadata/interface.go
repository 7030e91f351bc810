package metadata

import (
	"context"
	"time"
)

// Key names a bookkeeping timestamp.
type Key string

// Keys written by the sync service.
const (
	KeyLastPullAt Key = "last_pull_at"
	KeyLastPushAt Key = "last_push_at"
)

type Repository interface {
	// GetTime returns the timestamp stored under key, or the zero time when
	// it was never written.
	GetTime(ctx context.Context, key Key) (time.Time, error)
	// SetTime stores t under key, replacing any earlier value.
	SetTime(ctx context.Context, key Key, t time.Time) error
}
