package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// now is a test seam for the wall clock.
var now = time.Now

// Now returns the current time in UTC, truncated to milliseconds so that it
// survives a round trip through TimeLayout.
func Now() time.Time {
	return now().UTC().Truncate(time.Millisecond)
}

// FormatTime renders t the way timestamps are stored.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a stored timestamp. SQLite's datetime('now') format is
// accepted too, since legacy rows were written with it.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{TimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse time %q: %w", s, ErrValidation)
}

// NewLocalID returns a letter identifier of the form L<unix-millis>_<suffix>.
func NewLocalID() string {
	return fmt.Sprintf("L%d_%s", now().UnixMilli(), gonanoid.MustGenerate(idAlphabet, 10))
}

// NewUserID returns a time-ordered user identifier.
func NewUserID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "U" + strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return "U" + strings.ReplaceAll(id.String(), "-", "")
}
