package common

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalID_Format(t *testing.T) {
	orig := now
	now = func() time.Time { return time.UnixMilli(1700000000123) }
	t.Cleanup(func() { now = orig })

	id := NewLocalID()
	assert.Regexp(t, regexp.MustCompile(`^L1700000000123_[0-9a-z]{10}$`), id)
}

func TestNewLocalID_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewLocalID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestNewUserID_Prefix(t *testing.T) {
	a, b := NewUserID(), NewUserID()
	assert.Regexp(t, `^U[0-9a-f]{32}$`, a)
	assert.NotEqual(t, a, b)
}

func TestFormatParseTime_RoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 891_000_000, time.UTC)
	got, err := ParseTime(FormatTime(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))
}

func TestParseTime_LegacyAndEmpty(t *testing.T) {
	got, err := ParseTime("2024-01-02 03:04:05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), got)

	zero, err := ParseTime("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = ParseTime("yesterday")
	require.ErrorIs(t, err, ErrValidation)
}
