// Package models defines client-side data models used by the Magic Letters
// field client.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/magicletters/internal/common"
)

// Status is the lifecycle state of a letter.
type Status string

const (
	StatusDraft       Status = "DRAFT"
	StatusAssigned    Status = "ASSIGNED"
	StatusPendingSync Status = "PENDING_SYNC"
	StatusSynced      Status = "SYNCED"
	StatusReturned    Status = "RETURNED"
)

// ActionableStatuses are the statuses listed when only drafts are requested.
var ActionableStatuses = []Status{StatusDraft, StatusAssigned, StatusPendingSync, StatusReturned}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusAssigned, StatusPendingSync, StatusSynced, StatusReturned:
		return true
	}
	return false
}

// ParseStatus normalizes a status received from the server. An empty value
// means ASSIGNED.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if st == "" {
		return StatusAssigned, nil
	}
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidStatus, s)
	}
	return st, nil
}

// Letter is one piece of correspondence for one sponsored child, together
// with the completion flags derived from its child rows.
type Letter struct {
	LocalID      string
	ServerID     string
	SlipID       string
	ChildCode    string
	ChildName    string
	Village      string
	ContactName  string
	DueDate      string
	Status       Status
	Message      string
	ReturnReason string
	OwnerPhone   string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Derived at query time.
	HasMessage  bool
	PhotosCount int
	HasDrawing  bool
}

// ReadyToSubmit reports whether the letter satisfies the completion gate:
// a written message, at least one photo and a drawing.
func (l *Letter) ReadyToSubmit() bool {
	return l.HasMessage && l.PhotosCount >= 1 && l.HasDrawing
}

// NeedsAttention reports whether the letter sorts first in listings.
func (l *Letter) NeedsAttention() bool {
	return l.Status == StatusReturned || l.Status == StatusPendingSync
}
