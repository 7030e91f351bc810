// Package common defines shared constants, identifiers and sentinel errors
// used across the Magic Letters client. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Validation errors (rejected before any store mutation).
	ErrValidation     = errors.New("validation error")
	ErrInvalidStatus  = errors.New("invalid letter status")
	ErrInvalidSlot    = errors.New("invalid photo slot")
	ErrPhotoSlotsFull = errors.New("all photo slots are taken")

	// Workflow errors.
	ErrNoIdentity     = errors.New("no technician identity")
	ErrNotReady       = errors.New("letter is not ready to submit")
	ErrProtectedUser  = errors.New("protected user cannot be deleted")
	ErrSyncInProgress = errors.New("sync already in progress")

	// Store integrity errors.
	ErrForeignKeyViolation = errors.New("foreign key violation")
)
