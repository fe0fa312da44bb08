// Package common defines sentinel errors shared across the stores and
// services. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Auth errors.
	ErrInvalidCredential = errors.New("invalid credential")
	ErrInvalidToken      = errors.New("invalid token")

	// DeletionIncomplete means a post-delete verification read still found
	// the user or their session; the caller may retry the whole deletion.
	ErrDeletionIncomplete = errors.New("account deletion incomplete")

	// Comment mutation errors.
	ErrNoMatch     = errors.New("no matching comment for this owner")
	ErrMovieLookup = errors.New("movie lookup failed")
)
