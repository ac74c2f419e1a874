package service

import (
	"errors"

	"messenger-service/internal/repositories"
)

// Ingest errors.
var (
	// ErrInvalidPayload rejects a message with neither content nor media,
	// or with a malformed recipient.
	ErrInvalidPayload = errors.New("invalid message payload")
	// ErrStorageFailure wraps a failed persistence step. When it is
	// returned, no live delivery was attempted.
	ErrStorageFailure = errors.New("message storage failure")
)

// Relationship errors.
var (
	ErrAlreadyPending  = errors.New("friend request already pending")
	ErrAlreadyContacts = errors.New("users are already contacts")
	ErrSelfRequest     = errors.New("cannot send a friend request to yourself")
	ErrUnknownUser     = errors.New("unknown user")
	// ErrNoSuchRequest is returned when accepting or declining a request
	// that does not exist, including a second accept of the same request.
	ErrNoSuchRequest = repositories.ErrNoSuchRequest
)
