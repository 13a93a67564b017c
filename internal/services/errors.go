package services

import (
	"errors"

	"trips-club/internal/repository"
)

// Sentinel errors returned by the services. Handlers map them to HTTP status
// codes with errors.Is, so wrap them with %w when adding context.
var (
	ErrNotFound            = repository.ErrNotFound
	ErrAlreadyVoted        = errors.New("already voted for this proposal")
	ErrAlreadyInterested   = errors.New("already interested in this trip")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrInvalidStatus       = errors.New("invalid proposal status")
	ErrValidation          = errors.New("validation failed")
	ErrInvalidTransition   = errors.New("invalid proposal transition")
	ErrProposalClosed      = errors.New("proposal is not open for voting")
	ErrInsufficientCredits = errors.New("insufficient travel credits")
)
