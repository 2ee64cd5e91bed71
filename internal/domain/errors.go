package domain

import "errors"

// Domain errors.
var (
	ErrNotInitialized     = errors.New("spool not initialized (run 'spool init' first)")
	ErrAlreadyInitialized = errors.New("spool already initialized")
	ErrTaskNotFound       = errors.New("task not found")
	ErrAmbiguousTaskID    = errors.New("task id prefix is ambiguous")
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrEmptyComment       = errors.New("comment body cannot be empty")
	ErrInvalidPriority    = errors.New("invalid priority (expected p0..p3)")
	ErrInvalidResolution  = errors.New("invalid resolution (expected done, wontfix, duplicate or obsolete)")
	ErrInvalidLinkRel     = errors.New("invalid link relationship (expected blocks, blocked_by or parent)")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrUnknownField       = errors.New("unknown field (expected title, description, priority or tags)")
	ErrAlreadyComplete    = errors.New("task is already complete")
	ErrNotComplete        = errors.New("task is not complete")
	ErrSelfLink           = errors.New("task cannot link to itself")
	ErrValidationFailed   = errors.New("validation failed")
)
