package models

import "errors"

// Sentinel errors for request validation.
var (
	ErrNoSeeds             = errors.New("at least one seed person is required")
	ErrInvalidPersonID     = errors.New("person id must be positive")
	ErrInvalidDepth        = errors.New("depth out of range")
	ErrInvalidPolicy       = errors.New("invalid filter policy")
	ErrInvalidRelationKind = errors.New("invalid relation kind")
	ErrUnsupportedFormat   = errors.New("unsupported export format")
	ErrInvalidDocument     = errors.New("invalid interchange document")
)

// Sentinel errors for lookups and collaborators.
var (
	// ErrPersonNotFound means a seed id has no node attributes in the store.
	ErrPersonNotFound = errors.New("person not found")

	// ErrAdapter wraps any failure raised by the edge store during a traversal.
	ErrAdapter = errors.New("edge store failure")
)
