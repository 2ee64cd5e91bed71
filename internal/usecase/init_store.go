package usecase

import (
	"context"
	"errors"
)

// InitStoreInput contains the parameters for initializing a store.
type InitStoreInput struct {
	Dir string // Directory the store is created under (required)
}

// InitStoreOutput contains the created store root.
type InitStoreOutput struct {
	Root string // Absolute path of the new .spool directory
}

// InitStore is the use case for creating a new store layout.
type InitStore struct {
	initialize func(dir string) (string, error)
}

// NewInitStore creates a new InitStore use case around the given
// initializer function.
func NewInitStore(initialize func(dir string) (string, error)) *InitStore {
	return &InitStore{initialize: initialize}
}

// Execute creates the store directory tree. Fails if one already exists.
func (uc *InitStore) Execute(_ context.Context, in InitStoreInput) (*InitStoreOutput, error) {
	if in.Dir == "" {
		return nil, errors.New("target directory required")
	}
	root, err := uc.initialize(in.Dir)
	if err != nil {
		return nil, err
	}
	return &InitStoreOutput{Root: root}, nil
}
