// Package state serves materialized task state, using the cache when
// its fingerprint still matches the log directory and replaying
// otherwise. The log stays the only source of truth; this layer is pure
// optimization.
package state

import (
	"errors"

	"github.com/spooldev/spool/internal/infra/cache"
	"github.com/spooldev/spool/internal/domain"
)

// Store implements domain.StateStore on top of the event log and the
// cache layer.
type Store struct {
	log    domain.EventLog
	cache  *cache.Store
	logger domain.Logger
}

// New creates a Store.
func New(log domain.EventLog, cacheStore *cache.Store, logger domain.Logger) *Store {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Store{log: log, cache: cacheStore, logger: logger}
}

// Current returns the cached state when fresh. On a stale or missing
// cache it replays all logs and rewrites the cache; the returned
// diagnostics are non-nil only on that path.
func (s *Store) Current() (*domain.State, *domain.Index, []domain.Diagnostic, error) {
	fingerprint, err := s.cache.Fingerprint()
	if err != nil {
		return nil, nil, nil, err
	}

	cachedState, stateErr := s.cache.ReadState(fingerprint)
	cachedIndex, indexErr := s.cache.ReadIndex(fingerprint)
	if stateErr == nil && indexErr == nil {
		return cachedState, cachedIndex, nil, nil
	}
	if (stateErr != nil && !errors.Is(stateErr, cache.ErrMiss)) ||
		(indexErr != nil && !errors.Is(indexErr, cache.ErrMiss)) {
		err := stateErr
		if err == nil {
			err = indexErr
		}
		return nil, nil, nil, err
	}

	s.logger.Debug("state", "cache stale, replaying logs")
	return s.rebuild(fingerprint)
}

// Rebuild unconditionally replays all logs and rewrites the cache.
func (s *Store) Rebuild() (*domain.State, *domain.Index, []domain.Diagnostic, error) {
	fingerprint, err := s.cache.Fingerprint()
	if err != nil {
		return nil, nil, nil, err
	}
	return s.rebuild(fingerprint)
}

func (s *Store) rebuild(fingerprint string) (*domain.State, *domain.Index, []domain.Diagnostic, error) {
	scan, err := s.log.ScanAll()
	if err != nil {
		return nil, nil, nil, err
	}

	result := domain.Replay(scan.Events)
	diags := append(scan.Diagnostics, result.Diagnostics...)

	if err := s.cache.Write(result.State, result.Index, fingerprint); err != nil {
		return nil, nil, nil, err
	}

	return result.State, result.Index, diags, nil
}

// Ensure Store implements the port.
var _ domain.StateStore = (*Store)(nil)
