package onboarding

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// StatusStore caches one supplier's onboarding status for the session. It is
// an injectable container with explicit Init and Invalidate instead of a
// module-level singleton.
type StatusStore struct {
	mu      sync.RWMutex
	service Service
	cached  *StatusView
	loaded  bool
}

// NewStatusStore builds a store over the onboarding service.
func NewStatusStore(service Service) *StatusStore {
	return &StatusStore{service: service}
}

// Init fetches the status once and caches it.
func (s *StatusStore) Init(ctx context.Context, supplierID uuid.UUID) (*StatusView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, err := s.service.Status(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	s.cached = view
	s.loaded = true
	return view, nil
}

// Get returns the cached status; the bool reports whether Init ran.
func (s *StatusStore) Get() (*StatusView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached, s.loaded
}

// Refresh refetches the status for the cached supplier.
func (s *StatusStore) Refresh(ctx context.Context, supplierID uuid.UUID) (*StatusView, error) {
	return s.Init(ctx, supplierID)
}

// Invalidate clears the cache, used on logout.
func (s *StatusStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	s.loaded = false
}
