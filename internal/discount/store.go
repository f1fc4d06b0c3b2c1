package discount

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/bitefinderz-backend/pkg/logger"
	"github.com/google/uuid"
)

const defaultCacheTTL = 5 * time.Minute

// Source fetches the auto-resolvable rule set for a catalog view.
type Source interface {
	FetchRules(ctx context.Context, categoryID *uuid.UUID) ([]Rule, error)
}

// Store is a time-bounded, in-memory rule snapshot refreshed from a Source.
//
// Rules never returns an error: a failed refresh falls back to the previous
// snapshot (or an empty one) so items simply render at base price.
type Store struct {
	source Source
	logg   *logger.Logger
	ttl    time.Duration
	now    func() time.Time

	mu        sync.RWMutex
	rules     []Rule
	scopeKey  string
	fetchedAt time.Time
}

// NewStore builds a rule store with the given cache TTL.
func NewStore(source Source, logg *logger.Logger, ttl time.Duration) (*Store, error) {
	if source == nil {
		return nil, fmt.Errorf("rule source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Store{
		source: source,
		logg:   logg,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Rules returns the rule snapshot for the given category scope, refreshing
// from the source when the cached snapshot is stale or scoped differently.
func (s *Store) Rules(ctx context.Context, categoryID *uuid.UUID) []Rule {
	key := scopeKey(categoryID)

	s.mu.RLock()
	fresh := s.scopeKey == key && s.now().Sub(s.fetchedAt) < s.ttl
	cached := s.rules
	s.mu.RUnlock()
	if fresh {
		return cached
	}

	fetched, err := s.source.FetchRules(ctx, categoryID)
	if err != nil {
		s.logg.Error(ctx, "rule fetch failed, keeping previous snapshot", err)
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.scopeKey == key {
			return s.rules
		}
		return nil
	}

	s.mu.Lock()
	s.rules = fetched
	s.scopeKey = key
	s.fetchedAt = s.now()
	s.mu.Unlock()
	return fetched
}

// Invalidate drops the cached snapshot so the next Rules call refetches.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.fetchedAt = time.Time{}
	s.mu.Unlock()
}

func scopeKey(categoryID *uuid.UUID) string {
	if categoryID == nil {
		return "all"
	}
	return categoryID.String()
}
