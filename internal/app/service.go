// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/tastesearch/internal/adapters/cache"
	"github.com/okian/tastesearch/internal/adapters/repository"
	"github.com/okian/tastesearch/internal/domain/model"
	"github.com/okian/tastesearch/internal/domain/scoring"
	"github.com/okian/tastesearch/pkg/logger"
	"github.com/okian/tastesearch/pkg/metrics"
)

// Service runs searches through the result cache and applies catalog
// mutations.
//
// A single RWMutex orders the two paths. Search holds the read lock across
// cache lookup, ranking and cache store, and AddArtist holds the write lock
// across conflict check, append and invalidation. A reader therefore never
// sees a catalog change without the matching cache clear, and a result
// computed against an old catalog can never be stored after the clear.
type Service struct {
	mu sync.RWMutex

	store  repository.Store
	cache  cache.Cache
	ranker scoring.Ranker

	// flights collapses concurrent misses for the same query.
	flights singleflight.Group

	started   atomic.Bool
	startedAt atomic.Int64
	searches  atomic.Uint64
	mutations atomic.Uint64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the catalog store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCache sets the result cache.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithEngine sets the ranker used on cache misses.
func WithEngine(r scoring.Ranker) Option {
	return func(s *Service) {
		if r != nil {
			s.ranker = r
		}
	}
}

// New constructs a Service. Components not supplied through options get
// defaults: an empty catalog, a fresh result cache and the standard engine.
func New(opts ...Option) *Service {
	s := &Service{
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewMemStore(nil, nil, repository.WithLogger(s.logger))
	}
	if s.cache == nil {
		s.cache = cache.New(cache.WithLogger(s.logger))
	}
	if s.ranker == nil {
		s.ranker = scoring.NewEngine(scoring.WithLogger(s.logger))
	}
	return s
}

// Start marks the service ready and logs the catalog it serves.
func (s *Service) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}
	s.startedAt.Store(time.Now().UnixNano())

	c := s.store.Counts(ctx)
	s.logger.Info(ctx, "search service started",
		logger.Int("people", c.People),
		logger.Int("genres", c.Genres),
		logger.Int("artists", c.Artists),
		logger.Uint64("epoch", s.cache.Epoch()),
	)
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	if !s.started.CompareAndSwap(true, false) {
		return
	}
	s.logger.Info(context.Background(), "search service stopped")
}

// Search returns the ranked results for q, serving repeated queries from
// the cache until the next catalog mutation. The returned slice is the
// caller's own copy.
func (s *Service) Search(ctx context.Context, q model.Query) ([]model.SearchResult, error) {
	results, _, err := s.SearchWithEpoch(ctx, q)
	return results, err
}

// SearchWithEpoch is Search plus the cache epoch the results belong to. The
// epoch is read under the same read lock as the lookup, so a concurrent
// mutation cannot stamp a newer epoch on older results.
func (s *Service) SearchWithEpoch(ctx context.Context, q model.Query) ([]model.SearchResult, uint64, error) {
	if q.Text == "" {
		return nil, 0, ErrEmptyQuery
	}
	s.searches.Add(1)

	s.mu.RLock()
	defer s.mu.RUnlock()
	epoch := s.cache.Epoch()

	if results, ok := s.cache.Lookup(ctx, q); ok {
		metrics.RecordSearch("hit")
		return model.CloneResults(results), epoch, nil
	}

	v, _, shared := s.flights.Do(flightKey(q), func() (any, error) {
		results := s.ranker.Rank(ctx, s.store.People(ctx), s.store.Genres(ctx), q)
		s.cache.Store(ctx, q, results)
		return results, nil
	})
	if shared {
		metrics.RecordSearch("shared")
	} else {
		metrics.RecordSearch("miss")
	}
	return model.CloneResults(v.([]model.SearchResult)), epoch, nil
}

// AddArtist appends artist to genre and clears every cached result. It
// fails with a *ConflictError when the artist is already listed there.
func (s *Service) AddArtist(ctx context.Context, genre, artist string) error {
	_, err := s.AddArtistWithEpoch(ctx, genre, artist)
	return err
}

// AddArtistWithEpoch is AddArtist plus the epoch opened by the mutation.
func (s *Service) AddArtistWithEpoch(ctx context.Context, genre, artist string) (uint64, error) {
	if strings.TrimSpace(genre) == "" || strings.TrimSpace(artist) == "" {
		return 0, ErrInvalidArtist
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.HasArtist(ctx, genre, artist) {
		metrics.RecordArtistConflict()
		s.logger.Debug(ctx, "artist already exists",
			logger.String("genre", genre),
			logger.String("artist", artist),
		)
		return 0, &ConflictError{Genre: genre, Artist: artist}
	}

	if err := s.store.AppendArtist(ctx, genre, artist); err != nil {
		return 0, fmt.Errorf("add artist %q to %q: %w", artist, genre, err)
	}
	epoch := s.cache.InvalidateAll(ctx)
	s.mutations.Add(1)

	metrics.RecordArtistAdded()
	s.logger.Info(ctx, "artist added",
		logger.String("genre", genre),
		logger.String("artist", artist),
		logger.Uint64("epoch", epoch),
	)
	return epoch, nil
}

// Epoch returns the current cache generation.
func (s *Service) Epoch() uint64 {
	return s.cache.Epoch()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.store.Counts(context.Background())
	stats := map[string]interface{}{
		"started":      s.started.Load(),
		"people":       c.People,
		"genres":       c.Genres,
		"artists":      c.Artists,
		"cacheEntries": s.cache.Len(),
		"cacheEpoch":   s.cache.Epoch(),
		"searches":     s.searches.Load(),
		"mutations":    s.mutations.Load(),
	}
	if s.started.Load() {
		stats["uptimeSeconds"] = int64(time.Since(time.Unix(0, s.startedAt.Load())).Seconds())
	}

	metrics.UpdateCatalogSize(c.People, c.Genres, c.Artists)
	metrics.UpdateCacheEntries(s.cache.Len())
	return stats
}

// flightKey encodes q for singleflight. The text goes last so the fixed
// prefix keeps distinct queries apart.
func flightKey(q model.Query) string {
	return fmt.Sprintf("%d:%d:%s", q.Sort, q.Direction, q.Text)
}
