package repository

import (
	"context"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/okian/tastesearch/internal/domain/model"
	"github.com/okian/tastesearch/pkg/logger"
	"github.com/okian/tastesearch/pkg/metrics"
)

// MemStore is the in-memory Store loaded from a JSON snapshot.
//
// Mutations are copy-on-write on the genre map: a GenreCatalog returned by
// Genres is never modified afterwards, so readers may range over it without
// holding any lock.
type MemStore struct {
	mu     sync.RWMutex
	people []model.Person
	genres model.GenreCatalog
	// members indexes genres for exact containment checks.
	members map[string]mapset.Set[string]

	path      string
	writeBack bool
	logger    logger.Logger
}

// NewMemStore builds a store over an in-memory population.
func NewMemStore(people []model.Person, genres model.GenreCatalog, opts ...Option) *MemStore {
	s := &MemStore{
		people: people,
		genres: genres.Clone(),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.people == nil {
		s.people = []model.Person{}
	}
	s.members = make(map[string]mapset.Set[string], len(s.genres))
	for genre, artists := range s.genres {
		s.members[genre] = mapset.NewThreadUnsafeSet(artists...)
	}
	s.updateMetrics()
	return s
}

// Load reads the snapshot at path and builds a store from it. Any failure
// is wrapped in ErrLoadCatalog.
func Load(ctx context.Context, path string, opts ...Option) (*MemStore, error) {
	start := time.Now()
	snap, err := ReadSnapshot(path)
	if err != nil {
		return nil, err
	}

	s := NewMemStore(snap.People, snap.MusicArtists, opts...)
	s.path = path

	for genre, artists := range s.genres {
		if set := s.members[genre]; set.Cardinality() != len(artists) {
			s.logger.Warn(ctx, "genre lists an artist more than once",
				logger.String("genre", genre),
				logger.Int("artists", len(artists)),
				logger.Int("distinct", set.Cardinality()),
			)
		}
	}

	metrics.RecordCatalogLoadDuration(float64(time.Since(start).Microseconds()) / 1000)
	c := s.Counts(ctx)
	s.logger.Info(ctx, "catalog loaded",
		logger.String("path", path),
		logger.Int("people", c.People),
		logger.Int("genres", c.Genres),
		logger.Int("artists", c.Artists),
	)
	return s, nil
}

// People returns the population.
func (s *MemStore) People(_ context.Context) []model.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.people
}

// Genres returns the current genre catalog view.
func (s *MemStore) Genres(_ context.Context) model.GenreCatalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.genres
}

// HasArtist reports exact, case-sensitive membership.
func (s *MemStore) HasArtist(_ context.Context, genre, artist string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.members[genre]
	return ok && set.Contains(artist)
}

// AppendArtist appends artist to genre, creating the genre if absent. When
// write-back is enabled the new snapshot is persisted first and the
// in-memory catalog only changes if that succeeds.
func (s *MemStore) AppendArtist(ctx context.Context, genre, artist string) error {
	if genre == "" || artist == "" {
		return ErrEmptyValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(model.GenreCatalog, len(s.genres)+1)
	for g, artists := range s.genres {
		next[g] = artists
	}
	current := s.genres[genre]
	updated := make([]string, len(current), len(current)+1)
	copy(updated, current)
	next[genre] = append(updated, artist)

	if s.writeBack && s.path != "" {
		if err := WriteSnapshot(ctx, s.path, &Snapshot{People: s.people, MusicArtists: next}); err != nil {
			metrics.RecordCatalogPersistError()
			s.logger.Error(ctx, "catalog write-back failed", logger.String("path", s.path), logger.Error(err))
			return err
		}
	}

	s.genres = next
	set, ok := s.members[genre]
	if !ok {
		set = mapset.NewThreadUnsafeSet[string]()
		s.members[genre] = set
	}
	set.Add(artist)

	s.updateMetrics()
	s.logger.Debug(ctx, "artist appended", logger.String("genre", genre), logger.String("artist", artist))
	return nil
}

// Counts returns the catalog size.
func (s *MemStore) Counts(_ context.Context) Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countsLocked()
}

func (s *MemStore) countsLocked() Counts {
	c := Counts{People: len(s.people), Genres: len(s.genres)}
	for _, artists := range s.genres {
		c.Artists += len(artists)
	}
	return c
}

func (s *MemStore) updateMetrics() {
	c := s.countsLocked()
	metrics.UpdateCatalogSize(c.People, c.Genres, c.Artists)
}
