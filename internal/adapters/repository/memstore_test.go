package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hashicorp/go-multierror"

	"github.com/okian/tastesearch/internal/domain/model"
)

const sampleSnapshot = `{
  "people": [
    {"name": "John Smith", "musicGenres": ["Rock"], "movies": ["The Matrix"], "location": "London"},
    {"name": "Jane Doe", "musicGenres": ["Jazz", "Pop"], "movies": [], "location": "Paris"}
  ],
  "musicArtists": {
    "Rock": ["The Beatles", "Queen"],
    "Jazz": ["Miles Davis"]
  }
}`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	store, err := Load(ctx, writeFile(t, sampleSnapshot))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(store.People(ctx)); got != 2 {
		t.Errorf("expected 2 people, got %d", got)
	}
	c := store.Counts(ctx)
	if c.People != 2 || c.Genres != 2 || c.Artists != 3 {
		t.Errorf("unexpected counts %+v", c)
	}
	// absent arrays decode to empty ones
	if movies := store.People(ctx)[1].Movies; movies == nil {
		t.Error("expected empty movies slice, got nil")
	}
	artists, ok := store.Genres(ctx).Artists("Rock")
	if !ok || len(artists) != 2 || artists[0] != "The Beatles" {
		t.Errorf("unexpected Rock artists %v", artists)
	}
}

func TestLoad_Failures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		path    func(t *testing.T) string
		invalid bool
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") }, false},
		{"malformed json", func(t *testing.T) string { return writeFile(t, `{"people": [`) }, false},
		{"empty person name", func(t *testing.T) string { return writeFile(t, `{"people":[{"name":""}]}`) }, true},
		{"empty artist", func(t *testing.T) string { return writeFile(t, `{"musicArtists":{"Rock":[""]}}`) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(ctx, tt.path(t))
			if !errors.Is(err, ErrLoadCatalog) {
				t.Fatalf("expected ErrLoadCatalog, got %v", err)
			}
			if tt.invalid && !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("expected ErrInvalidSnapshot, got %v", err)
			}
		})
	}
}

func TestSnapshotValidate_ReportsAll(t *testing.T) {
	snap := &Snapshot{
		People:       []model.Person{{Name: ""}, {Name: "ok"}, {Name: ""}},
		MusicArtists: model.GenreCatalog{"Rock": {"", "Queen"}},
	}
	err := snap.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("expected a multierror, got %T", err)
	}
	if got := len(merr.WrappedErrors()); got != 3 {
		t.Errorf("expected 3 problems, got %d (%v)", got, err)
	}
	if !errors.Is(err, ErrInvalidSnapshot) {
		t.Errorf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestMemStore_HasArtist(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(nil, model.GenreCatalog{"Rock": {"Queen"}})

	if !store.HasArtist(ctx, "Rock", "Queen") {
		t.Error("expected exact match")
	}
	if store.HasArtist(ctx, "Rock", "queen") {
		t.Error("membership must be case-sensitive")
	}
	if store.HasArtist(ctx, "rock", "Queen") {
		t.Error("genre lookup must be case-sensitive")
	}
	if store.HasArtist(ctx, "Jazz", "Queen") {
		t.Error("expected no match in an absent genre")
	}
}

func TestMemStore_AppendArtist(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(nil, model.GenreCatalog{"Rock": {"Queen"}})
	before := store.Genres(ctx)

	if err := store.AppendArtist(ctx, "Rock", "Muse"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.AppendArtist(ctx, "Metal", "Metallica"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after := store.Genres(ctx)
	if got := after["Rock"]; len(got) != 2 || got[1] != "Muse" {
		t.Errorf("expected Muse appended last, got %v", got)
	}
	if got := after["Metal"]; len(got) != 1 || got[0] != "Metallica" {
		t.Errorf("expected new genre Metal, got %v", got)
	}
	if !store.HasArtist(ctx, "Metal", "Metallica") {
		t.Error("expected index to include the new artist")
	}

	// earlier views are never modified
	if len(before["Rock"]) != 1 {
		t.Errorf("previous view changed: %v", before["Rock"])
	}
	if _, ok := before["Metal"]; ok {
		t.Error("previous view gained a genre")
	}

	if err := store.AppendArtist(ctx, "", "x"); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("expected ErrEmptyValue, got %v", err)
	}
	if err := store.AppendArtist(ctx, "Rock", ""); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("expected ErrEmptyValue, got %v", err)
	}
}

func TestMemStore_WriteBack(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, sampleSnapshot)

	store, err := Load(ctx, path, WithWriteBack(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.AppendArtist(ctx, "Jazz", "John Coltrane"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := Load(ctx, path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reloaded.HasArtist(ctx, "Jazz", "John Coltrane") {
		t.Error("expected the appended artist to be persisted")
	}
	if got := len(reloaded.People(ctx)); got != 2 {
		t.Errorf("expected people to survive write-back, got %d", got)
	}
}

func TestMemStore_WriteBackFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, sampleSnapshot)

	store, err := Load(ctx, path, WithWriteBack(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// a path inside a removed directory cannot be written
	store.path = filepath.Join(t.TempDir(), "gone", "data.json")

	err = store.AppendArtist(ctx, "Rock", "Muse")
	if !errors.Is(err, ErrPersistCatalog) {
		t.Fatalf("expected ErrPersistCatalog, got %v", err)
	}
	if store.HasArtist(ctx, "Rock", "Muse") {
		t.Error("failed persist must not change the catalog")
	}
	if got := store.Counts(ctx).Artists; got != 3 {
		t.Errorf("expected 3 artists, got %d", got)
	}
}

func TestMemStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(nil, model.GenreCatalog{})

	const writers = 10
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_ = store.AppendArtist(ctx, "Rock", string(rune('A'+w))+string(rune('a'+i%26)))
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				for range store.Genres(ctx)["Rock"] {
				}
				store.HasArtist(ctx, "Rock", "Aa")
			}
		}()
	}
	wg.Wait()

	if got := store.Counts(ctx).Artists; got != writers*perWriter {
		t.Errorf("expected %d artists, got %d", writers*perWriter, got)
	}
}
