// Package repository holds the in-memory catalog of people and genres.
package repository

import (
	"context"

	"github.com/okian/tastesearch/internal/domain/model"
)

// Counts summarizes catalog size.
type Counts struct {
	People  int `json:"people"`
	Genres  int `json:"genres"`
	Artists int `json:"artists"`
}

// Store provides read access to the catalog and its single mutation.
type Store interface {
	// People returns the population. Callers must treat it as read-only.
	People(ctx context.Context) []model.Person
	// Genres returns the genre catalog. Callers must treat it as read-only;
	// a view handed out is never modified by later mutations.
	Genres(ctx context.Context) model.GenreCatalog
	// HasArtist reports exact, case-sensitive membership of artist in genre.
	HasArtist(ctx context.Context, genre, artist string) bool
	// AppendArtist appends artist to genre, creating the genre if absent.
	// It does not check for duplicates.
	AppendArtist(ctx context.Context, genre, artist string) error
	// Counts returns the catalog size.
	Counts(ctx context.Context) Counts
}
