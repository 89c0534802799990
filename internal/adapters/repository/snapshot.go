package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/okian/tastesearch/internal/domain/model"
)

// snapshotFilePermission is applied to write-back files.
const snapshotFilePermission = 0o644

// Snapshot is the persisted catalog layout.
type Snapshot struct {
	People       []model.Person     `json:"people"`
	MusicArtists model.GenreCatalog `json:"musicArtists"`
}

// ReadSnapshot decodes and validates the snapshot at path.
func ReadSnapshot(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrLoadCatalog, path, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}
	snap.normalize()
	return &snap, nil
}

// Validate reports every structural problem at once.
func (s *Snapshot) Validate() error {
	var errs *multierror.Error
	for i, p := range s.People {
		if p.Name == "" {
			errs = multierror.Append(errs, fmt.Errorf("%w: person %d has an empty name", ErrInvalidSnapshot, i))
		}
	}
	for genre, artists := range s.MusicArtists {
		if genre == "" {
			errs = multierror.Append(errs, fmt.Errorf("%w: empty genre name", ErrInvalidSnapshot))
		}
		for j, a := range artists {
			if a == "" {
				errs = multierror.Append(errs, fmt.Errorf("%w: genre %q artist %d is empty", ErrInvalidSnapshot, genre, j))
			}
		}
	}
	return errs.ErrorOrNil()
}

// normalize replaces absent collections with empty ones.
func (s *Snapshot) normalize() {
	if s.People == nil {
		s.People = []model.Person{}
	}
	if s.MusicArtists == nil {
		s.MusicArtists = model.GenreCatalog{}
	}
	for i := range s.People {
		if s.People[i].MusicGenres == nil {
			s.People[i].MusicGenres = []string{}
		}
		if s.People[i].Movies == nil {
			s.People[i].Movies = []string{}
		}
	}
}

// WriteSnapshot writes snap to path atomically (temp file + rename).
func WriteSnapshot(_ context.Context, path string, snap *Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersistCatalog, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistCatalog, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrPersistCatalog, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistCatalog, err)
	}
	if err := os.Chmod(tmpName, snapshotFilePermission); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistCatalog, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistCatalog, err)
	}
	return nil
}
