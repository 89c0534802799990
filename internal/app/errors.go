package service

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict is matched by every ConflictError.
	ErrConflict = errors.New("artist already exists")
	// ErrEmptyQuery is returned when the search text is empty.
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrInvalidArtist is returned when genre or artist is empty.
	ErrInvalidArtist = errors.New("genre and artist must not be empty")
)

// ConflictError reports that an artist is already listed under a genre.
type ConflictError struct {
	Genre  string
	Artist string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(`Artist "%s" already exists in genre "%s".`, e.Artist, e.Genre)
}

// Is makes errors.Is(err, ErrConflict) true for any ConflictError.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
