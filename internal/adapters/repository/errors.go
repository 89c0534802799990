package repository

import "errors"

// Sentinel kinds for catalog errors.
var (
	// ErrLoadCatalog wraps every failure to read or decode the snapshot at
	// startup. The process must not serve with an unloaded catalog.
	ErrLoadCatalog     = errors.New("load catalog failed")
	ErrInvalidSnapshot = errors.New("invalid catalog snapshot")
	ErrPersistCatalog  = errors.New("persist catalog failed")
	ErrEmptyValue      = errors.New("genre and artist must not be empty")
)
