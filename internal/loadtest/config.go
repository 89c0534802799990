// Package loadtest seeds synthetic catalogs and drives a running server with
// concurrent searches, checking every response against the ranking rules.
package loadtest

import (
	"time"

	"github.com/okian/tastesearch/pkg/logger"
)

// SeedConfig controls synthetic catalog generation.
type SeedConfig struct {
	People          int    // Number of people to generate
	Genres          int    // Number of genres in the artist catalog
	ArtistsPerGenre int    // Artists listed under each genre
	Seed            uint64 // PRNG seed; equal seeds give equal catalogs
	Out             string // Snapshot file to write
}

// DefaultSeedConfig returns a small but non-trivial catalog shape.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		People:          1000,
		Genres:          12,
		ArtistsPerGenre: 8,
		Seed:            1,
		Out:             "data.json",
	}
}

// Config holds configuration for a load run against a live server.
type Config struct {
	BaseURL string        // Base URL of the service
	Queries int           // Number of search requests to issue
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Terms   []string      // Query texts cycled through by the workers
	Probe   bool          // Exercise the add-artist conflict path
	Verbose bool          // Log every verified response
	Logger  logger.Logger // Defaults to logger.Get()
}

// DefaultTerms are short substrings that hit most synthetic records.
var DefaultTerms = []string{"a", "e", "o", "an", "ro", "the", "in", "ar"}

// DefaultConfig returns the settings used when no flags are given.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:3000",
		Queries: 2000,
		Workers: 8,
		Timeout: 10 * time.Second,
		Terms:   DefaultTerms,
		Probe:   true,
	}
}

// Stats holds run statistics.
type Stats struct {
	Searches   int
	Results    int
	Failed     int
	Violations int
	Epoch      uint64
	Duration   time.Duration
}
