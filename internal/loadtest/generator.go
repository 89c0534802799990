package loadtest

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/okian/tastesearch/internal/adapters/repository"
	"github.com/okian/tastesearch/internal/domain/model"
	"github.com/okian/tastesearch/pkg/logger"
)

// ErrInvalidSeedConfig is returned for non-positive catalog dimensions.
var ErrInvalidSeedConfig = errors.New("invalid seed config")

var (
	firstNames = []string{"Ana", "Bob", "Carla", "Dmitri", "Élodie", "Farah", "Goran", "Hana", "Ivan", "Jane", "John", "Kofi", "Lena", "Mateo", "Noor", "Oskar"}
	lastNames  = []string{"Smith", "Doe", "Stone", "Rossi", "Nakamura", "Okafor", "Larsen", "Novak", "García", "Ahmed", "Berg", "Silva"}
	genreNames = []string{"Rock", "Pop", "Jazz", "Blues", "Metal", "Folk", "Soul", "Punk", "Reggae", "Techno", "Country", "Opera", "Funk", "Disco", "Grunge", "Ambient"}
	movies     = []string{"The Godfather", "Heat", "Alien", "Casablanca", "Amélie", "Parasite", "Inception", "Vertigo", "Rashomon", "Arrival", "The Matrix", "Jaws"}
	locations  = []string{"New York", "Boston", "Lisbon", "Oslo", "Tokyo", "Lagos", "Berlin", "Madrid", "Toronto", "Seoul"}
	artistWord = []string{"The", "Black", "Silver", "Echo", "Velvet", "Neon", "Iron", "Golden", "Lonely", "Wild"}
	artistNoun = []string{"Keys", "Rivers", "Foxes", "Machines", "Saints", "Owls", "Tides", "Lanterns"}
)

const (
	maxGenresPerPerson = 3
	maxMoviesPerPerson = 3
)

// GenerateSnapshot builds a deterministic synthetic catalog. People names and
// the artists of each genre are unique.
func GenerateSnapshot(cfg SeedConfig) (*repository.Snapshot, error) {
	if cfg.People <= 0 || cfg.Genres <= 0 || cfg.ArtistsPerGenre <= 0 {
		return nil, fmt.Errorf("%w: people=%d genres=%d artists=%d",
			ErrInvalidSeedConfig, cfg.People, cfg.Genres, cfg.ArtistsPerGenre)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	genres := make([]string, cfg.Genres)
	for i := range genres {
		genres[i] = suffixed(genreNames[i%len(genreNames)], i/len(genreNames))
	}

	catalog := make(model.GenreCatalog, len(genres))
	for _, g := range genres {
		seen := mapset.NewThreadUnsafeSet[string]()
		artists := make([]string, 0, cfg.ArtistsPerGenre)
		for n := 0; len(artists) < cfg.ArtistsPerGenre; n++ {
			name := pick(rng, artistWord) + " " + pick(rng, artistNoun)
			if n >= len(artistWord)*len(artistNoun) {
				name = suffixed(name, n)
			}
			if seen.Add(name) {
				artists = append(artists, name)
			}
		}
		catalog[g] = artists
	}

	names := mapset.NewThreadUnsafeSet[string]()
	people := make([]model.Person, 0, cfg.People)
	for i := 0; len(people) < cfg.People; i++ {
		name := pick(rng, firstNames) + " " + pick(rng, lastNames)
		if !names.Add(name) {
			name = suffixed(name, i)
			if !names.Add(name) {
				continue
			}
		}
		people = append(people, model.Person{
			Name:        name,
			MusicGenres: sample(rng, genres, 1+rng.IntN(maxGenresPerPerson)),
			Movies:      sample(rng, movies, rng.IntN(maxMoviesPerPerson+1)),
			Location:    pick(rng, locations),
		})
	}

	snap := &repository.Snapshot{People: people, MusicArtists: catalog}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Seed generates a catalog and writes it to cfg.Out.
func Seed(ctx context.Context, cfg SeedConfig) error {
	snap, err := GenerateSnapshot(cfg)
	if err != nil {
		return err
	}
	if err := repository.WriteSnapshot(ctx, cfg.Out, snap); err != nil {
		return err
	}
	logger.Get().Info(ctx, "catalog seeded",
		logger.String("path", cfg.Out),
		logger.Int("people", len(snap.People)),
		logger.Int("genres", len(snap.MusicArtists)))
	return nil
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

// sample returns up to n distinct values in random order.
func sample(rng *rand.Rand, values []string, n int) []string {
	n = min(n, len(values))
	out := make([]string, 0, n)
	for _, i := range rng.Perm(len(values))[:n] {
		out = append(out, values[i])
	}
	return out
}

func suffixed(s string, n int) string {
	if n == 0 {
		return s
	}
	return s + " " + strconv.Itoa(n)
}
