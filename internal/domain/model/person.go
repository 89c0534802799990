// Package model contains domain models passed between layers.
package model

// Person is a catalog record scored by search queries.
// Fields mirror the persisted snapshot layout.
type Person struct {
	Name        string   `json:"name"`
	MusicGenres []string `json:"musicGenres"`
	Movies      []string `json:"movies"`
	Location    string   `json:"location"`
}

// GenreCatalog maps a genre name to its artists in insertion order.
type GenreCatalog map[string][]string

// Artists returns the artists of genre and whether the genre exists.
func (g GenreCatalog) Artists(genre string) ([]string, bool) {
	artists, ok := g[genre]
	return artists, ok
}

// Clone returns a copy whose artist slices do not alias g.
func (g GenreCatalog) Clone() GenreCatalog {
	out := make(GenreCatalog, len(g))
	for genre, artists := range g {
		out[genre] = append([]string(nil), artists...)
	}
	return out
}

// MatchCategory is one of the fixed scoring dimensions.
type MatchCategory string

// Match categories in evaluation order.
const (
	MatchName     MatchCategory = "name"
	MatchGenre    MatchCategory = "genre"
	MatchMovie    MatchCategory = "movie"
	MatchLocation MatchCategory = "location"
	MatchArtist   MatchCategory = "artist"
)

// MatchCategories lists every category in evaluation order.
var MatchCategories = []MatchCategory{MatchName, MatchGenre, MatchMovie, MatchLocation, MatchArtist}

// SearchResult is one ranked person for a query.
// Results are built once per evaluation and never mutated afterwards; the
// cache shares them, so callers receive copies made with CloneResults.
type SearchResult struct {
	Name    string          `json:"name"`
	Score   int             `json:"score"`
	Matches []MatchCategory `json:"matches"`
}

// Has reports whether the result recorded category c.
func (r SearchResult) Has(c MatchCategory) bool {
	for _, m := range r.Matches {
		if m == c {
			return true
		}
	}
	return false
}

// CloneResults deep-copies results, including each Matches slice.
func CloneResults(results []SearchResult) []SearchResult {
	out := make([]SearchResult, len(results))
	for i, r := range results {
		r.Matches = append([]MatchCategory(nil), r.Matches...)
		out[i] = r
	}
	return out
}
