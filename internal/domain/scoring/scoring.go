// Package scoring ranks catalog people against a free-text query.
//
// Matching is case-insensitive substring containment over a fixed set of
// attributes. Each attribute contributes at most once per person:
//
//	name +4, genre +1, movie +1, location +1, artist +2
//
// People scoring zero are dropped and the rest are ordered by the query's
// sort rule.
package scoring

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/tastesearch/internal/domain/model"
	"github.com/okian/tastesearch/pkg/logger"
	"github.com/okian/tastesearch/pkg/metrics"
)

// Attribute weights.
const (
	NameWeight     = 4
	GenreWeight    = 1
	MovieWeight    = 1
	LocationWeight = 1
	ArtistWeight   = 2
)

// Ranker scores and orders a population for a query.
type Ranker interface {
	// Rank never fails; a query matching nobody yields an empty slice.
	Rank(ctx context.Context, people []model.Person, genres model.GenreCatalog, q model.Query) []model.SearchResult
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-person debug output.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithLocale sets the collation locale used to compare names.
func WithLocale(tag language.Tag) Option {
	return func(e *Engine) {
		e.locale = tag
	}
}

// Engine implements Ranker. It holds no catalog state and is safe for
// concurrent use.
type Engine struct {
	logger logger.Logger
	locale language.Tag
	// collate.Collator is not safe for concurrent use, so each Rank call
	// borrows one from the pool.
	collators sync.Pool
}

// NewEngine creates a scoring engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger: logger.Nop(),
		locale: language.Und,
	}
	for _, opt := range opts {
		opt(e)
	}
	tag := e.locale
	e.collators.New = func() any {
		return collate.New(tag)
	}
	return e
}

// Rank scores every person, keeps those with a positive score and orders
// them according to q.
func (e *Engine) Rank(ctx context.Context, people []model.Person, genres model.GenreCatalog, q model.Query) []model.SearchResult {
	start := time.Now()
	needle := strings.ToLower(q.Text)

	results := make([]model.SearchResult, 0)
	for i := range people {
		p := &people[i]
		score, matches := Score(p, genres, needle)
		if score == 0 {
			e.logger.Debug(ctx, "person has no matches", logger.String("person", p.Name))
			continue
		}
		e.logger.Debug(ctx, "person matched",
			logger.String("person", p.Name),
			logger.Int("score", score),
			logger.Any("matches", matches),
		)
		results = append(results, model.SearchResult{Name: p.Name, Score: score, Matches: matches})
	}

	c := e.collators.Get().(*collate.Collator)
	rule, ascending := q.Ordering()
	sortResults(c, results, rule, ascending)
	e.collators.Put(c)

	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordSearchResults(len(results))
	return results
}

// Score evaluates a single person. needle must already be lower-cased.
// Matches are returned in evaluation order with each category at most once.
func Score(p *model.Person, genres model.GenreCatalog, needle string) (int, []model.MatchCategory) {
	score := 0
	var matches []model.MatchCategory

	if containsFold(p.Name, needle) {
		score += NameWeight
		matches = append(matches, model.MatchName)
	}
	if anyContains(p.MusicGenres, needle) {
		score += GenreWeight
		matches = append(matches, model.MatchGenre)
	}
	if anyContains(p.Movies, needle) {
		score += MovieWeight
		matches = append(matches, model.MatchMovie)
	}
	if containsFold(p.Location, needle) {
		score += LocationWeight
		matches = append(matches, model.MatchLocation)
	}
	if artistMatch(p.MusicGenres, genres, needle) {
		score += ArtistWeight
		matches = append(matches, model.MatchArtist)
	}
	return score, matches
}

// artistMatch walks the person's genres in order and stops at the first
// catalog artist containing needle.
func artistMatch(personGenres []string, genres model.GenreCatalog, needle string) bool {
	for _, g := range personGenres {
		artists, ok := genres.Artists(g)
		if !ok {
			continue
		}
		if anyContains(artists, needle) {
			return true
		}
	}
	return false
}

func anyContains(values []string, needle string) bool {
	for _, v := range values {
		if containsFold(v, needle) {
			return true
		}
	}
	return false
}

func containsFold(value, needle string) bool {
	return strings.Contains(strings.ToLower(value), needle)
}
