package loadtest

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/tastesearch/internal/domain/model"
	"github.com/okian/tastesearch/internal/domain/scoring"
)

var weights = map[model.MatchCategory]int{
	model.MatchName:     scoring.NameWeight,
	model.MatchGenre:    scoring.GenreWeight,
	model.MatchMovie:    scoring.MovieWeight,
	model.MatchLocation: scoring.LocationWeight,
	model.MatchArtist:   scoring.ArtistWeight,
}

// Verify checks a search reply against the ranking rules for q and returns
// every violation found. Name ordering is checked with the root collation,
// which is what the server uses unless configured with another locale.
func Verify(results []model.SearchResult, q model.Query) error {
	var errs *multierror.Error

	for i, r := range results {
		if err := verifyResult(r); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("result %d (%s): %w", i, r.Name, err))
		}
	}

	rule, ascending := q.Ordering()
	coll := collate.New(language.Und)
	for i := 1; i < len(results); i++ {
		if c := compare(coll, results[i-1], results[i], rule, ascending); c > 0 {
			errs = multierror.Append(errs, fmt.Errorf("results %d and %d out of %s order: %s (%d) before %s (%d)",
				i-1, i, orderName(rule, ascending), results[i-1].Name, results[i-1].Score, results[i].Name, results[i].Score))
		}
	}
	return errs.ErrorOrNil()
}

// verifyResult checks that the score is positive and equals the weights of
// its matches, listed once each in evaluation order.
func verifyResult(r model.SearchResult) error {
	if r.Score <= 0 {
		return fmt.Errorf("non-positive score %d", r.Score)
	}
	sum, next := 0, 0
	for _, m := range r.Matches {
		w, ok := weights[m]
		if !ok {
			return fmt.Errorf("unknown match category %q", m)
		}
		pos := indexOf(m)
		if pos < next {
			return fmt.Errorf("matches %v not in evaluation order", r.Matches)
		}
		next = pos + 1
		sum += w
	}
	if sum != r.Score {
		return fmt.Errorf("score %d does not equal match weights %d", r.Score, sum)
	}
	return nil
}

// compare returns a positive value when a must not precede b.
func compare(coll *collate.Collator, a, b model.SearchResult, rule model.SortRule, ascending bool) int {
	names := func(x, y model.SearchResult) int {
		if n := coll.CompareString(x.Name, y.Name); n != 0 {
			return n
		}
		return strings.Compare(x.Name, y.Name)
	}
	switch {
	case rule == model.SortByName && ascending:
		if n := names(a, b); n != 0 {
			return n
		}
		return a.Score - b.Score
	case rule == model.SortByName:
		if n := names(b, a); n != 0 {
			return n
		}
		return b.Score - a.Score
	case ascending:
		if a.Score != b.Score {
			return a.Score - b.Score
		}
		return names(b, a)
	default:
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return names(a, b)
	}
}

func indexOf(m model.MatchCategory) int {
	for i, c := range model.MatchCategories {
		if c == m {
			return i
		}
	}
	return -1
}

func orderName(rule model.SortRule, ascending bool) string {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	return rule.String() + " " + dir
}
