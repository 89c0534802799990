package scoring

import (
	"bytes"
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"

	"github.com/okian/tastesearch/internal/domain/model"
)

// ranked pairs a result with its collation key.
type ranked struct {
	result model.SearchResult
	key    []byte
}

// sortResults orders results in place:
//
//	score desc (default): score desc, name asc
//	score asc:            score asc,  name desc
//	name asc:             name asc,   score asc
//	name desc:            name desc,  score desc
func sortResults(c *collate.Collator, results []model.SearchResult, rule model.SortRule, ascending bool) {
	if len(results) < 2 {
		return
	}

	var buf collate.Buffer
	items := make([]ranked, len(results))
	for i, r := range results {
		items[i] = ranked{result: r, key: c.KeyFromString(&buf, r.Name)}
	}

	var compare func(a, b ranked) int
	switch {
	case rule == model.SortByName && ascending:
		compare = func(a, b ranked) int {
			if n := compareNames(a, b); n != 0 {
				return n
			}
			return cmp.Compare(a.result.Score, b.result.Score)
		}
	case rule == model.SortByName:
		compare = func(a, b ranked) int {
			if n := compareNames(b, a); n != 0 {
				return n
			}
			return cmp.Compare(b.result.Score, a.result.Score)
		}
	case ascending:
		compare = func(a, b ranked) int {
			if n := cmp.Compare(a.result.Score, b.result.Score); n != 0 {
				return n
			}
			return compareNames(b, a)
		}
	default:
		compare = func(a, b ranked) int {
			if n := cmp.Compare(b.result.Score, a.result.Score); n != 0 {
				return n
			}
			return compareNames(a, b)
		}
	}

	slices.SortStableFunc(items, compare)
	for i := range items {
		results[i] = items[i].result
	}
}

// compareNames orders by collation key and falls back to byte order for
// names that collate equal, so the ordering is total.
func compareNames(a, b ranked) int {
	if n := bytes.Compare(a.key, b.key); n != 0 {
		return n
	}
	return strings.Compare(a.result.Name, b.result.Name)
}
