package model

import (
	"errors"
	"fmt"
)

// Sentinel parse errors.
var (
	ErrInvalidSortRule  = errors.New("invalid sort rule")
	ErrInvalidDirection = errors.New("invalid sort direction")
)

// SortRule selects the primary ordering key.
type SortRule int

// Sort rules. SortUnset yields the default ordering.
const (
	SortUnset SortRule = iota
	SortByName
	SortByScore
)

func (r SortRule) String() string {
	switch r {
	case SortByName:
		return "name"
	case SortByScore:
		return "score"
	default:
		return ""
	}
}

// ParseSortRule parses the boundary value; "" means unset.
func ParseSortRule(s string) (SortRule, error) {
	switch s {
	case "":
		return SortUnset, nil
	case "name":
		return SortByName, nil
	case "score":
		return SortByScore, nil
	}
	return SortUnset, fmt.Errorf("%w: %q (want name or score)", ErrInvalidSortRule, s)
}

// Direction is the optional ascending flag. It is tri-state so that an
// absent flag and an explicit one never share a cache entry.
type Direction int

// Directions.
const (
	DirectionUnset Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "true"
	case Descending:
		return "false"
	default:
		return ""
	}
}

// ParseDirection parses the boundary "true"/"false" flag; "" means unset.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "":
		return DirectionUnset, nil
	case "true":
		return Ascending, nil
	case "false":
		return Descending, nil
	}
	return DirectionUnset, fmt.Errorf("%w: %q (want true or false)", ErrInvalidDirection, s)
}

// Query is the full input of a ranking request. It is comparable and is
// used directly as the result cache key.
type Query struct {
	Text      string
	Sort      SortRule
	Direction Direction
}

// Ordering resolves the effective (rule, ascending) pair.
// A rule without a direction uses its natural direction: names ascending,
// scores descending. A direction without a rule keeps the default ordering.
func (q Query) Ordering() (SortRule, bool) {
	switch q.Sort {
	case SortByName:
		return SortByName, q.Direction != Descending
	case SortByScore:
		return SortByScore, q.Direction == Ascending
	default:
		return SortByScore, false
	}
}
