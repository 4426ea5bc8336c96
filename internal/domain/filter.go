package domain

import "fmt"

// PopularityOp is a popularity comparison operator.
type PopularityOp string

const (
	PopularityGreater PopularityOp = "gt"
	PopularityLess    PopularityOp = "lt"
	PopularityEqual   PopularityOp = "et"
)

// ErrUnknownOperator is returned by ParsePopularityOp.
type ErrUnknownOperator struct {
	Op string
}

func (e *ErrUnknownOperator) Error() string {
	return fmt.Sprintf("unknown popularity operator %q", e.Op)
}

// ParsePopularityOp validates a raw operator from a query string.
func ParsePopularityOp(s string) (PopularityOp, error) {
	switch op := PopularityOp(s); op {
	case PopularityGreater, PopularityLess, PopularityEqual:
		return op, nil
	default:
		return "", &ErrUnknownOperator{Op: s}
	}
}

// GameFilter narrows a per-user game query. Zero fields are not applied;
// all present conditions are combined with AND.
type GameFilter struct {
	Genre      string
	Popularity *int
	Op         PopularityOp
}

// HasPopularity reports whether the popularity comparison is set.
func (f GameFilter) HasPopularity() bool {
	return f.Popularity != nil && f.Op != ""
}

// Matches evaluates the filter against g in memory.
func (f GameFilter) Matches(g Game) bool {
	if f.Genre != "" && g.Genre != f.Genre {
		return false
	}
	if !f.HasPopularity() {
		return true
	}
	switch f.Op {
	case PopularityGreater:
		return g.Popularity > *f.Popularity
	case PopularityLess:
		return g.Popularity < *f.Popularity
	case PopularityEqual:
		return g.Popularity == *f.Popularity
	}
	return false
}
