package search

import "strings"

// Query markers: a leading quote pins a token to exact substring
// matching, a leading dash excludes documents containing it.
const (
	exactMarker   = "'"
	excludeMarker = "-"
)

// QueryPlan is the parsed form of a raw query: include terms (ANDed),
// exact substring terms, and exclusion terms. Immutable once parsed.
type QueryPlan struct {
	Include []string
	Exact   []string
	Exclude []string
}

// Empty reports whether the plan can never match anything: no include
// and no exact terms (an all-exclusion query yields no results).
func (p QueryPlan) Empty() bool {
	return len(p.Include) == 0 && len(p.Exact) == 0
}

// ParseQuery splits raw query text on whitespace and classifies each
// token by its marker prefix. Bare markers are dropped.
func ParseQuery(raw string) QueryPlan {
	var plan QueryPlan

	for _, token := range strings.Fields(raw) {
		switch {
		case strings.HasPrefix(token, exactMarker):
			if term := strings.TrimPrefix(token, exactMarker); term != "" {
				plan.Exact = append(plan.Exact, term)
			}
		case strings.HasPrefix(token, excludeMarker):
			if term := strings.TrimPrefix(token, excludeMarker); term != "" {
				plan.Exclude = append(plan.Exclude, term)
			}
		default:
			plan.Include = append(plan.Include, token)
		}
	}

	return plan
}
