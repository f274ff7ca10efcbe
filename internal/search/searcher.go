package search

import (
	"sort"
	"strings"

	"github.com/bjeber/docfind/internal/docs"
	"github.com/bjeber/docfind/internal/snippet"
	"github.com/bjeber/docfind/internal/textindex"
)

// Weights are the per-tier score multipliers. Lower is a stronger
// reduction; a title hit should dominate a body-only hit.
type Weights struct {
	Title float64
	Meta  float64 // description and tags
	Body  float64
}

// DefaultWeights returns the standard tier multipliers.
func DefaultWeights() Weights {
	return Weights{Title: 0.1, Meta: 0.3, Body: 0.6}
}

// maxScore keeps every surviving result strictly below 1.0, so no hit
// is ever reported as maximally irrelevant.
const maxScore = 0.9999

// RankedResult is one scored search hit. Lower score means more
// relevant. Results are created fresh per query and never persisted.
type RankedResult struct {
	Doc   *docs.DocumentRecord
	Score float64

	// MatchedFields maps each matching term to the fields it hit.
	MatchedFields map[string][]string

	// Preview is the context window around the first match in the body.
	Preview string
}

// evaluate runs a parsed query against the index and document set:
// retrieve (AND-intersected index lookups), filter (exact and exclusion
// substring checks), score (multiplicative field tiers), rank (stable
// ascending), truncate.
func evaluate(idx textindex.Index, documents []*docs.DocumentRecord, plan QueryPlan, w Weights, limits snippet.Limits, limit int) ([]RankedResult, error) {
	if plan.Empty() {
		return nil, nil
	}

	// candidate id → term → matched fields; record map avoids
	// re-fetching documents across lookups.
	fieldsByDoc := map[string]map[string][]string{}
	records := map[string]*docs.DocumentRecord{}

	if len(plan.Include) == 0 {
		// Exact-only query: no include term drives retrieval, so the
		// substring filter runs over the full document set.
		for _, doc := range documents {
			fieldsByDoc[doc.Path] = map[string][]string{}
			records[doc.Path] = doc
		}
	} else {
		for i, term := range plan.Include {
			matches, err := idx.Search(term)
			if err != nil {
				return nil, err
			}

			seen := map[string]bool{}
			for _, m := range matches {
				seen[m.ID] = true

				if i == 0 {
					fieldsByDoc[m.ID] = map[string][]string{term: m.Fields}
					if rec, ok := idx.Get(m.ID); ok {
						records[m.ID] = rec
					}
					continue
				}

				if existing, ok := fieldsByDoc[m.ID]; ok {
					existing[term] = m.Fields
				}
			}

			// AND semantics: drop candidates the term did not match.
			if i > 0 {
				for id := range fieldsByDoc {
					if !seen[id] {
						delete(fieldsByDoc, id)
						delete(records, id)
					}
				}
			}
		}
	}

	var results []RankedResult
	for id, termFields := range fieldsByDoc {
		doc := records[id]
		if doc == nil {
			continue
		}

		haystack := concatFields(doc)

		if !passesExact(haystack, plan.Exact) {
			continue
		}
		if excluded(haystack, plan.Exclude) {
			continue
		}

		for _, term := range plan.Exact {
			termFields[term] = exactFields(doc, term)
		}

		results = append(results, RankedResult{
			Doc:           doc,
			Score:         scoreDocument(termFields, w),
			MatchedFields: termFields,
			Preview:       preview(doc, plan, limits),
		})
	}

	// Deterministic input order before the stable score sort.
	sort.Slice(results, func(i, j int) bool {
		return results[i].Doc.Path < results[j].Doc.Path
	})
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// concatFields joins the searchable fields for substring filtering.
func concatFields(doc *docs.DocumentRecord) string {
	parts := []string{doc.Title, doc.Body, doc.Description}
	parts = append(parts, doc.Tags...)
	return strings.Join(parts, "\n")
}

// passesExact requires every exact term as a case-sensitive substring.
func passesExact(haystack string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

// excluded disqualifies on any case-insensitive exclusion hit.
func excluded(haystack string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	lower := strings.ToLower(haystack)
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// exactFields reports which tiers an exact term hit, for scoring.
func exactFields(doc *docs.DocumentRecord, term string) []string {
	var fields []string
	if strings.Contains(doc.Title, term) {
		fields = append(fields, textindex.FieldTitle)
	}
	if strings.Contains(doc.Description, term) {
		fields = append(fields, textindex.FieldDescription)
	}
	for _, tag := range doc.Tags {
		if strings.Contains(tag, term) {
			fields = append(fields, textindex.FieldTags)
			break
		}
	}
	if strings.Contains(doc.Body, term) {
		fields = append(fields, textindex.FieldBody)
	}
	return fields
}

// scoreDocument starts at 1.0 (worst) and multiplies in the strongest
// tier factor for every matching term. Terms that matched nothing leave
// the score unchanged. The result is clamped just under 1.0.
func scoreDocument(termFields map[string][]string, w Weights) float64 {
	score := 1.0

	for _, fields := range termFields {
		factor := bestFactor(fields, w)
		if factor > 0 {
			score *= factor
		}
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}

// bestFactor picks the strongest (smallest) tier among matched fields.
func bestFactor(fields []string, w Weights) float64 {
	best := 0.0
	for _, field := range fields {
		var f float64
		switch field {
		case textindex.FieldTitle:
			f = w.Title
		case textindex.FieldDescription, textindex.FieldTags:
			f = w.Meta
		case textindex.FieldBody:
			f = w.Body
		default:
			continue
		}
		if best == 0 || f < best {
			best = f
		}
	}
	return best
}

// preview derives the context window around the first located term.
// Title-only matches fall back to the top of the body.
func preview(doc *docs.DocumentRecord, plan QueryPlan, limits snippet.Limits) string {
	offset := -1

	for _, term := range plan.Exact {
		if idx := strings.Index(doc.Body, term); idx >= 0 {
			offset = idx
			break
		}
	}
	if offset < 0 {
		lowerBody := strings.ToLower(doc.Body)
		for _, term := range plan.Include {
			if idx := strings.Index(lowerBody, strings.ToLower(term)); idx >= 0 {
				offset = idx
				break
			}
		}
	}
	if offset < 0 {
		offset = 0
	}

	return snippet.Extract(doc.Body, offset, limits).Text
}
