package search

import (
	"fmt"
	"strings"

	"howdy-portal-be/pkg/navigation"
)

// Kind tags which pass produced a Result.
type Kind string

const (
	KindCategory   Kind = "category"
	KindService    Kind = "service"
	KindSuggestion Kind = "suggestion"
)

// Result is one row of the command palette. Selecting it navigates to
// TargetCategoryID; the caller owns what navigation means.
type Result struct {
	Kind             Kind   `json:"kind"`
	Title            string `json:"title"`
	Subtitle         string `json:"subtitle,omitempty"`
	TargetCategoryID string `json:"target_category_id"`
}

// Resolve matches query against the taxonomy and synonym table.
//
// Category ids and sub-items match when they contain the query; synonyms
// match when the keyword contains the query, so a partial keyword surfaces
// its suggestion. Results are ordered category, service, suggestion and
// deduplicated by title with the earliest entry kept.
func Resolve(query string, categories []navigation.Category, synonyms []navigation.SynonymEntry) []Result {
	q := normalize(query)
	if q == "" {
		return []Result{}
	}

	var raw []Result

	for _, c := range categories {
		if strings.Contains(strings.ToLower(c.ID), q) {
			raw = append(raw, Result{
				Kind:             KindCategory,
				Title:            c.ID,
				TargetCategoryID: c.ID,
			})
		}
	}

	for _, c := range categories {
		for _, item := range c.SubItems {
			if strings.Contains(strings.ToLower(item), q) {
				raw = append(raw, Result{
					Kind:             KindService,
					Title:            item,
					Subtitle:         c.ID,
					TargetCategoryID: c.ID,
				})
			}
		}
	}

	for _, s := range synonyms {
		if !strings.Contains(strings.ToLower(s.Keyword), q) {
			continue
		}
		categoryID, ok := navigation.Locate(categories, s.Target)
		if !ok {
			// Dangling synonyms are rejected by navigation.Validate at startup.
			continue
		}
		raw = append(raw, Result{
			Kind:             KindSuggestion,
			Title:            s.Target,
			Subtitle:         fmt.Sprintf("Matches \"%s\"", s.Keyword),
			TargetCategoryID: categoryID,
		})
	}

	return dedupe(raw)
}

func dedupe(results []Result) []Result {
	seen := make(map[string]struct{}, len(results))
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if _, dup := seen[r.Title]; dup {
			continue
		}
		seen[r.Title] = struct{}{}
		out = append(out, r)
	}
	return out
}
