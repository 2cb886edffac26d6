package navigation

import (
	"fmt"
)

// SynonymEntry maps a colloquial keyword to a category id or sub-item name.
type SynonymEntry struct {
	Keyword string `json:"keyword"`
	Target  string `json:"target"`
}

var synonyms = []SynonymEntry{
	{Keyword: "pay", Target: "Finance & Tuition"},
	{Keyword: "money", Target: "Finance & Tuition"},
	{Keyword: "bill", Target: "Pay Bill"},
	{Keyword: "fafsa", Target: "Financial Aid Portal"},
	{Keyword: "taxes", Target: "1098-T Tax Form"},
	{Keyword: "grades", Target: "View Grades"},
	{Keyword: "gpa", Target: "View Grades"},
	{Keyword: "degree audit", Target: "UGDP"},
	{Keyword: "planner", Target: "Aggie Schedule Builder"},
	{Keyword: "classes", Target: "Search Classes"},
	{Keyword: "courses", Target: "Search Classes"},
	{Keyword: "waitlist", Target: "Registration Status"},
	{Keyword: "register", Target: "Registration"},
	{Keyword: "books", Target: "Library"},
	{Keyword: "evans", Target: "Library"},
	{Keyword: "bus", Target: "Transport"},
	{Keyword: "wifi", Target: "IT Help"},
	{Keyword: "password", Target: "IT Help"},
	{Keyword: "clubs", Target: "Student Orgs"},
	{Keyword: "gym", Target: "Rec Sports"},
	{Keyword: "tickets", Target: "MSC Box Office"},
	{Keyword: "football", Target: "MSC Box Office"},
	{Keyword: "dorm", Target: "Housing Portal"},
	{Keyword: "food", Target: "Dining & Meal Plans"},
	{Keyword: "meal swipes", Target: "Dining & Meal Plans"},
	{Keyword: "car", Target: "Parking Services"},
}

// Synonyms returns a copy of the synonym table in declaration order.
func Synonyms() []SynonymEntry {
	return append([]SynonymEntry(nil), synonyms...)
}

// Validate checks that every synonym target resolves to exactly one taxonomy
// node. Category ids and sub-item names share one namespace.
func Validate(categories []Category, entries []SynonymEntry) error {
	nodes := make(map[string]int)
	for _, c := range categories {
		nodes[c.ID]++
		for _, item := range c.SubItems {
			nodes[item]++
		}
	}

	for _, e := range entries {
		switch n := nodes[e.Target]; {
		case n == 0:
			return fmt.Errorf("synonym %q: target %q does not resolve to any taxonomy node", e.Keyword, e.Target)
		case n > 1:
			return fmt.Errorf("synonym %q: target %q resolves to %d taxonomy nodes", e.Keyword, e.Target, n)
		}
	}
	return nil
}
