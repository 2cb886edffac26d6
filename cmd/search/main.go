// Command search resolves queries against the portal's navigation tables
// without starting the server. Pass queries as arguments.
package main

import (
	"fmt"
	"os"

	"howdy-portal-be/pkg/navigation"
	"howdy-portal-be/pkg/search"

	"github.com/fatih/color"
)

func main() {
	categories := navigation.Taxonomy()
	synonyms := navigation.Synonyms()
	if err := navigation.Validate(categories, synonyms); err != nil {
		color.Red("navigation tables are inconsistent: %v", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		fmt.Println("usage: search <query> [query...]")
		os.Exit(2)
	}

	kindColor := map[search.Kind]*color.Color{
		search.KindCategory:   color.New(color.FgCyan, color.Bold),
		search.KindService:    color.New(color.FgGreen),
		search.KindSuggestion: color.New(color.FgYellow),
	}

	for _, q := range os.Args[1:] {
		color.New(color.Bold).Printf("%q\n", q)
		results := search.Resolve(q, categories, synonyms)
		if len(results) == 0 {
			color.Red("  no results")
			continue
		}
		for _, r := range results {
			kindColor[r.Kind].Printf("  %-10s", r.Kind)
			fmt.Printf(" %-26s -> %s", r.Title, r.TargetCategoryID)
			if r.Subtitle != "" && r.Kind == search.KindSuggestion {
				fmt.Printf("  (%s)", r.Subtitle)
			}
			fmt.Println()
		}
	}
}
