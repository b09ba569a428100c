package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abdulachik/litlens/internal/analysis"
	"github.com/abdulachik/litlens/internal/config"
	"github.com/abdulachik/litlens/internal/db"
	"github.com/spf13/cobra"
)

var resultsKind string

var resultsCmd = &cobra.Command{
	Use:   "results <book-title>",
	Short: "Show cached analyses for a book",
	Long: `Print the cached analysis results for a book, optionally filtered by
analysis kind.

Examples:
  litlens results "Moby Dick"
  litlens results "Dracula" --kind themes`,
	Args: cobra.ExactArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().StringVarP(&resultsKind, "kind", "k", "", "Show only this analysis kind")
	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	book, err := store.GetBookByTitle(ctx, args[0])
	if err != nil {
		return fmt.Errorf("book %q not found (run `litlens analyze` first)", args[0])
	}

	analyses, err := store.ListAnalyses(ctx, book.ID)
	if err != nil {
		return fmt.Errorf("list analyses: %w", err)
	}

	shown := 0
	for _, a := range analyses {
		if resultsKind != "" && a.Kind != resultsKind {
			continue
		}

		fmt.Printf("=== Chapter %d: %s (%s) ===\n", a.ChapterIndex+1, a.Kind, a.Model)

		var result analysis.Result
		if err := json.Unmarshal([]byte(a.ResultJSON), &result); err != nil {
			fmt.Printf("  (unreadable cache entry: %v)\n\n", err)
			continue
		}
		printResult(result)
		fmt.Println()
		shown++
	}

	if shown == 0 {
		fmt.Printf("No analyses cached for %q.\n", book.Title)
	}

	return nil
}

func printResult(r analysis.Result) {
	if r.Unparsed {
		fmt.Println("  (response could not be structured; raw text follows)")
		fmt.Println("  " + strings.ReplaceAll(strings.TrimSpace(r.Raw), "\n", "\n  "))
		return
	}

	switch r.Kind {
	case analysis.KindCharacters:
		for _, c := range r.Characters {
			fmt.Printf("  %s (importance %.1f): %s\n", c.Name, c.Importance, c.Description)
		}
	case analysis.KindSummary:
		fmt.Println("  " + strings.ReplaceAll(strings.TrimSpace(r.Summary), "\n", "\n  "))
	case analysis.KindSentiment:
		if r.Sentiment != nil {
			fmt.Printf("  Overall: %s\n", r.Sentiment.Overall)
			fmt.Printf("  Arc: %s -> %s -> %s\n", r.Sentiment.Beginning, r.Sentiment.Middle, r.Sentiment.End)
			fmt.Printf("  %s\n", r.Sentiment.Analysis)
		}
	case analysis.KindThemes:
		for _, th := range r.Themes {
			fmt.Printf("  %s: %s\n", th.Theme, th.Description)
		}
	case analysis.KindCharacterGraph:
		if r.Graph != nil {
			fmt.Printf("  %d characters, %d relationships\n", len(r.Graph.Nodes), len(r.Graph.Links))
			for _, l := range r.Graph.Links {
				fmt.Printf("  %s -[%s %.1f]-> %s\n", l.Source, l.Type, l.Strength, l.Target)
			}
		}
	}
}
