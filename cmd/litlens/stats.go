package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abdulachik/litlens/internal/config"
	"github.com/abdulachik/litlens/internal/db"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long:  `Display statistics about books and cached analyses in the database.`,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
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

	// Ensure migrations are run
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	books, err := store.ListBooks(ctx)
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}

	totalAnalyses, err := store.CountAnalyses(ctx)
	if err != nil {
		return fmt.Errorf("count analyses: %w", err)
	}

	byKind, err := store.CountAnalysesByKind(ctx)
	if err != nil {
		slog.Warn("failed to count analyses by kind", "error", err)
	}

	fmt.Println("=== LitLens Statistics ===")
	fmt.Println()
	fmt.Printf("Database: %s\n", cfg.DatabasePath)
	fmt.Println()
	fmt.Printf("Books: %d\n", len(books))
	for _, b := range books {
		language := "unknown"
		if b.Language.Valid {
			language = b.Language.String
		}
		fmt.Printf("  %s: %d chapters, %d chars, language %s\n",
			b.Title, b.ChapterCount, b.CharCount, language)
	}
	fmt.Println()

	fmt.Printf("Analyses: %d\n", totalAnalyses)
	for _, row := range byKind {
		fmt.Printf("  %s: %d\n", row.Kind, row.Count)
	}

	return nil
}
