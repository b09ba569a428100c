package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/abdulachik/litlens/internal/analysis"
	"github.com/abdulachik/litlens/internal/analyzer"
	"github.com/abdulachik/litlens/internal/config"
	"github.com/abdulachik/litlens/internal/db"
	"github.com/abdulachik/litlens/internal/llm"
	"github.com/abdulachik/litlens/internal/ratelimit"
	"github.com/spf13/cobra"
)

var (
	analyzeKind    string
	analyzeTitle   string
	analyzeChapter int
	analyzeForce   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <book-file>",
	Short: "Run an AI analysis over a book's chapters",
	Long: `Segment a book into chapters and run the chosen analysis over each one.
Results are cached in the database; chapters already analyzed are skipped
unless --force is given.

Analysis kinds: characters, summary, sentiment, themes, character-graph

Examples:
  litlens analyze books/moby-dick.txt --kind summary
  litlens analyze books/dracula.txt --kind sentiment --chapter 3
  litlens analyze books/frankenstein.txt --kind themes --force`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeKind, "kind", "k", "summary", "Analysis kind")
	analyzeCmd.Flags().StringVar(&analyzeTitle, "title", "", "Book title (defaults to the file name)")
	analyzeCmd.Flags().IntVarP(&analyzeChapter, "chapter", "c", 0, "Analyze only this chapter (1-based)")
	analyzeCmd.Flags().BoolVarP(&analyzeForce, "force", "f", false, "Re-analyze cached chapters")
	rootCmd.AddCommand(analyzeCmd)
}

// bookTitle derives a display title from a file path when none is given.
func bookTitle(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	words := strings.Split(base, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForAnalysis(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	kind, err := analysis.ParseKind(analyzeKind)
	if err != nil {
		return err
	}

	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	text, chapters, err := loadChapters(args[0])
	if err != nil {
		return err
	}

	title := analyzeTitle
	if title == "" {
		title = bookTitle(args[0])
	}

	client := llm.New(llm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Gate: ratelimit.New(ratelimit.Limits{
			PerMinute: cfg.MaxCallsPerMinute,
			PerHour:   cfg.MaxCallsPerHour,
			PerDay:    cfg.MaxCallsPerDay,
		}),
		MaxRetries: cfg.MaxRetries,
	})

	anl := analyzer.New(analyzer.Config{
		Client:     client,
		LargeModel: cfg.LargeModel,
		SmallModel: cfg.SmallModel,
	})

	language, err := anl.DetectLanguage(ctx, text)
	if err != nil {
		slog.Warn("language detection failed", "error", err)
		language = ""
	}

	book, err := store.UpsertBook(ctx, db.UpsertBookParams{
		Title:        title,
		Language:     sql.NullString{String: language, Valid: language != ""},
		CharCount:    int64(len(text)),
		ChapterCount: int64(len(chapters)),
	})
	if err != nil {
		return fmt.Errorf("save book: %w", err)
	}

	slog.Info("starting analysis",
		"book", title,
		"kind", kind,
		"chapters", len(chapters),
		"language", language,
	)

	analyzed := 0
	cached := 0

	for i, ch := range chapters {
		if analyzeChapter > 0 && i+1 != analyzeChapter {
			continue
		}

		if !analyzeForce {
			if _, err := store.GetAnalysis(ctx, book.ID, int64(i), string(kind)); err == nil {
				fmt.Printf("  ✓ %s (cached)\n", ch.Title)
				cached++
				continue
			}
		}

		result, err := anl.AnalyzeChapter(ctx, ch.Content, kind)
		if err != nil {
			var authErr *llm.AuthError
			if errors.As(err, &authErr) || errors.Is(err, llm.ErrMissingAPIKey) {
				return err
			}
			fmt.Printf("  ✗ %s: %v\n", ch.Title, err)
			slog.Error("chapter analysis failed", "chapter", i+1, "error", err)
			continue
		}

		resultJSON, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}

		if err := store.SaveAnalysis(ctx, db.SaveAnalysisParams{
			BookID:       book.ID,
			ChapterIndex: int64(i),
			Kind:         string(kind),
			Model:        cfg.LargeModel,
			Unparsed:     result.Unparsed,
			ResultJSON:   string(resultJSON),
		}); err != nil {
			return fmt.Errorf("save analysis: %w", err)
		}

		if result.Unparsed {
			fmt.Printf("  ~ %s (response kept raw)\n", ch.Title)
		} else {
			fmt.Printf("  ✓ %s\n", ch.Title)
		}
		analyzed++
	}

	fmt.Println()
	fmt.Printf("Analyzed: %d, Cached: %d\n", analyzed, cached)

	return nil
}
