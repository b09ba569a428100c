package main

import (
	"fmt"
	"strings"

	"github.com/abdulachik/litlens/internal/config"
	"github.com/abdulachik/litlens/internal/embedder"
	"github.com/abdulachik/litlens/internal/vectorstore"
	"github.com/spf13/cobra"
)

var (
	similarBook string
	similarTopK int
)

var similarCmd = &cobra.Command{
	Use:   "similar <query>",
	Short: "Find chapters similar to a query",
	Long: `Embed a free-text query and search the chapter index for the most
similar chapters across all indexed books.

Examples:
  litlens similar "a storm at sea"
  litlens similar "guilt and confession" --book "Crime and Punishment"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSimilar,
}

func init() {
	similarCmd.Flags().StringVar(&similarBook, "book", "", "Restrict results to one book")
	similarCmd.Flags().IntVarP(&similarTopK, "top", "n", 5, "Number of results")
	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForIndexing(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	emb := embedder.New(embedder.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.EmbedModel,
	})

	queryVec, err := emb.Embed(ctx, query)
	if err != nil {
		return fmt.Errorf("embed query: %w", err)
	}

	store, err := vectorstore.New(vectorstore.Config{
		Path:      cfg.VectorPath,
		Dimension: len(queryVec),
	})
	if err != nil {
		return fmt.Errorf("open chapter index: %w", err)
	}
	defer store.Close()

	var results []vectorstore.SearchResult
	if similarBook != "" {
		results, err = store.SearchByBook(ctx, queryVec, similarBook, similarTopK)
	} else {
		results, err = store.Search(ctx, queryVec, similarTopK)
	}
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No similar chapters found. Run `litlens index` first.")
		return nil
	}

	fmt.Printf("Chapters similar to %q:\n\n", query)
	for i, r := range results {
		fmt.Printf("%d. [%.3f] %s: %s\n", i+1, r.Similarity, r.Book, r.Title)
		if r.Excerpt != "" {
			excerpt := strings.TrimSpace(r.Excerpt)
			if len(excerpt) > 160 {
				excerpt = excerpt[:160] + "..."
			}
			fmt.Printf("   %s\n", excerpt)
		}
	}

	return nil
}
