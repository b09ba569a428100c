package main

import (
	"fmt"
	"log/slog"

	"github.com/abdulachik/litlens/internal/config"
	"github.com/abdulachik/litlens/internal/embedder"
	"github.com/abdulachik/litlens/internal/vectorstore"
	"github.com/spf13/cobra"
)

const (
	// embedSampleChars bounds how much of each chapter is embedded.
	embedSampleChars = 2000
	embedBatchSize   = 10
)

var indexTitle string

var indexCmd = &cobra.Command{
	Use:   "index <book-file>",
	Short: "Add a book's chapters to the similarity index",
	Long: `Segment a book into chapters, embed each one and store the vectors in
the VecLite chapter index for similarity search.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexTitle, "title", "", "Book title (defaults to the file name)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForIndexing(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	_, chapters, err := loadChapters(args[0])
	if err != nil {
		return err
	}

	title := indexTitle
	if title == "" {
		title = bookTitle(args[0])
	}

	emb := embedder.New(embedder.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.EmbedModel,
	})

	slog.Info("embedding chapters", "book", title, "chapters", len(chapters))

	samples := make([]string, len(chapters))
	for i, ch := range chapters {
		sample := ch.Content
		if len(sample) > embedSampleChars {
			sample = sample[:embedSampleChars]
		}
		samples[i] = sample
	}

	var embeddings [][]float32
	for i := 0; i < len(samples); i += embedBatchSize {
		end := i + embedBatchSize
		if end > len(samples) {
			end = len(samples)
		}

		batch, err := emb.EmbedBatch(ctx, samples[i:end])
		if err != nil {
			return fmt.Errorf("embed chapters %d-%d: %w", i+1, end, err)
		}
		embeddings = append(embeddings, batch...)
	}

	if len(embeddings) == 0 {
		return fmt.Errorf("no chapters to index")
	}

	store, err := vectorstore.New(vectorstore.Config{
		Path:      cfg.VectorPath,
		Dimension: len(embeddings[0]),
	})
	if err != nil {
		return fmt.Errorf("open chapter index: %w", err)
	}
	defer store.Close()

	for i, ch := range chapters {
		_, err := store.Insert(ctx, vectorstore.Chapter{
			Book:         title,
			ChapterIndex: i,
			Title:        ch.Title,
			Excerpt:      ch.Content,
		}, embeddings[i])
		if err != nil {
			return fmt.Errorf("index chapter %d: %w", i+1, err)
		}
	}

	if err := store.Sync(); err != nil {
		return fmt.Errorf("sync chapter index: %w", err)
	}

	fmt.Printf("Indexed %d chapters of %s\n", len(chapters), title)
	fmt.Printf("Index: %s (%d documents)\n", cfg.VectorPath, store.Count())

	return nil
}
