package main

import (
	"fmt"
	"log/slog"

	"github.com/abdulachik/litlens/internal/config"
	"github.com/abdulachik/litlens/internal/gutenberg"
	"github.com/spf13/cobra"
)

var downloadForce bool

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download books from Project Gutenberg",
	Long: `Download the built-in catalog of public-domain books from Project
Gutenberg into the books directory. Files already present are skipped
unless --force is given.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().BoolVarP(&downloadForce, "force", "f", false, "Re-download even if file exists")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client := gutenberg.NewClient()

	fmt.Println("Downloading books from Project Gutenberg...")
	fmt.Println()

	downloaded := 0
	skipped := 0

	for _, book := range gutenberg.Catalog {
		_, wasSkipped, err := client.Download(cmd.Context(), book, cfg.BooksDir, downloadForce)
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", book.Title, err)
			slog.Error("failed to download book", "title", book.Title, "error", err)
			continue
		}
		if wasSkipped {
			fmt.Printf("  ✓ %s (already downloaded)\n", book.Title)
			skipped++
			continue
		}
		fmt.Printf("  ✓ %s\n", book.Title)
		downloaded++
	}

	fmt.Println()
	fmt.Printf("Downloaded: %d, Skipped: %d\n", downloaded, skipped)
	fmt.Printf("Books saved to: %s/\n", cfg.BooksDir)

	return nil
}
