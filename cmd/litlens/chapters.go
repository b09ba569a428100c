package main

import (
	"fmt"
	"os"

	"github.com/abdulachik/litlens/internal/gutenberg"
	"github.com/abdulachik/litlens/internal/segmenter"
	"github.com/spf13/cobra"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters <book-file>",
	Short: "Show how a book splits into chapters",
	Long: `Segment a book file into chapters and print the resulting table of
contents without running any analysis.`,
	Args: cobra.ExactArgs(1),
	RunE: runChapters,
}

func init() {
	rootCmd.AddCommand(chaptersCmd)
}

// loadChapters reads a book file, strips Gutenberg boilerplate and segments
// the text into chapters.
func loadChapters(path string) (string, []segmenter.Chapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read book: %w", err)
	}

	text := gutenberg.StripBoilerplate(string(data))
	return text, segmenter.Segment(text), nil
}

func runChapters(cmd *cobra.Command, args []string) error {
	text, chapters, err := loadChapters(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d characters, %d chapters\n", args[0], len(text), len(chapters))
	fmt.Println()

	for i, ch := range chapters {
		fmt.Printf("  %3d. %-50s %8d chars\n", i+1, ch.Title, len(ch.Content))
	}

	return nil
}
