// Package gutenberg downloads public-domain books from Project Gutenberg
// and strips the license boilerplate that wraps every plain-text edition.
package gutenberg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Book identifies one plain-text edition on Project Gutenberg.
type Book struct {
	Filename string
	Title    string
	URL      string
}

// Catalog lists the books the download command fetches by default.
var Catalog = []Book{
	{
		Filename: "pride-and-prejudice.txt",
		Title:    "Pride and Prejudice",
		URL:      "https://www.gutenberg.org/cache/epub/1342/pg1342.txt",
	},
	{
		Filename: "moby-dick.txt",
		Title:    "Moby Dick",
		URL:      "https://www.gutenberg.org/cache/epub/2701/pg2701.txt",
	},
	{
		Filename: "crime-and-punishment.txt",
		Title:    "Crime and Punishment",
		URL:      "https://www.gutenberg.org/cache/epub/2554/pg2554.txt",
	},
	{
		Filename: "frankenstein.txt",
		Title:    "Frankenstein",
		URL:      "https://www.gutenberg.org/cache/epub/84/pg84.txt",
	},
	{
		Filename: "dracula.txt",
		Title:    "Dracula",
		URL:      "https://www.gutenberg.org/cache/epub/345/pg345.txt",
	},
	{
		Filename: "great-expectations.txt",
		Title:    "Great Expectations",
		URL:      "https://www.gutenberg.org/cache/epub/1400/pg1400.txt",
	},
	{
		Filename: "the-picture-of-dorian-gray.txt",
		Title:    "The Picture of Dorian Gray",
		URL:      "https://www.gutenberg.org/cache/epub/174/pg174.txt",
	},
}

// Client downloads book files.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a download client with a generous timeout; full books
// run to a few megabytes.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Download fetches one book to the given path, skipping it when the file
// already exists unless force is set.
func (c *Client) Download(ctx context.Context, book Book, dir string, force bool) (path string, skipped bool, err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", false, fmt.Errorf("create books directory: %w", err)
	}

	path = filepath.Join(dir, book.Filename)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, true, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", book.URL, nil)
	if err != nil {
		return "", false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("download %s: %w", book.Title, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("download %s: HTTP %d", book.Title, resp.StatusCode)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", false, err
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return "", false, fmt.Errorf("write %s: %w", path, err)
	}

	return path, false, nil
}

// StripBoilerplate removes the Project Gutenberg header and footer, leaving
// only the book text. Text without the markers passes through unchanged.
func StripBoilerplate(text string) string {
	lines := strings.Split(text, "\n")

	startIdx := 0
	endIdx := len(lines)

	for i, line := range lines {
		if strings.Contains(line, "*** START OF") ||
			strings.Contains(line, "***START OF") ||
			strings.Contains(line, "*END*THE SMALL PRINT") {
			startIdx = i + 1
			break
		}
	}

	for i := len(lines) - 1; i >= startIdx; i-- {
		if strings.Contains(lines[i], "*** END OF") ||
			strings.Contains(lines[i], "***END OF") ||
			strings.Contains(lines[i], "End of Project Gutenberg") ||
			strings.Contains(lines[i], "End of the Project Gutenberg") {
			endIdx = i
			break
		}
	}

	if startIdx >= endIdx {
		return text
	}

	return strings.TrimSpace(strings.Join(lines[startIdx:endIdx], "\n"))
}
