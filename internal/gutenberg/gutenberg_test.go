package gutenberg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripBoilerplate(t *testing.T) {
	t.Run("removes header and footer", func(t *testing.T) {
		text := strings.Join([]string{
			"The Project Gutenberg eBook of Some Novel",
			"This eBook is for the use of anyone anywhere.",
			"*** START OF THE PROJECT GUTENBERG EBOOK SOME NOVEL ***",
			"Chapter I",
			"It was the best of times.",
			"*** END OF THE PROJECT GUTENBERG EBOOK SOME NOVEL ***",
			"Please donate.",
		}, "\n")

		result := StripBoilerplate(text)
		assert.Equal(t, "Chapter I\nIt was the best of times.", result)
	})

	t.Run("text without markers passes through", func(t *testing.T) {
		text := "Chapter I\nIt was the best of times."
		assert.Equal(t, text, StripBoilerplate(text))
	})

	t.Run("legacy small print marker", func(t *testing.T) {
		text := strings.Join([]string{
			"*END*THE SMALL PRINT! FOR PUBLIC DOMAIN ETEXTS*",
			"Actual content here.",
			"End of Project Gutenberg Etext",
		}, "\n")

		assert.Equal(t, "Actual content here.", StripBoilerplate(text))
	})
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("book contents"))
	}))
	defer server.Close()

	book := Book{Filename: "test.txt", Title: "Test Book", URL: server.URL}
	dir := t.TempDir()
	client := NewClient()

	path, skipped, err := client.Download(context.Background(), book, dir, false)
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, filepath.Join(dir, "test.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "book contents", string(data))

	// Second download without force skips the existing file.
	_, skipped, err = client.Download(context.Background(), book, dir, false)
	require.NoError(t, err)
	assert.True(t, skipped)
}

func TestDownloadServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	book := Book{Filename: "missing.txt", Title: "Missing", URL: server.URL}
	_, _, err := NewClient().Download(context.Background(), book, t.TempDir(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}
