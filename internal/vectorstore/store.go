// Package vectorstore provides a VecLite-based similarity index over
// analyzed chapters. Embeddings are computed upstream and passed in; the
// store only holds vectors and payloads.
package vectorstore

import (
	"context"
	"fmt"

	"github.com/abdul-hamid-achik/veclite"
)

const (
	chaptersCollection = "chapters"

	// excerptChars bounds the payload excerpt so the index file stays small.
	excerptChars = 400
)

// Config holds configuration for the ChapterStore.
type Config struct {
	// Path to the VecLite database file (e.g., "data/chapters.veclite").
	Path string

	// Dimension of the embeddings to be stored.
	Dimension int
}

// ChapterStore wraps VecLite for chapter vector storage and search.
type ChapterStore struct {
	vecdb *veclite.DB
	coll  *veclite.Collection
}

// Chapter is the payload stored alongside each vector.
type Chapter struct {
	Book         string
	ChapterIndex int
	Title        string
	Excerpt      string
}

// SearchResult represents a search result from the vector store.
type SearchResult struct {
	VecLiteID    uint64
	Book         string
	ChapterIndex int
	Title        string
	Excerpt      string
	Similarity   float32
}

// New opens the chapter index, creating the collection on first use.
func New(cfg Config) (*ChapterStore, error) {
	vecdb, err := veclite.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open veclite db: %w", err)
	}

	coll, err := vecdb.CreateCollection(chaptersCollection,
		veclite.WithDimension(cfg.Dimension),
		veclite.WithDistanceType(veclite.DistanceCosine),
		veclite.WithHNSW(16, 200), // M=16, efConstruction=200
	)
	if err != nil {
		// Collection might already exist, try to get it
		coll, err = vecdb.GetCollection(chaptersCollection)
		if err != nil {
			vecdb.Close()
			return nil, fmt.Errorf("get collection: %w", err)
		}
	}

	return &ChapterStore{
		vecdb: vecdb,
		coll:  coll,
	}, nil
}

// Close closes the VecLite database.
func (s *ChapterStore) Close() error {
	if s.vecdb != nil {
		return s.vecdb.Close()
	}
	return nil
}

// Insert adds a chapter with its pre-computed embedding.
// Returns the VecLite record ID.
func (s *ChapterStore) Insert(ctx context.Context, ch Chapter, embedding []float32) (uint64, error) {
	excerpt := ch.Excerpt
	if len(excerpt) > excerptChars {
		excerpt = excerpt[:excerptChars]
	}

	payload := map[string]any{
		"book":          ch.Book,
		"chapter_index": ch.ChapterIndex,
		"title":         ch.Title,
		"excerpt":       excerpt,
	}

	id, err := s.coll.InsertDocument(embedding, excerpt, payload)
	if err != nil {
		return 0, fmt.Errorf("insert chapter: %w", err)
	}

	return id, nil
}

// Search finds chapters similar to a query vector.
func (s *ChapterStore) Search(ctx context.Context, queryVec []float32, k int) ([]SearchResult, error) {
	results, err := s.coll.Search(queryVec, veclite.TopK(k))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return convertResults(results), nil
}

// SearchByBook finds similar chapters within one book.
func (s *ChapterStore) SearchByBook(ctx context.Context, queryVec []float32, book string, k int) ([]SearchResult, error) {
	results, err := s.coll.Search(queryVec,
		veclite.TopK(k),
		veclite.WithFilter(veclite.Equal("book", book)),
	)
	if err != nil {
		return nil, fmt.Errorf("search by book: %w", err)
	}

	return convertResults(results), nil
}

// Count returns the number of chapters in the store.
func (s *ChapterStore) Count() int {
	return s.coll.Count()
}

// Stats returns statistics about the chapter index.
func (s *ChapterStore) Stats() veclite.CollectionStats {
	return s.coll.Stats()
}

// Sync persists any pending changes to disk.
func (s *ChapterStore) Sync() error {
	return s.vecdb.Sync()
}

// convertResults converts VecLite results to SearchResults.
func convertResults(results []veclite.Result) []SearchResult {
	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		sr := SearchResult{
			VecLiteID:  r.Record.ID,
			Similarity: r.Score,
		}

		if r.Record.Payload != nil {
			if book, ok := r.Record.Payload["book"].(string); ok {
				sr.Book = book
			}
			if idx, ok := r.Record.Payload["chapter_index"].(int); ok {
				sr.ChapterIndex = idx
			} else if idx, ok := r.Record.Payload["chapter_index"].(int64); ok {
				sr.ChapterIndex = int(idx)
			} else if idx, ok := r.Record.Payload["chapter_index"].(float64); ok {
				sr.ChapterIndex = int(idx)
			}
			if title, ok := r.Record.Payload["title"].(string); ok {
				sr.Title = title
			}
			if excerpt, ok := r.Record.Payload["excerpt"].(string); ok {
				sr.Excerpt = excerpt
			}
		}

		if sr.Excerpt == "" && r.Record.Content != "" {
			sr.Excerpt = r.Record.Content
		}

		out = append(out, sr)
	}
	return out
}
