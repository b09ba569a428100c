package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Book is a row in the books table.
type Book struct {
	ID           int64
	Title        string
	SourceURL    sql.NullString
	Language     sql.NullString
	CharCount    int64
	ChapterCount int64
	CreatedAt    time.Time
}

// Analysis is a cached analysis result for one chapter.
type Analysis struct {
	ID           int64
	BookID       int64
	ChapterIndex int64
	Kind         string
	Model        string
	Unparsed     bool
	ResultJSON   string
	CreatedAt    time.Time
}

// UpsertBookParams are the inputs for UpsertBook.
type UpsertBookParams struct {
	Title        string
	SourceURL    sql.NullString
	Language     sql.NullString
	CharCount    int64
	ChapterCount int64
}

// UpsertBook inserts a book or refreshes its metadata if the title exists.
func (s *Store) UpsertBook(ctx context.Context, arg UpsertBookParams) (Book, error) {
	_, err := s.ExecContext(ctx, `
		INSERT INTO books (title, source_url, language, char_count, chapter_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (title) DO UPDATE SET
			source_url = excluded.source_url,
			language = excluded.language,
			char_count = excluded.char_count,
			chapter_count = excluded.chapter_count
	`, arg.Title, arg.SourceURL, arg.Language, arg.CharCount, arg.ChapterCount)
	if err != nil {
		return Book{}, fmt.Errorf("upsert book: %w", err)
	}
	return s.GetBookByTitle(ctx, arg.Title)
}

// GetBookByTitle looks a book up by its exact title.
func (s *Store) GetBookByTitle(ctx context.Context, title string) (Book, error) {
	var b Book
	err := s.QueryRowContext(ctx, `
		SELECT id, title, source_url, language, char_count, chapter_count, created_at
		FROM books WHERE title = ?
	`, title).Scan(&b.ID, &b.Title, &b.SourceURL, &b.Language, &b.CharCount, &b.ChapterCount, &b.CreatedAt)
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

// ListBooks returns all books ordered by title.
func (s *Store) ListBooks(ctx context.Context) ([]Book, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, title, source_url, language, char_count, chapter_count, created_at
		FROM books ORDER BY title
	`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.SourceURL, &b.Language, &b.CharCount, &b.ChapterCount, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// SaveAnalysisParams are the inputs for SaveAnalysis.
type SaveAnalysisParams struct {
	BookID       int64
	ChapterIndex int64
	Kind         string
	Model        string
	Unparsed     bool
	ResultJSON   string
}

// SaveAnalysis caches one chapter analysis, replacing any previous result
// for the same (book, chapter, kind) key.
func (s *Store) SaveAnalysis(ctx context.Context, arg SaveAnalysisParams) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO analyses (book_id, chapter_index, kind, model, unparsed, result_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (book_id, chapter_index, kind) DO UPDATE SET
			model = excluded.model,
			unparsed = excluded.unparsed,
			result_json = excluded.result_json,
			created_at = CURRENT_TIMESTAMP
	`, arg.BookID, arg.ChapterIndex, arg.Kind, arg.Model, arg.Unparsed, arg.ResultJSON)
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

// GetAnalysis fetches a cached analysis by its (book, chapter, kind) key.
func (s *Store) GetAnalysis(ctx context.Context, bookID, chapterIndex int64, kind string) (Analysis, error) {
	var a Analysis
	err := s.QueryRowContext(ctx, `
		SELECT id, book_id, chapter_index, kind, model, unparsed, result_json, created_at
		FROM analyses WHERE book_id = ? AND chapter_index = ? AND kind = ?
	`, bookID, chapterIndex, kind).Scan(
		&a.ID, &a.BookID, &a.ChapterIndex, &a.Kind, &a.Model, &a.Unparsed, &a.ResultJSON, &a.CreatedAt)
	if err != nil {
		return Analysis{}, err
	}
	return a, nil
}

// ListAnalyses returns every cached analysis for a book in chapter order.
func (s *Store) ListAnalyses(ctx context.Context, bookID int64) ([]Analysis, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, book_id, chapter_index, kind, model, unparsed, result_json, created_at
		FROM analyses WHERE book_id = ? ORDER BY chapter_index, kind
	`, bookID)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		var a Analysis
		if err := rows.Scan(&a.ID, &a.BookID, &a.ChapterIndex, &a.Kind, &a.Model, &a.Unparsed, &a.ResultJSON, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

// CountAnalyses returns the total number of cached analyses.
func (s *Store) CountAnalyses(ctx context.Context) (int64, error) {
	var n int64
	err := s.QueryRowContext(ctx, "SELECT COUNT(*) FROM analyses").Scan(&n)
	return n, err
}

// KindCount is one row of the per-kind cache statistics.
type KindCount struct {
	Kind  string
	Count int64
}

// CountAnalysesByKind breaks the cache down by analysis kind.
func (s *Store) CountAnalysesByKind(ctx context.Context) ([]KindCount, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT kind, COUNT(*) FROM analyses GROUP BY kind ORDER BY kind
	`)
	if err != nil {
		return nil, fmt.Errorf("count analyses by kind: %w", err)
	}
	defer rows.Close()

	var counts []KindCount
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, fmt.Errorf("scan kind count: %w", err)
		}
		counts = append(counts, kc)
	}
	return counts, rows.Err()
}
