// Package analyzer runs the text-preparation and request pipeline for one
// chapter at a time: compress, build the prompt, fit it to the model budget,
// pass the rate gate, execute the request and interpret the response.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abdulachik/litlens/internal/analysis"
	"github.com/abdulachik/litlens/internal/compressor"
	"github.com/abdulachik/litlens/internal/llm"
	"github.com/abdulachik/litlens/internal/prompt"
	"github.com/abdulachik/litlens/internal/segmenter"
)

const (
	defaultTemperature     = 0.7
	defaultMaxChapterChars = 24_000

	// languageSampleChars bounds the sample sent for language detection.
	languageSampleChars = 500
)

// ErrUnsupportedKind rejects analysis kinds the prompt builder has no
// template for.
var ErrUnsupportedKind = errors.New("analyzer: unsupported analysis kind")

// Analyzer drives the chapter analysis pipeline.
type Analyzer struct {
	client          *llm.Client
	largeModel      string
	smallModel      string
	temperature     float64
	maxChapterChars int
	reservedTokens  int
}

// Config holds configuration for the Analyzer.
type Config struct {
	Client     *llm.Client
	LargeModel string
	SmallModel string

	// Temperature defaults to 0.7.
	Temperature float64
	// MaxChapterChars bounds the first compression pass. Defaults to 24000.
	MaxChapterChars int
	// ReservedTokens is the output budget held back from the model context.
	ReservedTokens int
}

// New creates a new Analyzer.
func New(cfg Config) *Analyzer {
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	maxChars := cfg.MaxChapterChars
	if maxChars <= 0 {
		maxChars = defaultMaxChapterChars
	}
	reserved := cfg.ReservedTokens
	if reserved <= 0 {
		reserved = prompt.DefaultReservedTokens
	}

	return &Analyzer{
		client:          cfg.Client,
		largeModel:      cfg.LargeModel,
		smallModel:      cfg.SmallModel,
		temperature:     temperature,
		maxChapterChars: maxChars,
		reservedTokens:  reserved,
	}
}

// AnalyzeChapter runs one analysis over one chapter's text.
func (a *Analyzer) AnalyzeChapter(ctx context.Context, text string, kind analysis.Kind) (analysis.Result, error) {
	compressed := compressor.Compress(text, kind, a.maxChapterChars)

	p := prompt.Build(compressed, kind)
	if p == "" {
		return analysis.Result{}, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	p = prompt.Fit(p, kind, a.reservedTokens)

	content, err := a.client.Complete(ctx, llm.ChatRequest{
		Model:       a.largeModel,
		Messages:    []llm.Message{{Role: "user", Content: p}},
		Temperature: a.temperature,
	})
	if err != nil {
		return analysis.Result{}, fmt.Errorf("analyze chapter: %w", err)
	}

	return analysis.Interpret(kind, content), nil
}

// ChapterResult pairs one chapter with its analysis outcome.
type ChapterResult struct {
	Index  int
	Title  string
	Result analysis.Result
	Err    error
}

// AnalyzeBook analyzes every chapter in strict index order with one
// outstanding request at a time; a later chapter's request is never issued
// before the earlier chapter's response or failure has resolved. Per-chapter
// failures are recorded and the run continues, except for credential and
// precondition failures, which abort the whole run.
func (a *Analyzer) AnalyzeBook(ctx context.Context, chapters []segmenter.Chapter, kind analysis.Kind) ([]ChapterResult, error) {
	results := make([]ChapterResult, 0, len(chapters))

	for i, ch := range chapters {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		slog.Info("analyzing chapter",
			"chapter", i+1,
			"total", len(chapters),
			"kind", kind,
			"title", ch.Title,
		)

		result, err := a.AnalyzeChapter(ctx, ch.Content, kind)
		if err != nil {
			var authErr *llm.AuthError
			if errors.As(err, &authErr) ||
				errors.Is(err, llm.ErrMissingAPIKey) ||
				errors.Is(err, ErrUnsupportedKind) {
				return results, err
			}
			slog.Error("chapter analysis failed",
				"chapter", i+1,
				"kind", kind,
				"error", err,
			)
			results = append(results, ChapterResult{Index: i, Title: ch.Title, Err: err})
			continue
		}

		results = append(results, ChapterResult{Index: i, Title: ch.Title, Result: result})
	}

	return results, nil
}

// DetectLanguage identifies the language of a text sample using the small
// model.
func (a *Analyzer) DetectLanguage(ctx context.Context, text string) (string, error) {
	sample := text
	if len(sample) > languageSampleChars {
		sample = sample[:languageSampleChars]
	}

	content, err := a.client.Complete(ctx, llm.ChatRequest{
		Model: a.smallModel,
		Messages: []llm.Message{{
			Role: "user",
			Content: "Identify the language of the following text. Respond with the language name in English only, nothing else.\n\n" +
				sample,
		}},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("detect language: %w", err)
	}

	return strings.TrimSpace(content), nil
}
