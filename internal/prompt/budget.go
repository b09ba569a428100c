package prompt

import (
	"strings"

	"github.com/abdulachik/litlens/internal/analysis"
	"github.com/abdulachik/litlens/internal/compressor"
)

const (
	// modelTokenLimit is the context ceiling assumed for every model.
	modelTokenLimit = 8192

	// charsPerToken is a fixed estimation heuristic, not a real tokenizer.
	charsPerToken = 4

	// DefaultReservedTokens is held back from the context for the model's
	// own output.
	DefaultReservedTokens = 1000
)

// EstimateTokens estimates the token cost of text at a fixed four
// characters per token, rounding up.
func EstimateTokens(text string) int {
	return (len(text) + charsPerToken - 1) / charsPerToken
}

// Fit returns a prompt guaranteed to fit within the model context limit
// minus reserved output tokens. Prompts already within budget are returned
// unchanged. Otherwise the chapter text between the first and last
// triple-quote delimiters is recompressed proportionally, keeping the
// instructions and the output-format contract intact; if no delimiter pair
// exists the whole prompt is truncated blindly with a trailing ellipsis.
func Fit(p string, kind analysis.Kind, reservedTokens int) string {
	if reservedTokens <= 0 {
		reservedTokens = DefaultReservedTokens
	}
	available := modelTokenLimit - reservedTokens
	estimated := EstimateTokens(p)
	if estimated <= available {
		return p
	}

	reduction := float64(available) / float64(estimated)

	first := strings.Index(p, delimiter)
	last := strings.LastIndex(p, delimiter)
	if first == -1 || last <= first {
		return truncateBlind(p, available)
	}

	innerStart := first + len(delimiter)
	inner := p[innerStart:last]
	target := int(float64(len(inner)) * reduction)

	recompressed := compressor.Compress(inner, kind, target)
	fitted := p[:innerStart] + recompressed + p[last:]

	// Heuristic compression may miss a tight target; truncation is the
	// last resort that makes the ceiling a hard guarantee.
	if EstimateTokens(fitted) > available {
		return truncateBlind(fitted, available)
	}
	return fitted
}

func truncateBlind(p string, availableTokens int) string {
	maxChars := availableTokens * charsPerToken
	if len(p) <= maxChars {
		return p
	}
	if maxChars <= 3 {
		return p[:maxChars]
	}
	return p[:maxChars-3] + "..."
}
