package analysis

import (
	"encoding/json"
	"strings"
)

// Interpret extracts a structured Result from a raw model response. Summary
// responses are passed through as plain text. For the structured kinds, the
// first JSON object or array embedded in the response is located and parsed;
// if parsing fails, exactly one repair is attempted by appending the closing
// character matching the span's opening bracket. A response still malformed
// after repair degrades to an unparsed Result carrying the raw text, never
// an error.
func Interpret(kind Kind, response string) Result {
	if kind == KindSummary {
		return Result{Kind: kind, Summary: strings.TrimSpace(response)}
	}

	span, ok := extractJSONSpan(response)
	if !ok {
		return Result{Kind: kind, Unparsed: true, Raw: response}
	}

	if res, ok := parseSpan(kind, span); ok {
		return res
	}

	// One-shot repair: close the span with the bracket matching its opener.
	repaired := strings.TrimRight(span, " \t\r\n,")
	switch span[0] {
	case '[':
		repaired += "]"
	case '{':
		repaired += "}"
	}
	if res, ok := parseSpan(kind, repaired); ok {
		return res
	}

	return Result{Kind: kind, Unparsed: true, Raw: response}
}

// extractJSONSpan locates the first {...} or [...] span in text using a
// greedy bracket-depth scan. If the opening bracket is never balanced, the
// span runs to the end of the text so the repair step can close it.
func extractJSONSpan(text string) (string, bool) {
	start := -1
	var open, close byte
	for i := 0; i < len(text); i++ {
		if text[i] == '{' || text[i] == '[' {
			start = i
			open = text[i]
			close = '}'
			if open == '[' {
				close = ']'
			}
			break
		}
	}
	if start == -1 {
		return "", false
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	// Unbalanced: hand back everything from the opener on.
	return text[start:], true
}

// parseSpan attempts to unmarshal span into the shape kind requires.
func parseSpan(kind Kind, span string) (Result, bool) {
	data := []byte(span)

	switch kind {
	case KindCharacters:
		var chars []Character
		if err := json.Unmarshal(data, &chars); err != nil {
			return Result{}, false
		}
		return Result{Kind: kind, Characters: chars}, true

	case KindThemes:
		var themes []Theme
		if err := json.Unmarshal(data, &themes); err != nil {
			return Result{}, false
		}
		return Result{Kind: kind, Themes: themes}, true

	case KindSentiment:
		var s Sentiment
		if err := json.Unmarshal(data, &s); err != nil {
			return Result{}, false
		}
		return Result{Kind: kind, Sentiment: &s}, true

	case KindCharacterGraph:
		var g CharacterGraph
		if err := json.Unmarshal(data, &g); err != nil {
			return Result{}, false
		}
		return Result{Kind: kind, Graph: &g}, true
	}

	return Result{}, false
}
