// Package analysis defines the supported literary analysis kinds and their
// structured result shapes, plus the interpreter that extracts those shapes
// from free-form model output.
package analysis

import "fmt"

// Kind identifies one of the supported analysis operations.
type Kind string

const (
	KindCharacters     Kind = "characters"
	KindSummary        Kind = "summary"
	KindSentiment      Kind = "sentiment"
	KindThemes         Kind = "themes"
	KindCharacterGraph Kind = "character-graph"
)

// Kinds lists every supported analysis kind.
var Kinds = []Kind{
	KindCharacters,
	KindSummary,
	KindSentiment,
	KindThemes,
	KindCharacterGraph,
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if s == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unsupported analysis kind: %q", s)
}

// Character is one entry in a character analysis.
type Character struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Importance  float64 `json:"importance"`
}

// Theme is one entry in a theme analysis.
type Theme struct {
	Theme       string `json:"theme"`
	Description string `json:"description"`
}

// Sentiment describes the emotional arc of a chapter.
type Sentiment struct {
	Overall   string `json:"overall"`
	Beginning string `json:"beginning"`
	Middle    string `json:"middle"`
	End       string `json:"end"`
	Analysis  string `json:"analysis"`
}

// GraphNode is a character in a relationship graph.
type GraphNode struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Group      int     `json:"group"`
	Importance float64 `json:"importance"`
}

// GraphLink is a relationship between two characters.
type GraphLink struct {
	Source    string  `json:"source"`
	Target    string  `json:"target"`
	Type      string  `json:"type"`
	Strength  float64 `json:"strength"`
	Sentiment string  `json:"sentiment"`
}

// CharacterGraph is a character-relationship graph.
type CharacterGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// Result is the outcome of one analysis. Exactly one of the payload fields
// is populated, selected by Kind; Unparsed marks the degraded case where the
// model's response could not be parsed into the expected shape and Raw holds
// the full response text instead.
type Result struct {
	Kind Kind `json:"kind"`

	Characters []Character     `json:"characters,omitempty"`
	Summary    string          `json:"summary,omitempty"`
	Sentiment  *Sentiment      `json:"sentiment,omitempty"`
	Themes     []Theme         `json:"themes,omitempty"`
	Graph      *CharacterGraph `json:"graph,omitempty"`

	Unparsed bool   `json:"unparsed,omitempty"`
	Raw      string `json:"raw,omitempty"`
}
