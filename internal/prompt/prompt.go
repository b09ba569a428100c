// Package prompt builds the per-kind instruction text sent to the model and
// fits assembled prompts to the model's context budget.
package prompt

import (
	"fmt"

	"github.com/abdulachik/litlens/internal/analysis"
)

// delimiter wraps the chapter text inside every prompt so the budget fitter
// can locate and recompress it without touching the instructions.
const delimiter = `"""`

const charactersTemplate = `Analyze the characters in the following chapter text. Identify every character who appears, describe their role in the chapter, and rate their importance on a scale of 1 to 10.

Chapter text:
%[1]s
%[2]s
%[1]s

Respond with a JSON array only, no other text. Each element must have exactly these fields:
- "name": the character's name
- "description": one or two sentences on their role in this chapter
- "importance": a number from 1 (passing mention) to 10 (central)`

const summaryTemplate = `Summarize the following chapter text. Cover the key events, who is involved, and how the chapter ends.

Chapter text:
%[1]s
%[2]s
%[1]s

Respond with a single paragraph of plain prose. Do not use JSON, lists, or headings.`

const sentimentTemplate = `Analyze the emotional arc of the following chapter text. Judge the overall sentiment and the sentiment of the beginning, middle, and end of the chapter.

Chapter text:
%[1]s
%[2]s
%[1]s

Respond with a JSON object only, no other text, with exactly these fields:
- "overall": one of "Positive", "Negative", "Neutral", "Mixed"
- "beginning": sentiment of the opening third
- "middle": sentiment of the middle third
- "end": sentiment of the closing third
- "analysis": two or three sentences explaining the emotional arc`

const themesTemplate = `Identify the major literary themes in the following chapter text.

Chapter text:
%[1]s
%[2]s
%[1]s

Respond with a JSON array only, no other text. Each element must have exactly these fields:
- "theme": the theme's name
- "description": one or two sentences on how the chapter develops it`

const graphTemplate = `Map the character relationships in the following chapter text as a graph.

Chapter text:
%[1]s
%[2]s
%[1]s

Respond with a JSON object only, no other text, shaped exactly like this:
{"nodes": [{"id": "short-id", "name": "Character Name", "group": 1, "importance": 8}], "links": [{"source": "short-id", "target": "other-id", "type": "relationship kind", "strength": 7, "sentiment": "positive"}]}

Group characters that belong together (a family, a household) under the same group number. Strength runs 1 to 10; sentiment is "positive", "negative", or "neutral".`

// Build produces the full prompt for one analysis kind, embedding text
// between triple-quote delimiters. Unsupported kinds yield an empty string,
// which callers must reject before issuing any request.
func Build(text string, kind analysis.Kind) string {
	var tmpl string
	switch kind {
	case analysis.KindCharacters:
		tmpl = charactersTemplate
	case analysis.KindSummary:
		tmpl = summaryTemplate
	case analysis.KindSentiment:
		tmpl = sentimentTemplate
	case analysis.KindThemes:
		tmpl = themesTemplate
	case analysis.KindCharacterGraph:
		tmpl = graphTemplate
	default:
		return ""
	}
	return fmt.Sprintf(tmpl, delimiter, text)
}
