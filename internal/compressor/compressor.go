// Package compressor shortens chapter text ahead of an LLM request while
// preserving the material most relevant to the requested analysis kind. Each
// kind uses a distinct extractive heuristic over paragraphs or sentences;
// all scoring is deterministic and depends only on the input text.
package compressor

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/abdulachik/litlens/internal/analysis"
)

// truncationMarker stands in for elided paragraphs.
const truncationMarker = "[...]"

var paragraphSep = regexp.MustCompile(`\n\s*\n`)

// Compress returns a version of text at most maxLen characters shorter than
// or equal to the input. Text already within budget is returned unchanged.
func Compress(text string, kind analysis.Kind, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 0 {
		return ""
	}

	var out string
	switch kind {
	case analysis.KindCharacters, analysis.KindCharacterGraph:
		out = compressForCharacters(text, maxLen)
	case analysis.KindSentiment:
		out = compressForSentiment(text, maxLen)
	case analysis.KindThemes:
		out = compressForThemes(text, maxLen)
	default:
		out = compressForSummary(text, maxLen)
	}

	// Compression never expands the input.
	if len(out) > len(text) {
		return text[:maxLen]
	}
	return out
}

// compressForCharacters keeps the paragraphs most likely to mention named
// characters: capitalized tokens count double, dialogue triple, and each
// emotion word present adds one.
func compressForCharacters(text string, maxLen int) string {
	paras := splitParagraphs(text)
	if len(paras) < 3 {
		return text[:maxLen]
	}

	scores := make([]float64, len(paras))
	for i, p := range paras {
		scores[i] = float64(countCapitalizedWords(p))*2 +
			float64(countQuoteChars(p)/2)*3 +
			float64(containsAnyWord(p, emotionWords))
	}

	keep := int(math.Ceil(float64(len(paras)) * float64(maxLen) / float64(len(text))))
	if keep < 5 {
		keep = 5
	}

	selected := selectParagraphs(paras, scores, keep)
	out := strings.Join(selected, "\n\n")
	if len(out) <= maxLen {
		return out
	}

	// Over budget even after selection: first + top three + last, with
	// elision markers between the sections.
	top := topInterior(paras, scores, 3)
	parts := []string{paras[0], truncationMarker}
	parts = append(parts, top...)
	parts = append(parts, truncationMarker, paras[len(paras)-1])
	return strings.Join(parts, "\n\n")
}

// compressForSentiment keeps the highest-scoring paragraphs from each third
// of the chapter so the emotional arc survives compression.
func compressForSentiment(text string, maxLen int) string {
	paras := splitParagraphs(text)
	if len(paras) < 3 {
		return text[:maxLen]
	}

	scores := make([]float64, len(paras))
	for i, p := range paras {
		scores[i] = float64(len(emotionRe.FindAllString(p, -1)))*2 +
			float64(strings.Count(p, "!"))*3 +
			float64(strings.Count(p, "?")) +
			float64(countQuoteChars(p))/2
	}

	third := len(paras) / 3
	beginning := topInRange(paras, scores, 1, third, 2)
	middle := topInRange(paras, scores, third, 2*third, 2)
	end := topInRange(paras, scores, 2*third, len(paras)-1, 2)

	parts := []string{paras[0]}
	parts = append(parts, beginning...)
	parts = append(parts, truncationMarker)
	parts = append(parts, middle...)
	parts = append(parts, truncationMarker)
	parts = append(parts, end...)
	parts = append(parts, paras[len(paras)-1])
	return strings.Join(parts, "\n\n")
}

// compressForThemes favors longer, narration-heavy paragraphs that use
// abstract vocabulary.
func compressForThemes(text string, maxLen int) string {
	paras := splitParagraphs(text)
	if len(paras) < 3 {
		return text[:maxLen]
	}

	scores := make([]float64, len(paras))
	for i, p := range paras {
		s := float64(len(thematicRe.FindAllString(p, -1))) * 2
		lengthBonus := float64(len(p)) / 200
		if lengthBonus > 5 {
			lengthBonus = 5
		}
		s += lengthBonus
		if countQuoteChars(p) < 4 {
			s += 2
		}
		scores[i] = s
	}

	selected := selectParagraphs(paras, scores, 8) // top 6 plus first and last
	return strings.Join(selected, "\n\n")
}

// compressForSummary works at sentence granularity, keeping a percentage of
// sentences inversely proportional to how aggressively the text must shrink.
// The first three and last three sentences are always retained.
func compressForSummary(text string, maxLen int) string {
	sentences := splitSentences(text)
	if len(sentences) <= 6 {
		return text[:maxLen]
	}

	level := compressionLevel(len(text), maxLen)
	keepPct := 85 - (level-1)*15
	keep := len(sentences) * keepPct / 100
	if keep < 6 {
		keep = 6
	}

	scores := make([]float64, len(sentences))
	for i, s := range sentences {
		scores[i] = scoreSentence(s)
	}

	chosen := map[int]bool{}
	for i := 0; i < 3 && i < len(sentences); i++ {
		chosen[i] = true
		chosen[len(sentences)-1-i] = true
	}

	order := rankedIndexes(scores)
	for _, idx := range order {
		if len(chosen) >= keep {
			break
		}
		chosen[idx] = true
	}

	indexes := make([]int, 0, len(chosen))
	for idx := range chosen {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	parts := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		parts = append(parts, sentences[idx])
	}
	return strings.Join(parts, " ")
}

func scoreSentence(s string) float64 {
	score := float64(len(s)) / 100
	if score > 2 {
		score = 2
	}
	if countQuoteChars(s) > 0 {
		score += 2
	}
	if countCapitalizedWords(s) > 0 {
		score++
	}
	score += 0.5 * float64(containsAnyWord(s, narrativeVerbs))
	return score
}

// compressionLevel maps the required shrink ratio to a level from 1 (mild)
// to 5 (aggressive).
func compressionLevel(textLen, maxLen int) int {
	ratio := float64(maxLen) / float64(textLen)
	switch {
	case ratio >= 0.8:
		return 1
	case ratio >= 0.6:
		return 2
	case ratio >= 0.45:
		return 3
	case ratio >= 0.3:
		return 4
	default:
		return 5
	}
}

// selectParagraphs keeps the first and last paragraph unconditionally and
// fills the remaining budget with the top-scoring interior paragraphs,
// restoring original order.
func selectParagraphs(paras []string, scores []float64, keep int) []string {
	chosen := map[int]bool{0: true, len(paras) - 1: true}
	for _, idx := range rankedIndexes(scores) {
		if len(chosen) >= keep {
			break
		}
		chosen[idx] = true
	}

	indexes := make([]int, 0, len(chosen))
	for idx := range chosen {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	out := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, paras[idx])
	}
	return out
}

// topInterior returns up to n of the highest-scoring paragraphs excluding
// the first and last, in original order.
func topInterior(paras []string, scores []float64, n int) []string {
	return topInRange(paras, scores, 1, len(paras)-1, n)
}

// topInRange returns up to n of the highest-scoring paragraphs with index in
// [lo, hi), in original order.
func topInRange(paras []string, scores []float64, lo, hi, n int) []string {
	if lo < 0 {
		lo = 0
	}
	if hi > len(paras) {
		hi = len(paras)
	}
	if lo >= hi {
		return nil
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, 0, hi-lo)
	for i := lo; i < hi; i++ {
		ranked = append(ranked, scored{i, scores[i]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if n > len(ranked) {
		n = len(ranked)
	}
	picks := ranked[:n]
	sort.Slice(picks, func(i, j int) bool { return picks[i].idx < picks[j].idx })

	out := make([]string, 0, n)
	for _, p := range picks {
		out = append(out, paras[p.idx])
	}
	return out
}

// rankedIndexes returns paragraph indexes sorted by descending score,
// ties broken by original position.
func rankedIndexes(scores []float64) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return scores[idx[i]] > scores[idx[j]] })
	return idx
}

// splitParagraphs splits text on blank lines, dropping empty entries.
func splitParagraphs(text string) []string {
	raw := paragraphSep.Split(text, -1)
	paras := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// splitSentences breaks text on sentence-ending punctuation followed by
// whitespace and a capital letter.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j < len(runes) && (j == i+1 || !isSentenceStart(runes[j])) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = j
		i = j - 1
	}

	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func isSentenceStart(r rune) bool {
	return unicode.IsUpper(r) || r == '"' || r == '“'
}

// countCapitalizedWords counts tokens beginning with an uppercase letter, a
// cheap proxy for named entities.
func countCapitalizedWords(s string) int {
	n := 0
	for _, w := range strings.Fields(s) {
		r := []rune(w)[0]
		if unicode.IsUpper(r) {
			n++
		}
	}
	return n
}

// countQuoteChars counts straight and curly double-quote characters.
func countQuoteChars(s string) int {
	return strings.Count(s, `"`) +
		strings.Count(s, "“") +
		strings.Count(s, "”")
}
