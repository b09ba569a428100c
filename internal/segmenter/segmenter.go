// Package segmenter splits raw book text into an ordered sequence of
// chapters using a pluggable list of heading patterns.
package segmenter

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Chapter is a contiguous titled span of a book's text.
type Chapter struct {
	Title   string
	Content string
}

// Pattern is one heading-detection strategy.
type Pattern struct {
	Name string
	Re   *regexp.Regexp
}

// HeadingPatterns is the ordered list of heading conventions the segmenter
// recognizes. Additional conventions can be appended without touching the
// merge/sort/discard logic.
var HeadingPatterns = []Pattern{
	{Name: "chapter-upper", Re: regexp.MustCompile(`CHAPTER\s+([IVXLCDM]+|\d+)`)},
	{Name: "chapter-title", Re: regexp.MustCompile(`Chapter\s+([IVXLCDM]+|\d+)`)},
	{Name: "numbered-dot", Re: regexp.MustCompile(`(?m)^\s*([IVXLCDM]+|\d+)\.\s`)},
	{Name: "bare-numeral", Re: regexp.MustCompile(`(?m)^\s*([IVXLCDM]+|\d+)\s*$`)},
}

const (
	// Spans shorter than this are treated as false positives, e.g. a stray
	// number matched mid-sentence.
	minChapterChars = 100

	// Books with more chapters than maxChapters (finely numbered verses and
	// the like) get regrouped toward targetChapters to keep downstream
	// analysis-call counts economical.
	maxChapters    = 30
	targetChapters = 20
)

// marker is a candidate chapter heading found in the text.
type marker struct {
	offset int
	label  string
}

// Segment splits text into chapters. Markers from every pattern are merged
// and sorted by offset; overlapping matches from different patterns are kept
// as-is so chapter counts stay stable across runs. If no usable markers are
// found the whole input becomes a single "Complete Text" chapter.
func Segment(text string) []Chapter {
	var markers []marker
	for _, p := range HeadingPatterns {
		for _, loc := range p.Re.FindAllStringIndex(text, -1) {
			markers = append(markers, marker{
				offset: loc[0],
				label:  strings.TrimSpace(text[loc[0]:loc[1]]),
			})
		}
	}

	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].offset < markers[j].offset
	})

	var chapters []Chapter
	for i, m := range markers {
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1].offset
		}
		content := text[m.offset:end]
		if len(content) < minChapterChars {
			continue
		}
		chapters = append(chapters, Chapter{
			Title:   fmt.Sprintf("Chapter %d: %s", len(chapters)+1, m.label),
			Content: content,
		})
	}

	if len(chapters) == 0 {
		return []Chapter{{Title: "Complete Text", Content: text}}
	}

	if len(chapters) > maxChapters {
		chapters = regroup(chapters)
	}

	return chapters
}

// regroup concatenates contiguous runs of chapters into combined chapters so
// the total lands near targetChapters.
func regroup(chapters []Chapter) []Chapter {
	groupSize := int(math.Ceil(float64(len(chapters)) / float64(targetChapters)))

	var grouped []Chapter
	for start := 0; start < len(chapters); start += groupSize {
		end := start + groupSize
		if end > len(chapters) {
			end = len(chapters)
		}

		var parts []string
		for _, ch := range chapters[start:end] {
			parts = append(parts, ch.Content)
		}

		title := chapters[start].Title
		if end-start > 1 {
			title = fmt.Sprintf("Chapters %d - %d", start+1, end)
		}

		grouped = append(grouped, Chapter{
			Title:   title,
			Content: strings.Join(parts, "\n\n"),
		})
	}

	return grouped
}
