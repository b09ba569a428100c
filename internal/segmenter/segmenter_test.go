package segmenter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// romanNumerals covers enough numerals for the tests below.
var romanNumerals = []string{
	"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X",
	"XI", "XII", "XIII", "XIV", "XV", "XVI", "XVII", "XVIII", "XIX", "XX",
	"XXI", "XXII", "XXIII", "XXIV", "XXV", "XXVI", "XXVII", "XXVIII", "XXIX", "XXX",
	"XXXI", "XXXII", "XXXIII", "XXXIV", "XXXV", "XXXVI",
}

// bookWithChapters builds a text with n "CHAPTER <roman>" headings, each
// chapter body padded to roughly bodyChars characters.
func bookWithChapters(n, bodyChars int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "CHAPTER %s\n\n", romanNumerals[i])
		body := strings.Repeat("the rain fell on the moor. ", bodyChars/27+1)
		b.WriteString(body[:bodyChars])
		b.WriteString("\n\n")
	}
	return b.String()
}

func TestSegment(t *testing.T) {
	t.Run("twelve well-formed chapters", func(t *testing.T) {
		text := bookWithChapters(12, 4000)
		require.Greater(t, len(text), 48000)

		chapters := Segment(text)
		require.Len(t, chapters, 12)

		for i, ch := range chapters {
			assert.True(t, strings.HasPrefix(ch.Title, fmt.Sprintf("Chapter %d:", i+1)),
				"title %q should carry index %d", ch.Title, i+1)
			assert.GreaterOrEqual(t, len(ch.Content), 100)
		}

		// Ascending original-offset order: each chapter starts with its
		// own heading.
		for i, ch := range chapters {
			assert.True(t, strings.HasPrefix(ch.Content, "CHAPTER "+romanNumerals[i]))
		}
	})

	t.Run("chapters partition the text after the first marker", func(t *testing.T) {
		text := "Front matter to be skipped.\n\n" + bookWithChapters(5, 500)

		chapters := Segment(text)
		require.Len(t, chapters, 5)

		var joined strings.Builder
		for _, ch := range chapters {
			joined.WriteString(ch.Content)
		}
		first := strings.Index(text, "CHAPTER I")
		assert.Equal(t, text[first:], joined.String())
	})

	t.Run("fallback to complete text", func(t *testing.T) {
		text := "a quiet story with no headings at all, told in one breath. " +
			strings.Repeat("and so it went on. ", 20)

		chapters := Segment(text)
		require.Len(t, chapters, 1)
		assert.Equal(t, "Complete Text", chapters[0].Title)
		assert.Equal(t, text, chapters[0].Content)
	})

	t.Run("short spans are discarded as false positives", func(t *testing.T) {
		// Stray bare numerals with almost no content between them.
		text := "I\nshort\nII\nshort\nIII\nshort\n"

		chapters := Segment(text)
		require.Len(t, chapters, 1)
		assert.Equal(t, "Complete Text", chapters[0].Title)
	})

	t.Run("numbered list headings", func(t *testing.T) {
		text := ""
		for i := 1; i <= 3; i++ {
			text += fmt.Sprintf("%d. \n\n%s\n\n", i, strings.Repeat("steady prose here. ", 20))
		}

		chapters := Segment(text)
		require.Len(t, chapters, 3)
	})

	t.Run("regroups very fine-grained books", func(t *testing.T) {
		text := bookWithChapters(36, 400)

		chapters := Segment(text)
		require.LessOrEqual(t, len(chapters), 20)
		assert.Greater(t, len(chapters), 1)
		assert.True(t, strings.HasPrefix(chapters[0].Title, "Chapters 1 - "),
			"merged title, got %q", chapters[0].Title)

		// Nothing is lost in the merge.
		var total int
		for _, ch := range chapters {
			total += len(ch.Content)
		}
		assert.Greater(t, total, 36*400)
	})
}
