package prompt

import (
	"strings"
	"testing"

	"github.com/abdulachik/litlens/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Run("every kind embeds text between delimiters", func(t *testing.T) {
		text := "It was the best of times."
		for _, kind := range analysis.Kinds {
			p := Build(text, kind)
			require.NotEmpty(t, p, "kind %s", kind)
			assert.Equal(t, 2, strings.Count(p, delimiter), "kind %s", kind)
			assert.Contains(t, p, text, "kind %s", kind)
		}
	})

	t.Run("unsupported kind yields empty string", func(t *testing.T) {
		assert.Empty(t, Build("text", analysis.Kind("motifs")))
	})

	t.Run("structured kinds carry a JSON contract", func(t *testing.T) {
		for _, kind := range []analysis.Kind{
			analysis.KindCharacters,
			analysis.KindSentiment,
			analysis.KindThemes,
			analysis.KindCharacterGraph,
		} {
			assert.Contains(t, Build("text", kind), "JSON", "kind %s", kind)
		}
	})

	t.Run("summary asks for plain prose", func(t *testing.T) {
		p := Build("text", analysis.KindSummary)
		assert.Contains(t, p, "single paragraph")
		assert.NotContains(t, p, "JSON array")
	})
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abc"))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
}

func TestFit(t *testing.T) {
	t.Run("prompt within budget is unchanged", func(t *testing.T) {
		p := Build("a modest chapter", analysis.KindSummary)
		assert.Equal(t, p, Fit(p, analysis.KindSummary, DefaultReservedTokens))
	})

	t.Run("oversized prompt is recompressed within the delimiters", func(t *testing.T) {
		var chapter strings.Builder
		for i := 0; i < 600; i++ {
			chapter.WriteString("Anna said the house had gone quiet after the long war ended. ")
			if i%5 == 4 {
				chapter.WriteString("\n\n")
			}
		}
		p := Build(chapter.String(), analysis.KindSummary)
		require.Greater(t, EstimateTokens(p), modelTokenLimit-DefaultReservedTokens)

		fitted := Fit(p, analysis.KindSummary, DefaultReservedTokens)
		assert.LessOrEqual(t, EstimateTokens(fitted), modelTokenLimit-DefaultReservedTokens)

		// Instructions and format contract survive.
		assert.True(t, strings.HasPrefix(fitted, "Summarize the following chapter"))
		assert.Contains(t, fitted, "single paragraph")
	})

	t.Run("no delimiters falls back to blind truncation", func(t *testing.T) {
		p := strings.Repeat("x", 40_000)
		fitted := Fit(p, analysis.KindSummary, DefaultReservedTokens)
		assert.LessOrEqual(t, EstimateTokens(fitted), modelTokenLimit-DefaultReservedTokens)
		assert.True(t, strings.HasSuffix(fitted, "..."))
	})

	t.Run("ceiling holds for a range of reserved budgets", func(t *testing.T) {
		chapter := strings.Repeat("The road wound on and on toward the hills. ", 2000)
		p := Build(chapter, analysis.KindThemes)
		for _, reserved := range []int{500, 1000, 2000, 4000} {
			fitted := Fit(p, analysis.KindThemes, reserved)
			assert.LessOrEqual(t, EstimateTokens(fitted), modelTokenLimit-reserved,
				"reserved %d", reserved)
		}
	})
}
