package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Run("accepts all supported kinds", func(t *testing.T) {
		for _, k := range Kinds {
			parsed, err := ParseKind(string(k))
			require.NoError(t, err)
			assert.Equal(t, k, parsed)
		}
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := ParseKind("motifs")
		assert.Error(t, err)
	})
}

func TestInterpret_Summary(t *testing.T) {
	res := Interpret(KindSummary, "  The chapter opens with a storm.\n")
	assert.Equal(t, KindSummary, res.Kind)
	assert.Equal(t, "The chapter opens with a storm.", res.Summary)
	assert.False(t, res.Unparsed)
}

func TestInterpret_Sentiment(t *testing.T) {
	t.Run("extracts object from surrounding prose", func(t *testing.T) {
		response := `The result is: {"overall":"Positive","beginning":"Neutral","middle":"Positive","end":"Positive","analysis":"A hopeful arc."} and that's it`

		res := Interpret(KindSentiment, response)
		require.False(t, res.Unparsed)
		require.NotNil(t, res.Sentiment)
		assert.Equal(t, "Positive", res.Sentiment.Overall)
		assert.Equal(t, "Neutral", res.Sentiment.Beginning)
		assert.Equal(t, "Positive", res.Sentiment.Middle)
		assert.Equal(t, "Positive", res.Sentiment.End)
		assert.Equal(t, "A hopeful arc.", res.Sentiment.Analysis)
	})

	t.Run("degrades to raw text when no JSON present", func(t *testing.T) {
		response := "I could not determine the sentiment of this passage."

		res := Interpret(KindSentiment, response)
		assert.True(t, res.Unparsed)
		assert.Equal(t, response, res.Raw)
		assert.Nil(t, res.Sentiment)
	})
}

func TestInterpret_Themes(t *testing.T) {
	t.Run("repairs a truncated array", func(t *testing.T) {
		response := `[{"theme":"Loss","description":"The ache of absence pervades the chapter."}`

		res := Interpret(KindThemes, response)
		require.False(t, res.Unparsed)
		require.Len(t, res.Themes, 1)
		assert.Equal(t, "Loss", res.Themes[0].Theme)
	})

	t.Run("still malformed after repair returns raw string", func(t *testing.T) {
		response := `[{"theme":"Loss","description":"unterminated`

		res := Interpret(KindThemes, response)
		assert.True(t, res.Unparsed)
		assert.Equal(t, response, res.Raw)
	})
}

func TestInterpret_Characters(t *testing.T) {
	t.Run("parses clean array", func(t *testing.T) {
		response := `[
  {"name": "Pip", "description": "An orphan with great expectations.", "importance": 10},
  {"name": "Joe", "description": "A gentle blacksmith.", "importance": 7}
]`

		res := Interpret(KindCharacters, response)
		require.False(t, res.Unparsed)
		require.Len(t, res.Characters, 2)
		assert.Equal(t, "Pip", res.Characters[0].Name)
		assert.Equal(t, float64(7), res.Characters[1].Importance)
	})

	t.Run("wrong shape degrades rather than errors", func(t *testing.T) {
		// An object where an array was expected.
		response := `{"name": "Pip", "description": "alone", "importance": 10}`

		res := Interpret(KindCharacters, response)
		assert.True(t, res.Unparsed)
		assert.Equal(t, response, res.Raw)
	})
}

func TestInterpret_CharacterGraph(t *testing.T) {
	response := `Here is the relationship graph:

{
  "nodes": [
    {"id": "pip", "name": "Pip", "group": 1, "importance": 10},
    {"id": "estella", "name": "Estella", "group": 2, "importance": 8}
  ],
  "links": [
    {"source": "pip", "target": "estella", "type": "unrequited love", "strength": 9, "sentiment": "negative"}
  ]
}

Let me know if you need anything else.`

	res := Interpret(KindCharacterGraph, response)
	require.False(t, res.Unparsed)
	require.NotNil(t, res.Graph)
	require.Len(t, res.Graph.Nodes, 2)
	require.Len(t, res.Graph.Links, 1)
	assert.Equal(t, "pip", res.Graph.Links[0].Source)
	assert.Equal(t, float64(9), res.Graph.Links[0].Strength)
}

func TestExtractJSONSpan(t *testing.T) {
	t.Run("prefers first opener", func(t *testing.T) {
		span, ok := extractJSONSpan(`noise [1, 2] and {"a": 1}`)
		require.True(t, ok)
		assert.Equal(t, `[1, 2]`, span)
	})

	t.Run("unbalanced span runs to end of text", func(t *testing.T) {
		span, ok := extractJSONSpan(`result: {"a": [1, 2]`)
		require.True(t, ok)
		assert.Equal(t, `{"a": [1, 2]`, span)
	})

	t.Run("no brackets", func(t *testing.T) {
		_, ok := extractJSONSpan("plain prose only")
		assert.False(t, ok)
	})
}
