package compressor

import (
	"regexp"
	"strings"
)

// emotionWords is the fixed vocabulary used as a proxy for emotionally
// charged passages.
var emotionWords = []string{
	"love", "hate", "fear", "joy", "anger", "angry", "sad", "happy",
	"despair", "hope", "grief", "passion", "terror", "delight", "sorrow",
	"rage", "envy", "shame", "pride", "longing", "dread", "anguish",
	"misery", "ecstasy", "bitter", "tender", "weep", "tears", "trembl",
}

// thematicWords is the fixed vocabulary of abstract, theme-bearing terms.
var thematicWords = []string{
	"death", "life", "love", "time", "fate", "destiny", "freedom",
	"justice", "truth", "beauty", "nature", "society", "power", "faith",
	"god", "soul", "memory", "honor", "duty", "sacrifice", "redemption",
	"innocence", "guilt", "corruption", "solitude", "suffering", "morality",
	"conscience", "virtue", "sin",
}

// narrativeVerbs marks sentences that carry plot forward.
var narrativeVerbs = []string{
	"said", "went", "came", "saw", "looked", "thought", "felt", "knew",
	"asked", "told", "turned", "walked", "returned", "found", "left",
	"began", "took", "gave", "heard", "replied",
}

var (
	emotionRe  = wordListRegexp(emotionWords)
	thematicRe = wordListRegexp(thematicWords)
)

func wordListRegexp(words []string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(` + strings.Join(words, "|") + `)`)
}

// containsAnyWord reports, per list entry, whether it occurs in text at all;
// the return value is the number of distinct list words present, not the
// total match count.
func containsAnyWord(text string, words []string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}
