package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runeTokenizer treats every rune as one token. Deterministic and offline,
// unlike the BPE tables tiktoken fetches at runtime.
type runeTokenizer struct{}

func (runeTokenizer) Encode(text string) []int {
	runes := []rune(text)
	tokens := make([]int, len(runes))
	for i, r := range runes {
		tokens[i] = int(r)
	}
	return tokens
}

func (runeTokenizer) Decode(tokens []int) string {
	runes := make([]rune, len(tokens))
	for i, t := range tokens {
		runes[i] = rune(t)
	}
	return string(runes)
}

func TestSplitByTokensReconstructsInput(t *testing.T) {
	tok := runeTokenizer{}
	text := strings.Repeat("The righteous path is walked one step at a time. ", 40)

	for _, maxTokens := range []int{1, 7, 100, 500, 10000} {
		chunks := SplitByTokens(tok, text, maxTokens)

		var rebuilt []int
		for _, c := range chunks {
			tokens := tok.Encode(c)
			assert.LessOrEqual(t, len(tokens), maxTokens)
			rebuilt = append(rebuilt, tokens...)
		}
		require.Equal(t, tok.Encode(text), rebuilt, "maxTokens=%d: no loss, no duplication", maxTokens)
	}
}

func TestSplitByTokensWindowSizes(t *testing.T) {
	tok := runeTokenizer{}
	chunks := SplitByTokens(tok, "abcdefgh", 3)

	require.Equal(t, []string{"abc", "def", "gh"}, chunks, "last window may be shorter")
}

func TestSplitByTokensEmptyInput(t *testing.T) {
	assert.Nil(t, SplitByTokens(runeTokenizer{}, "", 500))
}
