package internal

import (
	"github.com/pkoukk/tiktoken-go"
)

// encodingName is the tokenization scheme of text-embedding-3-small.
const encodingName = "cl100k_base"

// Tokenizer is the encode/decode seam of the chunker. Production code uses
// tiktoken; tests substitute a deterministic fake.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type TikToken struct {
	enc *tiktoken.Tiktoken
}

func NewTokenizer() (*TikToken, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return &TikToken{enc: enc}, nil
}

func (t *TikToken) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

func (t *TikToken) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// SplitByTokens partitions text into contiguous windows of at most
// maxTokens tokens, no overlap. Decoding all windows in order reproduces
// the original token stream exactly; the last window may be shorter.
func SplitByTokens(tok Tokenizer, text string, maxTokens int) []string {
	tokens := tok.Encode(text)
	if len(tokens) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(tokens)+maxTokens-1)/maxTokens)
	for i := 0; i < len(tokens); i += maxTokens {
		end := i + maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, tok.Decode(tokens[i:end]))
	}
	return chunks
}
