package summarizer

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/sentences"
	"github.com/clipperhouse/uax29/v2/words"
)

// Sentence is one extracted sentence with its normalized (lowercased) words.
type Sentence struct {
	Text  string
	Words []string
}

// splitSentences segments a block of text on Unicode sentence boundaries.
// Fragments with no word in them (stray punctuation, bullets) are dropped.
func splitSentences(block string) []Sentence {
	block = strings.Join(strings.Fields(block), " ")
	if block == "" {
		return nil
	}

	var out []Sentence
	segments := sentences.FromString(block)
	for segments.Next() {
		text := strings.TrimSpace(segments.Value())
		if text == "" {
			continue
		}
		w := splitWords(text)
		if len(w) == 0 {
			continue
		}
		out = append(out, Sentence{Text: text, Words: w})
	}
	return out
}

// splitWords returns the lowercased word tokens of a sentence. A token counts
// as a word when it contains at least one letter.
func splitWords(sentence string) []string {
	var out []string
	tokens := words.FromString(sentence)
	for tokens.Next() {
		tok := tokens.Value()
		if !hasLetter(tok) {
			continue
		}
		out = append(out, strings.ToLower(tok))
	}
	return out
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
