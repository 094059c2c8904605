package text

import (
	"strings"
	"unicode"
)

// Tokens represents a slice of strings
type Tokens []string

// TokenFunc transforms a token stream.
type TokenFunc func(Tokens) Tokens

// Processor applies a chain of token functions.
type Processor struct {
	filters []TokenFunc
}

// NewProcessor creates a processor for the given token functions.
func NewProcessor(funcs ...TokenFunc) *Processor {
	return &Processor{filters: funcs}
}

// Apply runs the chain over the tokens.
func (p *Processor) Apply(ts Tokens) Tokens {
	for _, fn := range p.filters {
		ts = fn(ts)
	}
	return ts
}

// Tokenize splits the text into word tokens of at least two characters.
// Words are runs of letters, digits and underscores.
func Tokenize(s string) Tokens {
	tokens := make(Tokens, 0)
	start := -1
	runes := 0
	flush := func(end int) {
		if start >= 0 && runes >= 2 {
			tokens = append(tokens, s[start:end])
		}
		start = -1
		runes = 0
	}
	for i, r := range s {
		if isWord(r) {
			if start < 0 {
				start = i
			}
			runes++
			continue
		}
		flush(i)
	}
	flush(len(s))
	return tokens
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Lower lower-cases every token.
func Lower(ts Tokens) Tokens {
	for i, t := range ts {
		ts[i] = strings.ToLower(t)
	}
	return ts
}

// RemoveStopWords drops the english stop words.
func RemoveStopWords(ts Tokens) Tokens {
	filtered := ts[:0]
	for _, t := range ts {
		if !IsStopWord(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// RemovePunctuation drops tokens made only of punctuation or symbols.
func RemovePunctuation(ts Tokens) Tokens {
	filtered := ts[:0]
	for _, t := range ts {
		if strings.IndexFunc(t, func(r rune) bool {
			return !unicode.IsPunct(r) && !unicode.IsSymbol(r)
		}) >= 0 {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// NGrams joins consecutive tokens into n-grams separated by a space.
func NGrams(n int, ts Tokens) Tokens {
	if n <= 1 {
		return ts
	}
	if len(ts) < n {
		return Tokens{}
	}
	grams := make(Tokens, 0, len(ts)-n+1)
	for i := 0; i+n <= len(ts); i++ {
		grams = append(grams, strings.Join(ts[i:i+n], " "))
	}
	return grams
}
