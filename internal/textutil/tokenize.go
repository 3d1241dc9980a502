package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalization selects the transforms applied before splitting.
type Normalization struct {
	CaseFold bool
	NFC      bool
}

// Tokenizer splits text into word tokens. The zero value splits on whitespace
// only. A Tokenizer is safe for concurrent use.
type Tokenizer struct {
	norm Normalization
}

// NewTokenizer returns a tokenizer applying the requested normalization.
func NewTokenizer(n Normalization) *Tokenizer {
	return &Tokenizer{norm: n}
}

// Tokenize normalizes text and splits it on whitespace. Leading and trailing
// whitespace never produce empty tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	if t != nil {
		if t.norm.NFC {
			text = norm.NFC.String(text)
		}
		if t.norm.CaseFold {
			// Casers keep state and must not be shared between goroutines.
			text = cases.Fold().String(text)
		}
	}
	return strings.Fields(text)
}

// Tokenize splits text on whitespace without normalization.
func Tokenize(text string) []string {
	return strings.Fields(text)
}
