package textutil

import (
	"slices"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		norm Normalization
		want []string
	}{
		{name: "plain", in: "the cat sat", want: []string{"the", "cat", "sat"}},
		{name: "surrounding_whitespace", in: "  the\tcat \n sat  ", want: []string{"the", "cat", "sat"}},
		{name: "empty", in: "", want: []string{}},
		{name: "only_whitespace", in: " \t\n", want: []string{}},
		{name: "case_preserved_by_default", in: "The Cat", want: []string{"The", "Cat"}},
		{name: "punctuation_kept", in: "hello, world!", want: []string{"hello,", "world!"}},
		{name: "case_fold", in: "The CAT", norm: Normalization{CaseFold: true}, want: []string{"the", "cat"}},
		{name: "nfc", in: "cafe\u0301", norm: Normalization{NFC: true}, want: []string{"caf\u00e9"}},
		{name: "nfc_and_fold", in: "CAFE\u0301", norm: Normalization{NFC: true, CaseFold: true}, want: []string{"caf\u00e9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTokenizer(tt.norm).Tokenize(tt.in)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("Tokenize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenizeWithoutNormalization(t *testing.T) {
	var tk *Tokenizer
	if got := tk.Tokenize(" a  b "); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("nil tokenizer: got %q", got)
	}
	if got := Tokenize("a\u00a0b"); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("expected non-breaking space to split, got %q", got)
	}
}
