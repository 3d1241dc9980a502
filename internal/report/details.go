package report

import (
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"werscore/internal/corpus"
	"werscore/internal/fileutil"
	"werscore/internal/tally"
)

const detailsPerm os.FileMode = 0o644

var blockSeparator = "\n" + strings.Repeat("+", 80) + "\n\n"

// FormatDetails renders one block per utterance in processing order. The
// result ends with a newline.
func FormatDetails(stats *corpus.CorpusStats) string {
	var b strings.Builder
	for idx, u := range stats.Utterances {
		if idx > 0 {
			b.WriteString(blockSeparator)
		}
		writeUtterance(&b, u)
	}
	b.WriteByte('\n')
	return b.String()
}

// WriteDetails writes the detail report to w.
func WriteDetails(w io.Writer, stats *corpus.CorpusStats) error {
	_, err := io.WriteString(w, FormatDetails(stats))
	return err
}

// SaveDetails writes the detail report to path atomically.
func SaveDetails(path string, stats *corpus.CorpusStats) error {
	return fileutil.WriteFileAtomic(path, []byte(FormatDetails(stats)), detailsPerm)
}

func writeUtterance(b *strings.Builder, u corpus.UtteranceResult) {
	b.WriteString(u.ID)
	b.WriteString("\nref: ")
	b.WriteString(strings.Join(u.Ref, " "))
	b.WriteString("\nhyp: ")
	b.WriteString(strings.Join(u.Hyp, " "))
	b.WriteString("\n\n# WER: ")
	b.WriteString(formatRate(u.WER))

	b.WriteString("\n# SUBS:")
	for i, e := range tally.SortedSubstitutions(u.Tally.Substitutions) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("((")
		b.WriteString(quote(e.Key.Ref))
		b.WriteString(", ")
		b.WriteString(quote(e.Key.Hyp))
		b.WriteString("), ")
		b.WriteString(strconv.Itoa(e.Count))
		b.WriteByte(')')
	}
	b.WriteString("\n# DELS:")
	writeTokenCounts(b, u.Tally.Deletions)
	b.WriteString("\n# INS:")
	writeTokenCounts(b, u.Tally.Insertions)
}

func writeTokenCounts(b *strings.Builder, m map[string]int) {
	for i, e := range tally.Sorted(m) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('(')
		b.WriteString(quote(e.Key))
		b.WriteString(", ")
		b.WriteString(strconv.Itoa(e.Count))
		b.WriteByte(')')
	}
}

// formatRate renders the shortest decimal that round-trips, always with a
// fractional part or exponent so integral rates read as 1.0 rather than 1.
func formatRate(v float64) string {
	abs := math.Abs(v)
	if v != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// quote renders a token as a single-quoted literal, switching to double quotes
// when the token holds a single quote and no double quote.
func quote(s string) string {
	q := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		q = '"'
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(q)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			b.WriteString(`\x`)
			b.WriteString(hex2(uint64(s[i])))
		case r == '\\' || r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case unicode.IsPrint(r):
			b.WriteRune(r)
		case r < 0x100:
			b.WriteString(`\x`)
			b.WriteString(hex2(uint64(r)))
		case r < 0x10000:
			b.WriteString(`\u`)
			b.WriteString(padHex(uint64(r), 4))
		default:
			b.WriteString(`\U`)
			b.WriteString(padHex(uint64(r), 8))
		}
		i += size
	}
	b.WriteByte(q)
	return b.String()
}

func hex2(v uint64) string { return padHex(v, 2) }

func padHex(v uint64, width int) string {
	s := strconv.FormatUint(v, 16)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}
