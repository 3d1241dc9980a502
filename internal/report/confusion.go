package report

import (
	"strings"

	"werscore/internal/corpus"
	"werscore/internal/tally"
)

// Confusions holds the most frequent corpus errors per category.
type Confusions struct {
	Substitutions []tally.Entry[tally.SubstitutionKey]
	Deletions     []tally.Entry[string]
	Insertions    []tally.Entry[string]
}

// TopConfusions returns at most n entries per category, most frequent first
// with ties in key order. A negative n keeps every entry.
func TopConfusions(stats *corpus.CorpusStats, n int) Confusions {
	return Confusions{
		Substitutions: tally.Top(tally.SortedSubstitutions(stats.Tally.Substitutions), n, tally.SubstitutionKey.Compare),
		Deletions:     tally.Top(tally.Sorted(stats.Tally.Deletions), n, strings.Compare),
		Insertions:    tally.Top(tally.Sorted(stats.Tally.Insertions), n, strings.Compare),
	}
}

// Empty reports whether no category holds an entry.
func (c Confusions) Empty() bool {
	return len(c.Substitutions) == 0 && len(c.Deletions) == 0 && len(c.Insertions) == 0
}
