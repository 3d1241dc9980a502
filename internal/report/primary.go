package report

import (
	"fmt"

	"werscore/internal/corpus"
)

// PrimaryLine formats the corpus summary printed after every scoring run:
//
//	%WER 40.00 [ 2 / 5, 1 ins, 1 del, 0 sub ]
func PrimaryLine(stats *corpus.CorpusStats) string {
	subs, dels, ins := stats.Counts()
	return fmt.Sprintf("%%WER %.2f [ %d / %d, %d ins, %d del, %d sub ]",
		stats.WER*100, subs+dels+ins, stats.RefWords, ins, dels, subs)
}
