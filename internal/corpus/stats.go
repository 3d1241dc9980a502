package corpus

import (
	"werscore/internal/tally"
)

// UtteranceResult is the alignment outcome for one utterance. It is created
// once by the aggregator and never modified afterwards.
type UtteranceResult struct {
	ID    string
	Ref   []string
	Hyp   []string
	WER   float64
	Tally tally.ErrorTally
}

// CorpusStats holds per-utterance results in processing order plus merged
// corpus totals.
type CorpusStats struct {
	Utterances []UtteranceResult
	Tally      tally.ErrorTally
	RefWords   int
	WER        float64
	// Skipped lists utterances left out under the skip empty-reference policy.
	Skipped []string
}

// Counts returns the corpus totals (S, D, I).
func (s *CorpusStats) Counts() (subs, dels, ins int) {
	return s.Tally.Counts()
}

// Errors returns S+D+I over the corpus.
func (s *CorpusStats) Errors() int {
	return s.Tally.Errors()
}

// accumulator carries running corpus totals while results are folded in.
type accumulator struct {
	tally    tally.ErrorTally
	refWords int
	results  []UtteranceResult
}

func newAccumulator(capacity int) *accumulator {
	return &accumulator{
		tally:   tally.New(),
		results: make([]UtteranceResult, 0, capacity),
	}
}

func (a *accumulator) add(r UtteranceResult) {
	a.results = append(a.results, r)
	a.tally.Add(r.Tally)
	a.refWords += len(r.Ref)
}
