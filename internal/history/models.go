package history

import (
	"time"

	"werscore/internal/corpus"
)

// Options records the scoring settings a run was produced with.
type Options struct {
	EmptyReference string `json:"empty_reference,omitempty" yaml:"empty_reference,omitempty"`
	CaseFold       bool   `json:"case_fold,omitempty" yaml:"case_fold,omitempty"`
	UnicodeNFC     bool   `json:"unicode_nfc,omitempty" yaml:"unicode_nfc,omitempty"`
	Workers        int    `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// Run is the stored summary of one scoring run.
type Run struct {
	ID             string    `json:"id" yaml:"id"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
	ReferencePath  string    `json:"reference,omitempty" yaml:"reference,omitempty"`
	HypothesisPath string    `json:"hypothesis,omitempty" yaml:"hypothesis,omitempty"`
	WER            float64   `json:"wer" yaml:"wer"`
	ReferenceWords int       `json:"reference_words" yaml:"reference_words"`
	Substitutions  int       `json:"substitutions" yaml:"substitutions"`
	Deletions      int       `json:"deletions" yaml:"deletions"`
	Insertions     int       `json:"insertions" yaml:"insertions"`
	UtteranceCount int       `json:"utterance_count" yaml:"utterance_count"`
	Skipped        []string  `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Options        Options   `json:"options" yaml:"options"`
}

// Errors returns S+D+I for the run.
func (r Run) Errors() int {
	return r.Substitutions + r.Deletions + r.Insertions
}

// UtteranceRow is the stored outcome for one utterance of a run.
type UtteranceRow struct {
	Position        int     `json:"position" yaml:"position"`
	UtteranceID     string  `json:"id" yaml:"id"`
	WER             float64 `json:"wer" yaml:"wer"`
	ReferenceWords  int     `json:"reference_words" yaml:"reference_words"`
	HypothesisWords int     `json:"hypothesis_words" yaml:"hypothesis_words"`
	Substitutions   int     `json:"substitutions" yaml:"substitutions"`
	Deletions       int     `json:"deletions" yaml:"deletions"`
	Insertions      int     `json:"insertions" yaml:"insertions"`
}

// RunDetail is a run together with its utterance rows in processing order.
type RunDetail struct {
	Run        `yaml:",inline"`
	Utterances []UtteranceRow `json:"utterances" yaml:"utterances"`
}

// NewRunDetail captures stats for storage. ID and CreatedAt are assigned by
// Store.Record when left empty.
func NewRunDetail(stats *corpus.CorpusStats, refPath, hypPath string, opts Options) RunDetail {
	subs, dels, ins := stats.Counts()
	detail := RunDetail{
		Run: Run{
			ReferencePath:  refPath,
			HypothesisPath: hypPath,
			WER:            stats.WER,
			ReferenceWords: stats.RefWords,
			Substitutions:  subs,
			Deletions:      dels,
			Insertions:     ins,
			UtteranceCount: len(stats.Utterances),
			Skipped:        stats.Skipped,
			Options:        opts,
		},
		Utterances: make([]UtteranceRow, 0, len(stats.Utterances)),
	}
	for idx, u := range stats.Utterances {
		s, d, i := u.Tally.Counts()
		detail.Utterances = append(detail.Utterances, UtteranceRow{
			Position:        idx,
			UtteranceID:     u.ID,
			WER:             u.WER,
			ReferenceWords:  len(u.Ref),
			HypothesisWords: len(u.Hyp),
			Substitutions:   s,
			Deletions:       d,
			Insertions:      i,
		})
	}
	return detail
}
