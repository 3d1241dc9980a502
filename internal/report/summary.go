package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"werscore/internal/corpus"
)

// Summary is the structured form of a scoring run.
type Summary struct {
	RunID          string             `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	CreatedAt      time.Time          `json:"created_at,omitzero" yaml:"created_at,omitempty"`
	Reference      string             `json:"reference,omitempty" yaml:"reference,omitempty"`
	Hypothesis     string             `json:"hypothesis,omitempty" yaml:"hypothesis,omitempty"`
	WER            float64            `json:"wer" yaml:"wer"`
	Errors         int                `json:"errors" yaml:"errors"`
	ReferenceWords int                `json:"reference_words" yaml:"reference_words"`
	Substitutions  int                `json:"substitutions" yaml:"substitutions"`
	Deletions      int                `json:"deletions" yaml:"deletions"`
	Insertions     int                `json:"insertions" yaml:"insertions"`
	Skipped        []string           `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Utterances     []UtteranceSummary `json:"utterances" yaml:"utterances"`
}

// UtteranceSummary is one per-utterance row of a Summary.
type UtteranceSummary struct {
	ID              string  `json:"id" yaml:"id"`
	WER             float64 `json:"wer" yaml:"wer"`
	ReferenceWords  int     `json:"reference_words" yaml:"reference_words"`
	HypothesisWords int     `json:"hypothesis_words" yaml:"hypothesis_words"`
	Substitutions   int     `json:"substitutions" yaml:"substitutions"`
	Deletions       int     `json:"deletions" yaml:"deletions"`
	Insertions      int     `json:"insertions" yaml:"insertions"`
}

// NewSummary flattens stats into a Summary. Run metadata is left for the
// caller to fill in.
func NewSummary(stats *corpus.CorpusStats) Summary {
	subs, dels, ins := stats.Counts()
	out := Summary{
		WER:            stats.WER,
		Errors:         subs + dels + ins,
		ReferenceWords: stats.RefWords,
		Substitutions:  subs,
		Deletions:      dels,
		Insertions:     ins,
		Skipped:        stats.Skipped,
		Utterances:     make([]UtteranceSummary, 0, len(stats.Utterances)),
	}
	for _, u := range stats.Utterances {
		s, d, i := u.Tally.Counts()
		out.Utterances = append(out.Utterances, UtteranceSummary{
			ID:              u.ID,
			WER:             u.WER,
			ReferenceWords:  len(u.Ref),
			HypothesisWords: len(u.Hyp),
			Substitutions:   s,
			Deletions:       d,
			Insertions:      i,
		})
	}
	return out
}

// Format selects the summary encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates an output format name.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return Format(value), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", value)
	}
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML encodes v as a YAML document.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
