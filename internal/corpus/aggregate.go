package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"werscore/internal/align"
	"werscore/internal/logging"
)

// EmptyReferencePolicy decides what happens to utterances whose reference has
// no tokens.
type EmptyReferencePolicy string

const (
	// PolicyAbort fails the run with a *align.DegenerateInputError.
	PolicyAbort EmptyReferencePolicy = "abort"
	// PolicySkip leaves the utterance out of results and totals.
	PolicySkip EmptyReferencePolicy = "skip"
)

// ParsePolicy maps a configuration value to a policy. The empty string selects
// PolicyAbort.
func ParsePolicy(value string) (EmptyReferencePolicy, error) {
	switch EmptyReferencePolicy(value) {
	case "", PolicyAbort:
		return PolicyAbort, nil
	case PolicySkip:
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("unknown empty reference policy %q (want abort or skip)", value)
	}
}

// Options tunes Aggregate.
type Options struct {
	EmptyReference EmptyReferencePolicy
	// Workers bounds concurrent alignments. Values below 2 run sequentially.
	Workers int
	Logger  *slog.Logger
}

// Aggregate aligns every pair and folds the results into corpus statistics.
// Results keep the order of pairs regardless of Workers.
func Aggregate(ctx context.Context, pairs []TokenPair, opts Options) (*CorpusStats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	policy := opts.EmptyReference
	if policy == "" {
		policy = PolicyAbort
	}

	scored := make([]TokenPair, 0, len(pairs))
	var skipped []string
	for _, p := range pairs {
		if len(p.Ref) > 0 {
			scored = append(scored, p)
			continue
		}
		if policy != PolicySkip {
			return nil, &align.DegenerateInputError{ID: p.ID}
		}
		logger.Warn("skipping utterance with empty reference",
			logging.String(logging.FieldUtteranceID, p.ID),
		)
		skipped = append(skipped, p.ID)
	}

	var (
		results []UtteranceResult
		err     error
	)
	if opts.Workers > 1 && len(scored) > 1 {
		results, err = alignParallel(ctx, scored, opts.Workers)
	} else {
		results, err = alignSequential(ctx, scored)
	}
	if err != nil {
		return nil, err
	}

	acc := newAccumulator(len(results))
	for _, r := range results {
		acc.add(r)
	}
	if acc.refWords == 0 {
		return nil, &align.DegenerateInputError{}
	}

	stats := &CorpusStats{
		Utterances: acc.results,
		Tally:      acc.tally,
		RefWords:   acc.refWords,
		Skipped:    skipped,
	}
	stats.WER = float64(stats.Errors()) / float64(stats.RefWords)
	logger.Debug("corpus aggregated",
		logging.Int("utterances", len(stats.Utterances)),
		logging.Int("skipped", len(skipped)),
		logging.Int("reference_words", stats.RefWords),
		logging.Float64("wer", stats.WER),
	)
	return stats, nil
}

func alignSequential(ctx context.Context, pairs []TokenPair) ([]UtteranceResult, error) {
	results := make([]UtteranceResult, 0, len(pairs))
	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := alignPair(p)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func alignParallel(ctx context.Context, pairs []TokenPair, workers int) ([]UtteranceResult, error) {
	results := make([]UtteranceResult, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for idx, p := range pairs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := alignPair(p)
			if err != nil {
				return err
			}
			results[idx] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// A cancelled parent may stop dispatch before any task observes it.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func alignPair(p TokenPair) (UtteranceResult, error) {
	res, err := align.Align(p.Ref, p.Hyp)
	if err != nil {
		var degenerate *align.DegenerateInputError
		if errors.As(err, &degenerate) {
			degenerate.ID = p.ID
		}
		return UtteranceResult{}, fmt.Errorf("align utterance %s: %w", p.ID, err)
	}
	return UtteranceResult{
		ID:    p.ID,
		Ref:   p.Ref,
		Hyp:   p.Hyp,
		WER:   res.WER,
		Tally: res.Tally,
	}, nil
}
