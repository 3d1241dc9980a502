package corpus_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"werscore/internal/align"
	"werscore/internal/corpus"
	"werscore/internal/tally"
	"werscore/internal/textutil"
	"werscore/internal/transcript"
)

func mustParse(t *testing.T, source, doc string) *transcript.Set {
	t.Helper()
	set, err := transcript.Parse(source, []byte(doc))
	if err != nil {
		t.Fatalf("parse %s: %v", source, err)
	}
	return set
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestAggregateTwoUtteranceCorpus(t *testing.T) {
	pairs := []corpus.TokenPair{
		{ID: "u1", Ref: []string{"a", "b", "c"}, Hyp: []string{"a", "c"}},
		{ID: "u2", Ref: []string{"a", "b"}, Hyp: []string{"a", "b", "c"}},
	}

	stats, err := corpus.Aggregate(context.Background(), pairs, corpus.Options{})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !approxEqual(stats.WER, 0.4) {
		t.Fatalf("corpus WER = %v, want 0.4", stats.WER)
	}
	if stats.RefWords != 5 {
		t.Fatalf("RefWords = %d, want 5", stats.RefWords)
	}
	subs, dels, ins := stats.Counts()
	if subs != 0 || dels != 1 || ins != 1 {
		t.Fatalf("counts = (%d,%d,%d), want (0,1,1)", subs, dels, ins)
	}
	if stats.Tally.Deletions["b"] != 1 || stats.Tally.Insertions["c"] != 1 {
		t.Fatalf("unexpected tally %+v", stats.Tally)
	}
	if len(stats.Utterances) != 2 || stats.Utterances[0].ID != "u1" || stats.Utterances[1].ID != "u2" {
		t.Fatalf("unexpected utterance order: %+v", stats.Utterances)
	}
	if !approxEqual(stats.Utterances[0].WER, 1.0/3.0) || !approxEqual(stats.Utterances[1].WER, 0.5) {
		t.Fatalf("unexpected utterance WERs: %v, %v", stats.Utterances[0].WER, stats.Utterances[1].WER)
	}
}

func TestAggregateEmptyReferenceAbort(t *testing.T) {
	pairs := []corpus.TokenPair{
		{ID: "u1", Ref: []string{"a"}, Hyp: []string{"a"}},
		{ID: "blank", Ref: nil, Hyp: []string{"x"}},
	}
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers_%d", workers), func(t *testing.T) {
			_, err := corpus.Aggregate(context.Background(), pairs, corpus.Options{Workers: workers})
			if !errors.Is(err, align.ErrDegenerateInput) {
				t.Fatalf("expected degenerate input, got %v", err)
			}
			var degenerate *align.DegenerateInputError
			if !errors.As(err, &degenerate) || degenerate.ID != "blank" {
				t.Fatalf("expected error naming blank, got %v", err)
			}
		})
	}
}

func TestAggregateEmptyReferenceSkip(t *testing.T) {
	pairs := []corpus.TokenPair{
		{ID: "u1", Ref: []string{"a", "b"}, Hyp: []string{"a", "x"}},
		{ID: "blank", Ref: []string{}, Hyp: []string{"noise", "noise"}},
	}
	stats, err := corpus.Aggregate(context.Background(), pairs, corpus.Options{EmptyReference: corpus.PolicySkip})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !slices.Equal(stats.Skipped, []string{"blank"}) {
		t.Fatalf("Skipped = %v", stats.Skipped)
	}
	if stats.RefWords != 2 || !approxEqual(stats.WER, 0.5) {
		t.Fatalf("skipped utterance leaked into totals: N=%d WER=%v", stats.RefWords, stats.WER)
	}
	if len(stats.Tally.Insertions) != 0 {
		t.Fatalf("skipped insertions counted: %+v", stats.Tally.Insertions)
	}
}

func TestAggregateWithoutReferenceWords(t *testing.T) {
	tests := []struct {
		name  string
		pairs []corpus.TokenPair
	}{
		{name: "empty_corpus"},
		{name: "all_skipped", pairs: []corpus.TokenPair{{ID: "x", Hyp: []string{"a"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := corpus.Aggregate(context.Background(), tt.pairs, corpus.Options{EmptyReference: corpus.PolicySkip})
			var degenerate *align.DegenerateInputError
			if !errors.As(err, &degenerate) || degenerate.ID != "" {
				t.Fatalf("expected corpus-level degenerate error, got %v", err)
			}
		})
	}
}

func TestAggregateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pairs := randomPairs(rand.New(rand.NewPCG(1, 2)), 8)
	for _, workers := range []int{1, 3} {
		_, err := corpus.Aggregate(ctx, pairs, corpus.Options{Workers: workers})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
	}
}

func TestAggregateParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	pairs := randomPairs(rng, 64)

	seq, err := corpus.Aggregate(context.Background(), pairs, corpus.Options{Workers: 1})
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	par, err := corpus.Aggregate(context.Background(), pairs, corpus.Options{Workers: 8})
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if seq.WER != par.WER || seq.RefWords != par.RefWords {
		t.Fatalf("totals differ: seq=(%v,%d) par=(%v,%d)", seq.WER, seq.RefWords, par.WER, par.RefWords)
	}
	if !seq.Tally.Equal(par.Tally) {
		t.Fatalf("tallies differ")
	}
	if len(seq.Utterances) != len(par.Utterances) {
		t.Fatalf("utterance counts differ: %d vs %d", len(seq.Utterances), len(par.Utterances))
	}
	for i := range seq.Utterances {
		a, b := seq.Utterances[i], par.Utterances[i]
		if a.ID != b.ID || a.WER != b.WER || !a.Tally.Equal(b.Tally) {
			t.Fatalf("utterance %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestAggregateOrderIndependence(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	pairs := randomPairs(rng, 32)

	base, err := corpus.Aggregate(context.Background(), pairs, corpus.Options{})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	for range 5 {
		shuffled := slices.Clone(pairs)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got, err := corpus.Aggregate(context.Background(), shuffled, corpus.Options{})
		if err != nil {
			t.Fatalf("Aggregate shuffled: %v", err)
		}
		if got.WER != base.WER || got.RefWords != base.RefWords || !got.Tally.Equal(base.Tally) {
			t.Fatalf("permutation changed corpus totals")
		}
	}
}

func TestAggregateMatchesMergedUtteranceTallies(t *testing.T) {
	pairs := randomPairs(rand.New(rand.NewPCG(9, 9)), 16)
	stats, err := corpus.Aggregate(context.Background(), pairs, corpus.Options{})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	merged := tally.New()
	for _, u := range stats.Utterances {
		merged = merged.Merge(u.Tally)
	}
	if !merged.Equal(stats.Tally) {
		t.Fatalf("corpus tally is not the merge of utterance tallies")
	}
}

func TestPair(t *testing.T) {
	refs := mustParse(t, "ref.json", `{"u2": "The cat", "u1": "a b"}`)
	hyps := mustParse(t, "hyp.json", `{"u1": "a", "u2": "the CAT", "extra": "ignored"}`)

	pairs, err := corpus.Pair(refs, hyps, textutil.NewTokenizer(textutil.Normalization{CaseFold: true}), nil)
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].ID != "u2" || pairs[1].ID != "u1" {
		t.Fatalf("pairs not in reference order: %+v", pairs)
	}
	if !slices.Equal(pairs[0].Ref, []string{"the", "cat"}) || !slices.Equal(pairs[0].Hyp, []string{"the", "cat"}) {
		t.Fatalf("unexpected tokens: %+v", pairs[0])
	}
}

func TestPairMissingHypothesis(t *testing.T) {
	refs := mustParse(t, "ref.json", `{"u1": "a", "u2": "b"}`)
	hyps := mustParse(t, "hyp.json", `{"u1": "a"}`)

	_, err := corpus.Pair(refs, hyps, nil, nil)
	if !errors.Is(err, corpus.ErrMissingHypothesis) {
		t.Fatalf("expected missing hypothesis, got %v", err)
	}
	var missing *corpus.MissingHypothesisError
	if !errors.As(err, &missing) || missing.ID != "u2" {
		t.Fatalf("expected error naming u2, got %v", err)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    corpus.EmptyReferencePolicy
		wantErr bool
	}{
		{in: "", want: corpus.PolicyAbort},
		{in: "abort", want: corpus.PolicyAbort},
		{in: "skip", want: corpus.PolicySkip},
		{in: "ignore", wantErr: true},
	}
	for _, tt := range tests {
		got, err := corpus.ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParsePolicy(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParsePolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func randomPairs(rng *rand.Rand, n int) []corpus.TokenPair {
	vocab := []string{"a", "b", "c", "d", "e"}
	words := func(lo, hi int) []string {
		out := make([]string, lo+rng.IntN(hi-lo+1))
		for i := range out {
			out[i] = vocab[rng.IntN(len(vocab))]
		}
		return out
	}
	pairs := make([]corpus.TokenPair, n)
	for i := range pairs {
		pairs[i] = corpus.TokenPair{
			ID:  fmt.Sprintf("utt%03d", i),
			Ref: words(1, 8),
			Hyp: words(0, 8),
		}
	}
	return pairs
}
