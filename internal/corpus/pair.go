package corpus

import (
	"log/slog"

	"werscore/internal/logging"
	"werscore/internal/textutil"
	"werscore/internal/transcript"
)

// TokenPair is one tokenized reference/hypothesis couple.
type TokenPair struct {
	ID  string
	Ref []string
	Hyp []string
}

// Pair matches every reference utterance with its hypothesis in reference
// order and tokenizes both sides. Hypotheses without a reference are ignored.
func Pair(refs, hyps *transcript.Set, tok *textutil.Tokenizer, logger *slog.Logger) ([]TokenPair, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	pairs := make([]TokenPair, 0, refs.Len())
	for _, ref := range refs.Utterances {
		hypText, ok := hyps.Lookup(ref.ID)
		if !ok {
			return nil, &MissingHypothesisError{ID: ref.ID}
		}
		pairs = append(pairs, TokenPair{
			ID:  ref.ID,
			Ref: tok.Tokenize(ref.Text),
			Hyp: tok.Tokenize(hypText),
		})
	}
	if extra := hyps.Len() - len(pairs); extra > 0 {
		logger.Debug("hypotheses without reference ignored", logging.Int("count", extra))
	}
	return pairs, nil
}
