package corpus

import (
	"errors"
	"fmt"
)

// ErrMissingHypothesis marks a reference utterance without a hypothesis.
var ErrMissingHypothesis = errors.New("missing hypothesis")

// MissingHypothesisError names the reference id that has no hypothesis.
type MissingHypothesisError struct {
	ID string
}

func (e *MissingHypothesisError) Error() string {
	return fmt.Sprintf("missing hypothesis: reference utterance %q has no hypothesis", e.ID)
}

func (e *MissingHypothesisError) Is(target error) bool { return target == ErrMissingHypothesis }
