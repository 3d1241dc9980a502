package align

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateInput marks alignments whose WER is undefined because the
	// reference holds no tokens.
	ErrDegenerateInput = errors.New("degenerate input")
	// ErrInternalInvariant marks a backtrace that reached a cell no transition
	// rule explains. It indicates a defective distance matrix.
	ErrInternalInvariant = errors.New("internal invariant violated")
)

// DegenerateInputError reports an empty reference. ID names the utterance when
// known; an empty ID refers to a whole corpus without reference words.
type DegenerateInputError struct {
	ID string
}

func (e *DegenerateInputError) Error() string {
	if e.ID == "" {
		return "degenerate input: no reference words, WER is undefined"
	}
	return fmt.Sprintf("degenerate input: utterance %q has an empty reference, WER is undefined", e.ID)
}

func (e *DegenerateInputError) Is(target error) bool { return target == ErrDegenerateInput }

// InternalInvariantError carries the matrix cell at which the backtrace stalled.
type InternalInvariantError struct {
	I, J int
	Cell int
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated: backtrace stuck at (%d, %d) with cost %d", e.I, e.J, e.Cell)
}

func (e *InternalInvariantError) Is(target error) bool { return target == ErrInternalInvariant }
