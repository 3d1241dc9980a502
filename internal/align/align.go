package align

import (
	"werscore/internal/tally"
)

// Result is the outcome of aligning one reference/hypothesis pair.
type Result struct {
	WER      float64
	Tally    tally.ErrorTally
	Distance int
	RefWords int
}

// Align computes the edit distance between ref and hyp, classifies every edit,
// and derives the word error rate. An empty reference yields a
// *DegenerateInputError because the rate would divide by zero.
func Align(ref, hyp []string) (Result, error) {
	if len(ref) == 0 {
		return Result{}, &DegenerateInputError{}
	}

	m := NewDistanceMatrix(ref, hyp)
	t, err := Backtrace(m, ref, hyp)
	if err != nil {
		return Result{}, err
	}

	errs := t.Errors()
	return Result{
		WER:      float64(errs) / float64(len(ref)),
		Tally:    t,
		Distance: m.Distance(),
		RefWords: len(ref),
	}, nil
}

// Backtrace walks m from its last cell to the origin and tallies the edits on
// the way. The first applicable rule wins at each step:
//
//  1. matching tokens with unchanged cost advance diagonally
//  2. insertion of hyp[j-1]
//  3. deletion of ref[i-1]
//  4. substitution of ref[i-1] by hyp[j-1]
//
// Any other state means m was not built from ref and hyp and is reported as an
// *InternalInvariantError.
func Backtrace(m *DistanceMatrix, ref, hyp []string) (tally.ErrorTally, error) {
	t := tally.New()
	i, j := len(ref), len(hyp)
	if m.Rows() != i+1 || m.Cols() != j+1 {
		return tally.ErrorTally{}, &InternalInvariantError{I: i, J: j, Cell: -1}
	}

	for i > 0 || j > 0 {
		cell := m.At(i, j)
		switch {
		case i > 0 && j > 0 && ref[i-1] == hyp[j-1] && cell == m.At(i-1, j-1):
			i--
			j--
		case j > 0 && cell == m.At(i, j-1)+1:
			t.Insertions[hyp[j-1]]++
			j--
		case i > 0 && cell == m.At(i-1, j)+1:
			t.Deletions[ref[i-1]]++
			i--
		case i > 0 && j > 0 && cell == m.At(i-1, j-1)+1:
			t.Substitutions[tally.SubstitutionKey{Ref: ref[i-1], Hyp: hyp[j-1]}]++
			i--
			j--
		default:
			return tally.ErrorTally{}, &InternalInvariantError{I: i, J: j, Cell: cell}
		}
	}
	return t, nil
}
