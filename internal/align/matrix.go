package align

// DistanceMatrix holds the Levenshtein cost table for a reference/hypothesis
// pair. Cell (i, j) is the minimum number of edits aligning ref[:i] with
// hyp[:j]. Rows index the reference, columns the hypothesis.
type DistanceMatrix struct {
	rows  int
	cols  int
	cells []int
}

// NewDistanceMatrix fills the cost table with unit costs for substitution,
// insertion, and deletion and zero cost for an exact token match.
func NewDistanceMatrix(ref, hyp []string) *DistanceMatrix {
	m := &DistanceMatrix{
		rows:  len(ref) + 1,
		cols:  len(hyp) + 1,
		cells: make([]int, (len(ref)+1)*(len(hyp)+1)),
	}
	for i := 0; i < m.rows; i++ {
		m.set(i, 0, i)
	}
	for j := 0; j < m.cols; j++ {
		m.set(0, j, j)
	}

	for i := 1; i < m.rows; i++ {
		for j := 1; j < m.cols; j++ {
			if ref[i-1] == hyp[j-1] {
				m.set(i, j, m.At(i-1, j-1))
				continue
			}
			sub := m.At(i-1, j-1) + 1
			ins := m.At(i, j-1) + 1
			del := m.At(i-1, j) + 1
			m.set(i, j, min(sub, ins, del))
		}
	}
	return m
}

// Rows returns len(ref)+1.
func (m *DistanceMatrix) Rows() int { return m.rows }

// Cols returns len(hyp)+1.
func (m *DistanceMatrix) Cols() int { return m.cols }

// At returns the cost stored at (i, j).
func (m *DistanceMatrix) At(i, j int) int { return m.cells[i*m.cols+j] }

// Distance returns the edit distance of the full sequences.
func (m *DistanceMatrix) Distance() int { return m.At(m.rows-1, m.cols-1) }

func (m *DistanceMatrix) set(i, j, v int) { m.cells[i*m.cols+j] = v }
