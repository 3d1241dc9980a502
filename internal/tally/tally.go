package tally

import (
	"cmp"
	"slices"
)

// SubstitutionKey identifies a reference token replaced by a hypothesis token.
type SubstitutionKey struct {
	Ref string
	Hyp string
}

// Compare orders keys by reference token, then hypothesis token.
func (k SubstitutionKey) Compare(other SubstitutionKey) int {
	if c := cmp.Compare(k.Ref, other.Ref); c != 0 {
		return c
	}
	return cmp.Compare(k.Hyp, other.Hyp)
}

// ErrorTally groups the three independent error mappings for one utterance or
// a whole corpus. Counts are always positive; absent keys mean zero.
type ErrorTally struct {
	Substitutions map[SubstitutionKey]int
	Deletions     map[string]int
	Insertions    map[string]int
}

// New returns an empty tally with allocated maps.
func New() ErrorTally {
	return ErrorTally{
		Substitutions: make(map[SubstitutionKey]int),
		Deletions:     make(map[string]int),
		Insertions:    make(map[string]int),
	}
}

// Merge sums counts key-wise. Neither input is modified and a key absent from
// one side counts as zero.
func Merge[K comparable](a, b map[K]int) map[K]int {
	out := make(map[K]int, max(len(a), len(b)))
	for k, v := range a {
		out[k] += v
	}
	for k, v := range b {
		out[k] += v
	}
	return out
}

// Merge combines two tallies category by category.
func (t ErrorTally) Merge(other ErrorTally) ErrorTally {
	return ErrorTally{
		Substitutions: Merge(t.Substitutions, other.Substitutions),
		Deletions:     Merge(t.Deletions, other.Deletions),
		Insertions:    Merge(t.Insertions, other.Insertions),
	}
}

// Add folds other into t in place. The receiver maps must be allocated.
func (t ErrorTally) Add(other ErrorTally) {
	addInto(t.Substitutions, other.Substitutions)
	addInto(t.Deletions, other.Deletions)
	addInto(t.Insertions, other.Insertions)
}

func addInto[K comparable](dst, src map[K]int) {
	for k, v := range src {
		dst[k] += v
	}
}

// Counts returns the totals (S, D, I).
func (t ErrorTally) Counts() (subs, dels, ins int) {
	return Sum(t.Substitutions), Sum(t.Deletions), Sum(t.Insertions)
}

// Errors returns S+D+I.
func (t ErrorTally) Errors() int {
	s, d, i := t.Counts()
	return s + d + i
}

// Empty reports whether no error of any kind was recorded.
func (t ErrorTally) Empty() bool {
	return len(t.Substitutions) == 0 && len(t.Deletions) == 0 && len(t.Insertions) == 0
}

// Equal reports whether both tallies hold identical counts. Nil and empty maps
// compare equal.
func (t ErrorTally) Equal(other ErrorTally) bool {
	return mapsEqual(t.Substitutions, other.Substitutions) &&
		mapsEqual(t.Deletions, other.Deletions) &&
		mapsEqual(t.Insertions, other.Insertions)
}

func mapsEqual[K comparable](a, b map[K]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

// Sum adds every count in m.
func Sum[K comparable](m map[K]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

// Entry is one key/count pair of a category, used for ordered rendering.
type Entry[K any] struct {
	Key   K
	Count int
}

// Sorted returns the entries of m ordered by key.
func Sorted[K cmp.Ordered](m map[K]int) []Entry[K] {
	out := make([]Entry[K], 0, len(m))
	for k, v := range m {
		out = append(out, Entry[K]{Key: k, Count: v})
	}
	slices.SortFunc(out, func(a, b Entry[K]) int { return cmp.Compare(a.Key, b.Key) })
	return out
}

// SortedSubstitutions returns substitution entries ordered by reference then
// hypothesis token.
func SortedSubstitutions(m map[SubstitutionKey]int) []Entry[SubstitutionKey] {
	out := make([]Entry[SubstitutionKey], 0, len(m))
	for k, v := range m {
		out = append(out, Entry[SubstitutionKey]{Key: k, Count: v})
	}
	slices.SortFunc(out, func(a, b Entry[SubstitutionKey]) int { return a.Key.Compare(b.Key) })
	return out
}

// Top returns at most n entries ordered by descending count, ties broken by
// the supplied key comparison.
func Top[K any](entries []Entry[K], n int, less func(a, b K) int) []Entry[K] {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b Entry[K]) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return less(a.Key, b.Key)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
