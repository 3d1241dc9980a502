// Package corpus scores a collection of utterances and aggregates their error
// tallies into corpus-level statistics.
//
// Aggregation is deterministic: utterance results keep input order, and tallies
// are folded in input order after every alignment has finished, whether the
// alignments ran sequentially or on a bounded worker pool.
package corpus
