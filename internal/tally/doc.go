// Package tally holds per-category error counts produced by alignment and the
// merge rules used to fold them into corpus totals.
//
// Substitutions are keyed by (reference, hypothesis) token pairs; deletions
// and insertions are keyed by the single token involved. Merging is a key-wise
// sum, so the order in which utterances are folded never changes the result.
package tally
