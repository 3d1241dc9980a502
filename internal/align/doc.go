// Package align computes word-level edit distance between a reference and a
// hypothesis and classifies every edit as a substitution, deletion, or
// insertion.
//
// The backtrace resolves ties with a fixed priority: match, then insertion,
// then deletion, then substitution. Other tie-breaking conventions (NIST sclite
// prefers substitutions in some ties) yield different but equally minimal
// decompositions; the priority here is kept stable so reports remain
// comparable across runs. Callers that need a different convention should add
// a new backtrace rather than reorder this one.
package align
