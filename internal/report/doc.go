// Package report renders corpus statistics: the one-line corpus summary, the
// per-utterance detail report, structured JSON/YAML summaries and the most
// frequent confusions.
package report
