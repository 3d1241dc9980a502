// Package main hosts the werscore CLI entrypoint and command graph.
//
// The root command scores a hypothesis transcript file against a reference
// transcript file and prints the corpus word error rate. Subcommands inspect
// the run history and scaffold configuration. Configuration resolution and
// logger setup live in the command context so individual commands stay
// declarative while the scoring logic lives in the internal packages.
package main
