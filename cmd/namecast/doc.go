// Package main hosts the namecast CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into pipeline
// runs, attempt-history queries, dependency checks, and configuration
// scaffolding. It centralizes configuration resolution and structured logging
// setup so subcommands can focus on user experience instead of wiring.
//
// One contract matters above all here: on a successful run, the produced
// video path is the only line written to stdout. Everything else goes to
// stderr, so callers can capture the result with a plain shell substitution.
package main
