// Package logging builds slog loggers for the pipeline.
//
// Two formats are supported: a compact console format for interactive use and
// JSON for machine consumption. The "auto" format picks console when stderr
// is a terminal. All diagnostics go to stderr (and optionally a log file)
// because stdout's final line is the pipeline's result path contract.
package logging
