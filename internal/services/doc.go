// Package services defines shared utilities consumed by the pipeline stages
// and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and stage names for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the pipeline's error taxonomy (asset missing, probe failure,
//     backend failures, and so on).
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability, degradation) stays uniform across the
// pipeline.
package services
