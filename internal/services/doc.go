// Package services defines shared utilities consumed by the analysis pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that let the pipeline
//     classify failures (decode, configuration, transient) into user-facing
//     results.
//   - Lazy, a retryable single-initialization handle for provider clients that
//     are expensive to construct.
//
// Use these helpers when wiring new providers so operational behaviour (error
// handling, observability, retries) stays uniform across the pipeline.
package services
