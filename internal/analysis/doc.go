// Package analysis runs the video-to-score pipeline.
//
// A Pipeline stages one upload into a locked workspace, extracts the audio,
// transcribes it, rejects non-instructional content, measures pace, motion
// and voice stability, asks the language model for rubric scores (or falls
// back to the signal strategy) and returns a Result. The workspace is removed
// on every exit path, including panics inside a stage.
//
// wiring.go builds a Pipeline and its lazily initialized providers from the
// loaded configuration; the CLI and the HTTP server both go through it.
package analysis
