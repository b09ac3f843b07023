// Package metrics computes the signal-derived teaching scores: pace and
// clarity from the transcript, engagement from frame-to-frame motion, and
// confidence from pitch stability.
//
// Every function is pure and returns values clamped to 0-100. Missing data
// never produces an error; each metric has a documented fallback instead:
//   - empty transcript: clarity 100, wpm 0
//   - no frame pairs or zero motion: engagement NeutralEngagement (50)
//   - no voiced pitch: confidence 0
package metrics
