// Package ffprobe inspects uploaded media containers through the ffprobe
// executable and exposes the handful of facts the analysis pipeline needs:
// whether an audio track exists, the primary video geometry, and the
// playable duration.
//
// A container that ffprobe cannot parse is reported with services.ErrDecode so
// callers can surface it as a corrupt upload rather than a tooling failure.
package ffprobe
