// Package textutil holds the small text helpers shared by the analysis
// stages: Unicode case folding and word tokenization for vocabulary
// matching, rune-safe truncation for transcript excerpts, and filename
// sanitization for staged uploads.
package textutil
