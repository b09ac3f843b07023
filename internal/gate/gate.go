// Package gate rejects transcripts that are not instructional before any
// language-model call is made.
//
// The check is a cheap keyword heuristic biased toward precision: a missed
// song is acceptable, a rejected lecture is not. Matching is Unicode
// case-insensitive on whole words, so "musical" does not trip "music".
package gate

import (
	"intellicoach/internal/textutil"
)

// RejectionMessage is the fixed user-facing reason for non-instructional content.
const RejectionMessage = "The uploaded video does not appear to contain instructional content (detected music or lyrics). Please upload a teaching video."

// Verdict is the gate's decision for one transcript.
type Verdict struct {
	Instructional bool
	Matched       []string
}

// Check matches text against vocabulary. Any hit marks the transcript as
// non-instructional; Matched lists every vocabulary entry found, in
// vocabulary order.
func Check(text string, vocabulary []string) Verdict {
	tokens := textutil.Words(text)
	if len(tokens) == 0 {
		return Verdict{Instructional: true}
	}
	var matched []string
	for _, entry := range vocabulary {
		if textutil.PhraseIndex(tokens, entry) >= 0 {
			matched = append(matched, entry)
		}
	}
	return Verdict{Instructional: len(matched) == 0, Matched: matched}
}
