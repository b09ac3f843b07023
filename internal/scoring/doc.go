// Package scoring turns a transcript into rubric scores and an overall
// rating.
//
// # Semantic scoring
//
// Scorer sends the fixed rubric prompt to a Completer (any chat-style
// language model) and hands the reply to Parse. Model output is untrusted:
// Parse tries a strict decode, then the first balanced {...} object in the
// reply, and finally returns FallbackScores. It never returns an error.
//
// # Aggregation
//
// Two overall formulas exist and are selected by strategy name:
//   - WeightedOverall: rubric weights over the five semantic sub-scores
//   - SignalOverall: clarity, engagement and confidence signals only
//
// Interpret maps an overall value to a rating tier and recommendation.
package scoring
