package scoring

import (
	"math"

	"intellicoach/internal/metrics"
)

// Scores are the rubric sub-scores and overall value.
type Scores struct {
	Clarity     int      `json:"clarity" yaml:"clarity"`
	Engagement  int      `json:"engagement" yaml:"engagement"`
	Confidence  int      `json:"confidence" yaml:"confidence"`
	Technical   int      `json:"technical" yaml:"technical"`
	Interaction int      `json:"interaction" yaml:"interaction"`
	Overall     float64  `json:"overall" yaml:"overall"`
	Suggestions []string `json:"suggestions" yaml:"suggestions"`
}

// PlaceholderSuggestion is used when no usable suggestion is available.
const PlaceholderSuggestion = "Scoring unavailable: the language model response could not be parsed."

// FallbackScores is the zero-filled result used when model output cannot be
// parsed.
func FallbackScores() Scores {
	return Scores{Suggestions: []string{PlaceholderSuggestion}}
}

func clampScore(v float64) int {
	return int(math.Round(metrics.Clamp100(v)))
}

func roundOverall(v float64) float64 {
	return math.Round(metrics.Clamp100(v)*100) / 100
}
