package scoring

import "intellicoach/internal/metrics"

// Strategy names the formula that produced an overall score.
type Strategy string

const (
	// StrategyLLM weights the five semantic sub-scores.
	StrategyLLM Strategy = "llm"
	// StrategySignal averages the signal metrics when no model is configured.
	StrategySignal Strategy = "signal"
)

// WeightedOverall applies the rubric weights to s.
func WeightedOverall(s Scores) float64 {
	total := WeightClarity*float64(s.Clarity) +
		WeightEngagement*float64(s.Engagement) +
		WeightConfidence*float64(s.Confidence) +
		WeightTechnical*float64(s.Technical) +
		WeightInteraction*float64(s.Interaction)
	return roundOverall(total)
}

// Signal strategy weights. Their sum is the normalizer.
const (
	signalWeightClarity    = 0.2
	signalWeightEngagement = 0.2
	signalWeightConfidence = 0.1
)

// SignalOverall combines clarity, engagement and confidence signals into a
// 0-100 overall.
func SignalOverall(s metrics.Signals) float64 {
	total := s.Clarity*signalWeightClarity + s.Engagement*signalWeightEngagement + s.Confidence*signalWeightConfidence
	return roundOverall(total / (signalWeightClarity + signalWeightEngagement + signalWeightConfidence))
}

// FromSignals builds Scores for the signal strategy. Technical and
// interaction cannot be measured from signals and stay 0.
func FromSignals(s metrics.Signals) Scores {
	return Scores{
		Clarity:     clampScore(s.Clarity),
		Engagement:  clampScore(s.Engagement),
		Confidence:  clampScore(s.Confidence),
		Overall:     SignalOverall(s),
		Suggestions: signalSuggestions(s),
	}
}

func signalSuggestions(s metrics.Signals) []string {
	var out []string
	if s.Clarity < 70 {
		out = append(out, "Reduce filler words such as \"um\" and \"like\" to sound clearer.")
	}
	switch {
	case s.Words > 0 && s.WordsPerMinute < 80:
		out = append(out, "Speak a little faster; the pace is below 80 words per minute.")
	case s.WordsPerMinute > 200:
		out = append(out, "Slow down; the pace is above 200 words per minute.")
	}
	if s.Engagement < 40 {
		out = append(out, "Add more visual variety such as gestures, slides or board work.")
	}
	if s.Confidence < 50 {
		out = append(out, "Keep your voice steadier; practice the delivery to reduce pitch swings.")
	}
	if len(out) == 0 {
		out = append(out, "Keep up the consistent delivery.")
	}
	return out
}

// Interpretation is the rating tier for an overall score.
type Interpretation struct {
	Rating         string `json:"rating" yaml:"rating"`
	Recommendation string `json:"recommendation" yaml:"recommendation"`
}

var tiers = []struct {
	min float64
	Interpretation
}{
	{80, Interpretation{"Excellent", "Outstanding teaching. Keep refining the details and share your practices with peers."}},
	{65, Interpretation{"Good", "Solid teaching. Focus on the lowest sub-score to reach the next level."}},
	{50, Interpretation{"Average", "Acceptable delivery with clear room for improvement. Work through the suggestions in order."}},
	{0, Interpretation{"Poor", "The lesson needs significant work. Start with clarity and pacing before anything else."}},
}

// Interpret maps overall to its rating tier.
func Interpret(overall float64) Interpretation {
	for _, tier := range tiers {
		if overall >= tier.min {
			return tier.Interpretation
		}
	}
	return tiers[len(tiers)-1].Interpretation
}
