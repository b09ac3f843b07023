package metrics

// Signals is the immutable bundle of signal-derived metrics for one video.
type Signals struct {
	Clarity        float64 `json:"clarity" yaml:"clarity"`
	Engagement     float64 `json:"engagement" yaml:"engagement"`
	Confidence     float64 `json:"confidence" yaml:"confidence"`
	WordsPerMinute float64 `json:"words_per_minute" yaml:"words_per_minute"`
	PaceBenchmark  float64 `json:"pace_benchmark" yaml:"pace_benchmark"`

	Words         int  `json:"word_count" yaml:"word_count"`
	Fillers       int  `json:"filler_count" yaml:"filler_count"`
	FramePairs    int  `json:"frame_pairs" yaml:"frame_pairs"`
	MotionNeutral bool `json:"motion_neutral" yaml:"motion_neutral"`
	VoicedPoints  int  `json:"voiced_points" yaml:"voiced_points"`
}

// Combine assembles Signals from the individual measurements.
func Combine(pace PaceResult, engagement EngagementResult, confidence ConfidenceResult) Signals {
	return Signals{
		Clarity:        pace.Clarity,
		Engagement:     engagement.Score,
		Confidence:     confidence.Score,
		WordsPerMinute: pace.WordsPerMinute,
		PaceBenchmark:  Benchmark(pace.WordsPerMinute, engagement.Score),
		Words:          pace.Words,
		Fillers:        pace.Fillers,
		FramePairs:     engagement.Pairs,
		MotionNeutral:  engagement.Neutral,
		VoicedPoints:   confidence.Voiced,
	}
}
