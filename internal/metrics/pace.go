package metrics

import (
	"strings"
)

// minDurationMinutes keeps wpm finite for near-zero audio.
const minDurationMinutes = 0.1

// PaceResult is the transcript-derived pace and clarity measurement.
type PaceResult struct {
	Words          int
	Fillers        int
	WordsPerMinute float64
	Clarity        float64
}

// Pace counts whitespace-delimited words and filler occurrences.
// Fillers are counted as case-insensitive, non-overlapping substrings of the
// lowercased transcript, so multi-word fillers such as "you know" match.
func Pace(transcript string, durationSeconds float64, fillers []string) PaceResult {
	words := len(strings.Fields(transcript))
	minutes := durationSeconds / 60
	if minutes < minDurationMinutes {
		minutes = minDurationMinutes
	}

	lowered := strings.ToLower(transcript)
	fillerCount := 0
	for _, filler := range fillers {
		filler = strings.ToLower(strings.TrimSpace(filler))
		if filler == "" {
			continue
		}
		fillerCount += strings.Count(lowered, filler)
	}

	ratio := float64(fillerCount) / float64(max(words, 1))
	return PaceResult{
		Words:          words,
		Fillers:        fillerCount,
		WordsPerMinute: float64(words) / minutes,
		Clarity:        Clamp100(100 - ratio*200),
	}
}

// Slow and fast speaking-rate boundaries for the pace benchmark.
const (
	slowWPM = 80
	fastWPM = 200
)

// PaceScore rates speaking rate on a 0-50 scale: 50 inside the 80-200 wpm
// band, proportionally less outside it.
func PaceScore(wpm float64) float64 {
	switch {
	case wpm < slowWPM:
		return Clamp(wpm/slowWPM*50, 0, 50)
	case wpm > fastWPM:
		return fastWPM / wpm * 50
	default:
		return 50
	}
}

// Benchmark combines the pace score with engagement into a 0-100 value.
func Benchmark(wpm, engagement float64) float64 {
	return Clamp100(PaceScore(wpm) + engagement)
}
