package metrics

import (
	"math"
	"math/cmplx"
	"testing"
)

func sine(freq float64, seconds float64, rate int, amp float64) []float64 {
	n := int(seconds * float64(rate))
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return out
}

func TestFFTMatchesNaiveDFT(t *testing.T) {
	input := []float64{1, -2, 3.5, 0, 0.25, 7, -1, 2}
	mags := make([]float64, len(input)/2+1)
	newSpectrum(len(input)).magnitudes(input, mags)
	for k := range mags {
		var want complex128
		for n, v := range input {
			angle := -2 * math.Pi * float64(k*n) / float64(len(input))
			want += complex(v, 0) * cmplx.Exp(complex(0, angle))
		}
		if math.Abs(mags[k]-cmplx.Abs(want)) > 1e-9 {
			t.Fatalf("bin %d: got %v want %v", k, mags[k], cmplx.Abs(want))
		}
	}
}

func TestPitchTrackFindsSteadyTone(t *testing.T) {
	samples := sine(440, 1, 16000, 0.5)
	track := PitchTrack(samples, 16000, DefaultPitchOptions())
	if track.Frames == 0 || len(track.Points) == 0 {
		t.Fatalf("expected pitch points, got %+v", track)
	}
	for _, p := range track.Points {
		if math.Abs(p.Frequency-440) > 10 {
			t.Fatalf("unexpected peak frequency %v", p.Frequency)
		}
	}
	got := Confidence(track)
	if got.Score < 95 {
		t.Fatalf("expected steady tone to score high, got %+v", got)
	}
}

func TestConfidenceSilenceIsZero(t *testing.T) {
	silence := make([]float64, 16000)
	if got := Confidence(PitchTrack(silence, 16000, DefaultPitchOptions())); got.Score != 0 || got.Voiced != 0 {
		t.Fatalf("expected zero confidence for silence, got %+v", got)
	}
	if got := Confidence(PitchTrack(nil, 16000, DefaultPitchOptions())); got.Score != 0 {
		t.Fatalf("expected zero confidence for empty audio, got %+v", got)
	}
}

func TestPitchTrackIgnoresAudioShorterThanWindow(t *testing.T) {
	blip := sine(440, 1000.0/16000, 16000, 0.5)
	track := PitchTrack(blip, 16000, DefaultPitchOptions())
	if track.Frames != 0 || len(track.Points) != 0 {
		t.Fatalf("expected empty track for %d samples, got %+v", len(blip), track)
	}
	if got := Confidence(track); got.Score != 0 {
		t.Fatalf("expected zero confidence for a blip, got %+v", got)
	}

	window := make([]float64, DefaultPitchOptions().WindowSize)
	if track := PitchTrack(window, 16000, DefaultPitchOptions()); track.Frames != 1 {
		t.Fatalf("expected one frame for a full window, got %d", track.Frames)
	}
}

func TestConfidencePenalizesPitchSwings(t *testing.T) {
	samples := append(sine(200, 0.5, 16000, 0.5), sine(300, 0.5, 16000, 0.5)...)
	got := Confidence(PitchTrack(samples, 16000, DefaultPitchOptions()))
	if got.Score < 30 || got.Score > 70 {
		t.Fatalf("expected mid confidence for alternating pitch, got %+v", got)
	}
}

func TestGridMedianCountsEmptyCells(t *testing.T) {
	track := Track{
		Points: []PitchPoint{{Magnitude: 3}, {Magnitude: 1}, {Magnitude: 2}},
		Cells:  4,
	}
	if got := gridMedian(track); got != 1.5 {
		t.Fatalf("expected median 1.5, got %v", got)
	}
	track.Cells = 10
	if got := gridMedian(track); got != 0 {
		t.Fatalf("expected zero median for sparse grid, got %v", got)
	}
	track.Cells = 3
	if got := gridMedian(track); got != 2 {
		t.Fatalf("expected median 2 for a full odd grid, got %v", got)
	}
	if got := gridMedian(Track{}); got != 0 {
		t.Fatalf("expected zero median for an empty grid, got %v", got)
	}
}

func TestPitchOptionsDefaults(t *testing.T) {
	opts := PitchOptions{WindowSize: 1000}.withDefaults()
	if opts != DefaultPitchOptions() {
		t.Fatalf("expected defaults, got %+v", opts)
	}
}

func TestCombineBuildsSignals(t *testing.T) {
	s := Combine(
		PaceResult{Words: 120, WordsPerMinute: 120, Clarity: 90},
		EngagementResult{Score: 40, Pairs: 9},
		ConfidenceResult{Score: 70, Voiced: 12},
	)
	if s.PaceBenchmark != 90 || s.Clarity != 90 || s.Engagement != 40 || s.Confidence != 70 || s.VoicedPoints != 12 {
		t.Fatalf("unexpected signals %+v", s)
	}
}
