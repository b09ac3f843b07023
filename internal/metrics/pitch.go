package metrics

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// PitchOptions configures the spectral peak tracker.
type PitchOptions struct {
	WindowSize   int
	HopSize      int
	MinFrequency float64
	MaxFrequency float64
	// Threshold is the fraction of a frame's strongest bin a peak must exceed.
	Threshold float64
}

// DefaultPitchOptions mirrors the tracker settings shipped in the default config.
func DefaultPitchOptions() PitchOptions {
	return PitchOptions{
		WindowSize:   2048,
		HopSize:      512,
		MinFrequency: 150,
		MaxFrequency: 4000,
		Threshold:    0.1,
	}
}

func (o PitchOptions) withDefaults() PitchOptions {
	def := DefaultPitchOptions()
	if !isPowerOfTwo(o.WindowSize) {
		o.WindowSize = def.WindowSize
	}
	if o.HopSize <= 0 {
		o.HopSize = def.HopSize
	}
	if o.MinFrequency <= 0 {
		o.MinFrequency = def.MinFrequency
	}
	if o.MaxFrequency <= o.MinFrequency {
		o.MaxFrequency = def.MaxFrequency
	}
	if o.Threshold <= 0 || o.Threshold >= 1 {
		o.Threshold = def.Threshold
	}
	return o
}

// PitchPoint is one interpolated spectral peak.
type PitchPoint struct {
	Frame     int
	Frequency float64
	Magnitude float64
}

// Track is the sparse result of pitch tracking. Cells counts every
// frame/bin position considered, including those without a peak, so that
// statistics over the full magnitude grid can be derived.
type Track struct {
	Points []PitchPoint
	Frames int
	Cells  int
}

// PitchTrack runs a short-time Fourier transform over samples and records
// the local magnitude maxima between MinFrequency and MaxFrequency that
// exceed Threshold times the frame's peak magnitude. Peak frequencies are
// refined by parabolic interpolation. Audio shorter than one window yields
// an empty track.
func PitchTrack(samples []float64, sampleRate int, opts PitchOptions) Track {
	opts = opts.withDefaults()
	if len(samples) < opts.WindowSize || sampleRate <= 0 {
		return Track{}
	}

	n := opts.WindowSize
	bins := n/2 + 1
	window := hannWindow(n)
	frame := make([]float64, n)
	spec := newSpectrum(n)
	mags := make([]float64, bins)
	binHz := float64(sampleRate) / float64(n)

	frames := 1 + (len(samples)-n)/opts.HopSize

	var track Track
	track.Frames = frames
	for f := 0; f < frames; f++ {
		start := f * opts.HopSize
		for i := range frame {
			frame[i] = samples[start+i] * window[i]
		}
		spec.magnitudes(frame, mags)

		peak := 0.0
		for _, m := range mags {
			if m > peak {
				peak = m
			}
		}
		floor := peak * opts.Threshold

		for i := 1; i < bins-1; i++ {
			freq := float64(i) * binHz
			if freq < opts.MinFrequency || freq >= opts.MaxFrequency {
				continue
			}
			m := mags[i]
			if m <= floor || m <= mags[i-1] || m < mags[i+1] {
				continue
			}
			avg := 0.5 * (mags[i+1] - mags[i-1])
			curvature := 2*m - mags[i-1] - mags[i+1]
			shift := 0.0
			if curvature != 0 {
				shift = avg / curvature
			}
			track.Points = append(track.Points, PitchPoint{
				Frame:     f,
				Frequency: (float64(i) + shift) * binHz,
				Magnitude: m + 0.5*avg*shift,
			})
		}
	}
	track.Cells = frames * bins
	return track
}

// ConfidenceResult reports voice stability.
type ConfidenceResult struct {
	Score     float64
	Variation float64
	Voiced    int
}

// Confidence scores pitch stability as 100 minus the standard deviation (Hz)
// of the pitches whose magnitude exceeds the median magnitude of the whole
// grid. A track with no qualifying pitch scores 0.
func Confidence(track Track) ConfidenceResult {
	if len(track.Points) == 0 {
		return ConfidenceResult{}
	}
	median := gridMedian(track)

	var kept []float64
	for _, p := range track.Points {
		if p.Magnitude > median {
			kept = append(kept, p.Frequency)
		}
	}
	if len(kept) == 0 {
		return ConfidenceResult{}
	}
	variation := stat.PopStdDev(kept, nil)
	return ConfidenceResult{
		Score:     Clamp100(100 - variation),
		Variation: variation,
		Voiced:    len(kept),
	}
}

// gridMedian is the median over every grid cell, where cells without a peak
// contribute a magnitude of zero. The empty cells are folded into a single
// weighted zero so the grid is never materialized.
func gridMedian(track Track) float64 {
	zeros := track.Cells - len(track.Points)
	if zeros < 0 {
		zeros = 0
	}
	values := make([]float64, 0, len(track.Points)+1)
	weights := make([]float64, 0, len(track.Points)+1)
	values = append(values, 0)
	weights = append(weights, float64(zeros))
	mags := make([]float64, len(track.Points))
	for i, p := range track.Points {
		mags[i] = p.Magnitude
	}
	sort.Float64s(mags)
	for _, m := range mags {
		values = append(values, m)
		weights = append(weights, 1)
	}

	total := zeros + len(mags)
	if total == 0 {
		return 0
	}
	// Empirical quantiles pick the k-th cell when p*total falls in (k-1, k].
	// Aiming at half-cells keeps the picks exact under float rounding.
	k := total / 2
	if total%2 == 1 {
		return stat.Quantile(0.5, stat.Empirical, values, weights)
	}
	lower := stat.Quantile((float64(k)-0.5)/float64(total), stat.Empirical, values, weights)
	upper := stat.Quantile((float64(k)+0.5)/float64(total), stat.Empirical, values, weights)
	return (lower + upper) / 2
}
