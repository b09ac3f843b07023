package metrics

// NeutralEngagement is reported when no motion could be measured, so a
// static board-work video is not scored as if it had no picture.
const NeutralEngagement = 50.0

// DefaultMotionNormalization maps mean 16-bit frame difference to 100.
const DefaultMotionNormalization = 5000.0

// Motion accumulates the mean absolute intensity difference of consecutive
// frames. The zero value is ready to use.
type Motion struct {
	prev   []uint16
	series []float64
}

// Observe adds the next frame. Frames of a different size than the previous
// one restart the pair chain.
func (m *Motion) Observe(frame []uint16) {
	if len(frame) == 0 {
		return
	}
	if len(m.prev) == len(frame) {
		var total uint64
		for i, v := range frame {
			p := m.prev[i]
			if v > p {
				total += uint64(v - p)
			} else {
				total += uint64(p - v)
			}
		}
		m.series = append(m.series, float64(total)/float64(len(frame)))
	}
	if cap(m.prev) < len(frame) {
		m.prev = make([]uint16, len(frame))
	}
	m.prev = m.prev[:len(frame)]
	copy(m.prev, frame)
}

// Series returns the per-pair motion values.
func (m *Motion) Series() []float64 {
	return append([]float64(nil), m.series...)
}

// EngagementResult reports the engagement score and how it was derived.
type EngagementResult struct {
	Raw     float64
	Score   float64
	Pairs   int
	Neutral bool
}

// Engagement scores a motion series. An empty series or a zero mean yields
// NeutralEngagement. Non-positive normalization falls back to
// DefaultMotionNormalization.
func Engagement(series []float64, normalization float64) EngagementResult {
	if normalization <= 0 {
		normalization = DefaultMotionNormalization
	}
	if len(series) == 0 {
		return EngagementResult{Score: NeutralEngagement, Neutral: true}
	}
	sum := 0.0
	for _, v := range series {
		sum += v
	}
	raw := sum / float64(len(series))
	if raw == 0 {
		return EngagementResult{Score: NeutralEngagement, Pairs: len(series), Neutral: true}
	}
	return EngagementResult{
		Raw:   raw,
		Score: Clamp100(raw / normalization * 100),
		Pairs: len(series),
	}
}
