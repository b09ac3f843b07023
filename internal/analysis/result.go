package analysis

import (
	"intellicoach/internal/metrics"
	"intellicoach/internal/scoring"
	"intellicoach/internal/textutil"
	"intellicoach/internal/transcription"
)

// Status discriminates the Result variants.
type Status string

const (
	StatusSuccess Status = "success"
	StatusInvalid Status = "invalid"
	StatusError   Status = "error"
)

const (
	// MaxTranscriptRunes caps the transcript carried in a Result.
	MaxTranscriptRunes = 3000
	// PreviewRunes is the length of transcript_preview before "...".
	PreviewRunes = 200
)

// Result is the outcome of one analysis. Build it with Succeeded, Rejected or
// Failed; only the success variant carries scores.
type Result struct {
	Status    Status `json:"status" yaml:"status"`
	RequestID string `json:"request_id,omitempty" yaml:"request_id,omitempty"`

	Scores            *scoring.Scores      `json:"scores,omitempty" yaml:"scores,omitempty"`
	Signals           *metrics.Signals     `json:"signals,omitempty" yaml:"signals,omitempty"`
	Transcript        string               `json:"transcript,omitempty" yaml:"transcript,omitempty"`
	TranscriptPreview string               `json:"transcript_preview,omitempty" yaml:"transcript_preview,omitempty"`
	TranscriptStatus  transcription.Status `json:"transcript_status,omitempty" yaml:"transcript_status,omitempty"`
	Rating            string               `json:"rating,omitempty" yaml:"rating,omitempty"`
	Recommendation    string               `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	Strategy          scoring.Strategy     `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	ParseOutcome      scoring.Outcome      `json:"parse_outcome,omitempty" yaml:"parse_outcome,omitempty"`

	Reason  string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Success groups the inputs of a successful analysis.
type Success struct {
	Scores       scoring.Scores
	Signals      metrics.Signals
	Transcript   transcription.Transcript
	Strategy     scoring.Strategy
	ParseOutcome scoring.Outcome
}

// Succeeded builds the success variant. The rating is derived from the
// overall score.
func Succeeded(s Success) Result {
	scores := s.Scores
	signals := s.Signals
	text, _ := textutil.TruncateRunes(s.Transcript.ScoringText(), MaxTranscriptRunes)
	tier := scoring.Interpret(scores.Overall)
	return Result{
		Status:            StatusSuccess,
		Scores:            &scores,
		Signals:           &signals,
		Transcript:        text,
		TranscriptPreview: textutil.Preview(s.Transcript.ScoringText(), PreviewRunes),
		TranscriptStatus:  s.Transcript.Status,
		Rating:            tier.Rating,
		Recommendation:    tier.Recommendation,
		Strategy:          s.Strategy,
		ParseOutcome:      s.ParseOutcome,
	}
}

// Rejected builds the invalid variant for content that is not a lesson.
func Rejected(reason string) Result {
	return Result{Status: StatusInvalid, Reason: reason}
}

// Failed builds the error variant.
func Failed(message string) Result {
	return Result{Status: StatusError, Message: message}
}

// OK reports whether r is the success variant.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

func (r Result) withRequestID(id string) Result {
	r.RequestID = id
	return r
}
