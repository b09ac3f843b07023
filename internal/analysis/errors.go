package analysis

import (
	"context"
	"errors"

	"intellicoach/internal/services"
)

// ErrEmptyPayload is returned when the request carries no video bytes.
var ErrEmptyPayload = errors.New("empty video payload")

// UserMessage maps a pipeline failure to the text shown in an error Result.
// Internal detail stays in the logs.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return "Analysis failed unexpectedly."
	case errors.Is(err, ErrEmptyPayload):
		return "No video file was provided."
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, services.ErrTimeout):
		return "The analysis timed out. Please try a shorter video."
	case errors.Is(err, context.Canceled):
		return "The analysis was cancelled."
	case errors.Is(err, services.ErrDecode):
		return "The video could not be decoded. Please upload a valid video file."
	case errors.Is(err, services.ErrConfiguration):
		return "The analysis service is not configured correctly. Please contact the administrator."
	case errors.Is(err, services.ErrValidation):
		return "The upload could not be processed. Please try again with a different file."
	case errors.Is(err, services.ErrNotFound):
		return "A required file was missing during analysis."
	case errors.Is(err, services.ErrExternalTool):
		return "An external service rejected the request. Please try again later."
	case errors.Is(err, services.ErrTransient):
		return "An external service is temporarily unavailable. Please try again later."
	default:
		return "Analysis failed unexpectedly."
	}
}
