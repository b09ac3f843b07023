// Package transcription normalizes speech-to-text provider output into a
// Transcript the rest of the pipeline can rely on.
//
// Providers implement Provider. Service applies the recovery policy:
//   - no audio track: Transcript with StatusNoAudio and empty text
//   - trimmed text shorter than the configured minimum: the text is replaced
//     by LimitedSpeechPlaceholder and the status is StatusLimited
//   - any other provider failure: returned as a tagged error
package transcription
