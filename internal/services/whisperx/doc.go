// Package whisperx runs local WhisperX speech recognition through uvx.
//
// The service transcribes the 16 kHz mono WAV produced by audio extraction
// and reads the segment text back from WhisperX's JSON output. Model, device
// and VAD settings come from Config.
package whisperx
