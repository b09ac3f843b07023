// Package audio pulls the speech track out of an uploaded video and decodes
// it into samples for pitch analysis.
//
// Extract probes the container first and returns ErrNoAudioStream for
// video-only uploads without invoking ffmpeg. LoadPCM decodes any ffmpeg
// readable file into mono float samples through an s16le pipe.
package audio
