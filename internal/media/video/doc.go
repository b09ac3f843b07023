// Package video samples downscaled single-channel intensity frames from a
// container for motion analysis.
//
// Frames are produced by ffmpeg as raw gray16le at a fixed analysis size and
// sampling rate, then handed to the caller one at a time so memory stays
// bounded by a single frame pair regardless of video length.
package video
