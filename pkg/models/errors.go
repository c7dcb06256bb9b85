package models

import "errors"

// Sentinel errors for batch conversion.
var (
	// Environment errors (fatal before any processing)
	ErrEncoderNotFound = errors.New("ffmpeg not found on PATH")
	ErrProberNotFound  = errors.New("ffprobe not found on PATH")

	// Per-file errors (non-fatal, batch continues)
	ErrProbeFailed        = errors.New("failed to probe file")
	ErrEncodeFailed       = errors.New("ffmpeg execution failed")
	ErrNoVideoStream      = errors.New("no video stream found")
	ErrInvalidShardPrefix = errors.New("filename prefix is not a non-negative integer")
	ErrUploadFailed       = errors.New("failed to upload converted file")
	ErrContextCanceled    = errors.New("context canceled")
)
