// Package transcode defines the Transcoder capability the pipeline consumes
// and an ffmpeg-backed implementation of it.
//
// The ffmpeg transcoder probes the source frame size with ffprobe, scales the
// long side to the configured maximum (short side rounded to an even value),
// applies the configured denoise filter, and writes to a hidden partial file
// beside the destination that is renamed into place only on success. Any
// failure removes the partial file and is returned as *Error, classified from
// the tool's stderr.
package transcode
