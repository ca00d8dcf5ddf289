// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
//
// Result.Dimensions reports the display frame size of the first video
// stream, with rotation metadata applied, which the transcoder uses to
// compute its scale target.
package ffprobe
