// Package pipeline orchestrates one incremental transcoding run: discovery,
// path mirroring, staleness checks, transcoding, timestamp propagation and
// statistics. Files are handled strictly one at a time in sorted order.
package pipeline
