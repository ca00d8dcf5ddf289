// Package staleness decides whether a destination must be regenerated from its source.
package staleness

import (
	"errors"
	"io/fs"
	"os"

	"vidshrink/internal/apperr"
)

// NeedsProcessing reports whether dest is missing or older than src.
// Only modification times are compared; content is never hashed.
func NeedsProcessing(src, dest string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, apperr.Wrap(apperr.ErrIO, "staleness", "stat source", src, err)
	}
	destInfo, err := os.Stat(dest)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, apperr.Wrap(apperr.ErrIO, "staleness", "stat destination", dest, err)
	}
	if destInfo.IsDir() {
		return false, apperr.Wrap(apperr.ErrIO, "staleness", "destination is a directory", dest, nil)
	}
	return srcInfo.ModTime().After(destInfo.ModTime()), nil
}
