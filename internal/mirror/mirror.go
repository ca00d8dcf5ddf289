// Package mirror maps source files onto the destination tree and carries
// source timestamps across once outputs are written.
package mirror

import (
	"os"
	"path/filepath"
	"strings"

	"vidshrink/internal/apperr"
)

const component = "mirror"

// Path returns the destination path for rel (relative to the source root)
// under destRoot, with its extension replaced by format. It has no side effects.
func Path(destRoot, rel, format string) string {
	rel = filepath.Clean(rel)
	stem := strings.TrimSuffix(rel, filepath.Ext(rel))
	ext := "." + strings.TrimPrefix(strings.ToLower(format), ".")
	return filepath.Join(destRoot, stem+ext)
}

// Mirror computes the destination path for sourcePath and creates any
// missing ancestor directories. Directory creation failures are ErrIO.
func Mirror(sourceRoot, destRoot, sourcePath, format string) (string, error) {
	rel, err := filepath.Rel(sourceRoot, sourcePath)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrIO, component, "relative path", sourcePath, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperr.Wrap(apperr.ErrIO, component, "relative path", sourcePath+" is outside "+sourceRoot, nil)
	}
	dest := Path(destRoot, rel, format)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", apperr.Wrap(apperr.ErrIO, component, "create directory", filepath.Dir(dest), err)
	}
	return dest, nil
}
