package mirror

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vidshrink/internal/apperr"
)

// CopyTimes sets dst's access and modification times to src's modification time.
func CopyTimes(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return apperr.Wrap(apperr.ErrIO, component, "stat source", src, err)
	}
	mtime := info.ModTime()
	if err := os.Chtimes(dst, mtime, mtime); err != nil {
		return apperr.Wrap(apperr.ErrIO, component, "set times", dst, err)
	}
	return nil
}

// DirFailure records a directory whose timestamp could not be propagated.
type DirFailure struct {
	Dir string
	Err error
}

// PropagateDirTimes copies each source directory's modification time onto
// its mirrored destination directory, deepest directories first so setting
// a parent is not undone by later work inside it. Destination directories
// that do not exist are skipped. Failures are collected rather than aborting.
func PropagateDirTimes(sourceRoot, destRoot string) ([]DirFailure, error) {
	var rels []string
	err := filepath.WalkDir(sourceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(sourceRoot, path)
		if err != nil {
			return err
		}
		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrIO, component, "walk directories", sourceRoot, err)
	}

	sort.SliceStable(rels, func(i, j int) bool {
		return depth(rels[i]) > depth(rels[j])
	})

	var failures []DirFailure
	for _, rel := range rels {
		target := filepath.Join(destRoot, rel)
		if info, err := os.Stat(target); err != nil || !info.IsDir() {
			continue
		}
		if err := CopyTimes(filepath.Join(sourceRoot, rel), target); err != nil {
			failures = append(failures, DirFailure{Dir: target, Err: err})
		}
	}
	return failures, nil
}

func depth(rel string) int {
	if rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
