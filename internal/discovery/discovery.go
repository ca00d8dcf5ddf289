// Package discovery enumerates the video files under a source root.
package discovery

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"vidshrink/internal/apperr"
	"vidshrink/internal/mirror"
)

// videoExtensions are matched case-insensitively.
var videoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".mkv": true,
	".avi": true,
}

// Task is one discovered source file.
type Task struct {
	SourcePath string
	RelPath    string
	DestPath   string
	Size       int64
}

// IsVideo reports whether path carries a supported video extension.
func IsVideo(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// Extensions returns the supported extensions in sorted order.
func Extensions() []string {
	exts := make([]string, 0, len(videoExtensions))
	for ext := range videoExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Discover walks sourceRoot and returns one Task per video file, sorted by
// relative path. Destination paths are computed under destRoot with the
// extension replaced by format; no directories are created.
func Discover(sourceRoot, destRoot, format string) ([]Task, error) {
	var tasks []Task
	err := filepath.WalkDir(sourceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !IsVideo(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(sourceRoot, path)
		if err != nil {
			return err
		}
		tasks = append(tasks, Task{
			SourcePath: path,
			RelPath:    rel,
			DestPath:   mirror.Path(destRoot, rel, format),
			Size:       info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrIO, "discovery", "walk source", sourceRoot, err)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].RelPath < tasks[j].RelPath
	})
	return tasks, nil
}
