package discovery

import (
	"path/filepath"
	"reflect"
	"testing"

	"vidshrink/internal/testsupport"
)

func TestDiscoverFiltersAndSorts(t *testing.T) {
	src := t.TempDir()
	dest := "/out"
	for _, rel := range []string{
		"b/clip2.MOV",
		"a/clip1.mp4",
		"a/notes.txt",
		"c/deep/x.Mkv",
		"root.avi",
		"thumbs.jpg",
		"archive.mp4.bak",
	} {
		testsupport.WriteFile(t, filepath.Join(src, rel), 8)
	}

	tasks, err := Discover(src, dest, "mp4")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	var rels []string
	for _, task := range tasks {
		rels = append(rels, task.RelPath)
	}
	want := []string{
		filepath.Join("a", "clip1.mp4"),
		filepath.Join("b", "clip2.MOV"),
		filepath.Join("c", "deep", "x.Mkv"),
		"root.avi",
	}
	if !reflect.DeepEqual(rels, want) {
		t.Fatalf("rel paths = %v, want %v", rels, want)
	}

	first := tasks[0]
	if first.SourcePath != filepath.Join(src, "a", "clip1.mp4") {
		t.Fatalf("unexpected source path %q", first.SourcePath)
	}
	if tasks[1].DestPath != filepath.Join(dest, "b", "clip2.mp4") {
		t.Fatalf("unexpected dest path %q", tasks[1].DestPath)
	}
	if first.Size != 8 {
		t.Fatalf("size = %d, want 8", first.Size)
	}
}

func TestDiscoverEmptyTree(t *testing.T) {
	tasks, err := Discover(t.TempDir(), "/out", "mp4")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(tasks))
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "absent"), "/out", "mp4"); err == nil {
		t.Fatal("expected error for missing source root")
	}
}

func TestIsVideo(t *testing.T) {
	cases := map[string]bool{
		"a.mp4": true,
		"A.MOV": true,
		"b.mkv": true,
		"c.AvI": true,
		"d.txt": false,
		"e":     false,
		"f.m4v": false,
	}
	for path, want := range cases {
		if got := IsVideo(path); got != want {
			t.Errorf("IsVideo(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestExtensions(t *testing.T) {
	want := []string{".avi", ".mkv", ".mov", ".mp4"}
	if got := Extensions(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Extensions = %v, want %v", got, want)
	}
}
