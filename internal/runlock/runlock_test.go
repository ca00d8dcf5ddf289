package runlock

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestAcquireIsExclusive(t *testing.T) {
	lockDir := filepath.Join(t.TempDir(), "locks")
	dest := t.TempDir()

	first, err := Acquire(lockDir, dest)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	if _, err := Acquire(lockDir, dest); !errors.Is(err, ErrHeld) {
		t.Fatalf("expected ErrHeld for second acquire, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := Acquire(lockDir, dest)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	_ = again.Release()
}

func TestDistinctDestinationsDoNotConflict(t *testing.T) {
	lockDir := t.TempDir()
	a, err := Acquire(lockDir, filepath.Join(t.TempDir(), "a"))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Release()
	b, err := Acquire(lockDir, filepath.Join(t.TempDir(), "b"))
	if err != nil {
		t.Fatalf("expected independent lock, got %v", err)
	}
	defer b.Release()
	if a.Path() == b.Path() {
		t.Fatal("expected distinct lock paths")
	}
}

func TestPathForIsStable(t *testing.T) {
	if PathFor("/locks", "/videos/out") != PathFor("/locks", "/videos/out/") {
		t.Fatal("trailing separator must not change the lock path")
	}
	if filepath.Dir(PathFor("/locks", "/videos/out")) != "/locks" {
		t.Fatal("lock file must live in the lock directory")
	}
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Fatalf("nil Release: %v", err)
	}
}
