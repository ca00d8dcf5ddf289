// Package runlock serializes runs that target the same destination tree.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld is returned when another process holds the lock for a destination.
var ErrHeld = errors.New("destination is locked by another run")

// Lock is an acquired advisory lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// PathFor returns the lock file for destRoot inside lockDir. Lock files live
// outside the destination tree so they never count toward its size.
func PathFor(lockDir, destRoot string) string {
	abs, err := filepath.Abs(destRoot)
	if err != nil {
		abs = filepath.Clean(destRoot)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(lockDir, hex.EncodeToString(sum[:8])+".lock")
}

// Acquire takes the lock for destRoot without blocking.
func Acquire(lockDir, destRoot string) (*Lock, error) {
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}
	path := PathFor(lockDir, destRoot)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s (lock %s)", ErrHeld, destRoot, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
