package testsupport

import (
	"testing"

	"vidshrink/internal/config"
	"vidshrink/internal/history"
)

// MustOpenHistory opens the run ledger for cfg and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()
	store, err := history.OpenFromConfig(cfg)
	if err != nil {
		t.Fatalf("history.OpenFromConfig: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
