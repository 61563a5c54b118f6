package vendors

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gofrs/flock"
)

// AliasPair is one raw/normalized vendor observation to reconcile.
type AliasPair struct {
	RawName        string
	NormalizedName string
}

// Registrar serializes the registry's read-modify-write cycle. The mutex is
// held for the entire load, reconcile, persist sequence so concurrent
// documents never lose updates; the advisory file lock extends the same
// guarantee to other processes sharing the registry file.
type Registrar struct {
	store *Store
	mu    sync.Mutex
	flk   *flock.Flock
}

// NewRegistrar creates a registrar over the registry file at path.
func NewRegistrar(path string) *Registrar {
	return &Registrar{
		store: &Store{Path: path},
		flk:   flock.New(path + ".lock"),
	}
}

// Register reconciles the given pairs, in order, inside a single critical
// section and persists the registry once if anything changed. The registry
// is reloaded from disk on every call so edits made between runs are
// honored. Returns whether the registry changed.
func (r *Registrar) Register(pairs ...AliasPair) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.flk.Lock(); err != nil {
		return false, fmt.Errorf("lock vendor registry: %w", err)
	}
	defer func() {
		if err := r.flk.Unlock(); err != nil {
			slog.Warn("Failed to release vendor registry lock.", "error", err)
		}
	}()

	reg, err := r.store.Load()
	if err != nil {
		return false, err
	}

	changed := false
	for _, p := range pairs {
		if Reconcile(reg, p.RawName, p.NormalizedName) {
			slog.Info("Vendor registry updated.", "rawName", p.RawName, "canonicalCandidate", p.NormalizedName)
			changed = true
		}
	}
	if !changed {
		return false, nil
	}

	if err := r.store.Save(reg); err != nil {
		return true, err
	}
	return true, nil
}

// Snapshot returns the current on-disk registry. Read-only callers (the
// vendors listing) use this instead of Register.
func (r *Registrar) Snapshot() (*Registry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Load()
}
