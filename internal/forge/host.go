package forge

import (
	"github.com/astralis-games/planetforge/internal/storage"
)

// Host provides commit-or-discard invocation scopes. The forge runs
// each mint against a scratch view, and the host either commits every
// write or none of them.
type Host interface {
	Begin() (Session, error)
}

// Session is one invocation scope.
type Session interface {
	// View returns the database view collaborators run against.
	View() storage.DB
	// Commit applies all staged writes to the underlying state.
	Commit() error
	// Discard drops all staged writes.
	Discard()
}

// StorageHost implements Host with overlay sessions on a database.
type StorageHost struct {
	base storage.DB
}

// NewStorageHost creates a host over base.
func NewStorageHost(base storage.DB) *StorageHost {
	return &StorageHost{base: base}
}

// Begin opens a fresh overlay session.
func (h *StorageHost) Begin() (Session, error) {
	return &overlaySession{ov: storage.NewOverlay(h.base)}, nil
}

type overlaySession struct {
	ov *storage.Overlay
}

func (s *overlaySession) View() storage.DB {
	return s.ov
}

func (s *overlaySession) Commit() error {
	return s.ov.Commit()
}

func (s *overlaySession) Discard() {
	s.ov.Close()
}
