package cropper

import (
	"sync"

	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
)

// sessionEntry is the last display box of a session and the canvas it was
// drawn on.
type sessionEntry struct {
	canvas geometry.Size
	box    geometry.Box
}

// SessionStore remembers the final display box per session key so a later
// request with the same key starts from where the user left off.
// It is safe for concurrent use; boxes are stored and returned by value.
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]sessionEntry
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[string]sessionEntry)}
}

// Get returns the stored box for key if it was drawn on the same canvas size.
func (s *SessionStore) Get(key string, canvas geometry.Size) (geometry.Box, bool) {
	if key == "" {
		return geometry.Box{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || e.canvas != canvas {
		return geometry.Box{}, false
	}
	return e.box, true
}

// Put stores box for key. An empty key is ignored.
func (s *SessionStore) Put(key string, canvas geometry.Size, box geometry.Box) {
	if key == "" {
		return
	}
	s.mu.Lock()
	s.entries[key] = sessionEntry{canvas: canvas, box: box}
	s.mu.Unlock()
}

// Delete forgets key.
func (s *SessionStore) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
