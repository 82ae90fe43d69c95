package server

import (
	"fmt"
	"sync"

	"github.com/ironsheep/image-cropper-mcp/internal/cropper"
	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
)

// session is an open crop: a prepared request plus the boxes the client has
// reported so far through cropper_update. It doubles as the cropper.Surface
// that replays those boxes when the crop is finished.
type session struct {
	id       string
	path     string
	prepared *cropper.Prepared
	current  geometry.Box
	updates  []geometry.Box
}

// Render implements cropper.Surface by replaying the recorded updates.
func (s session) Render(params cropper.RenderParams) cropper.BoxStream {
	ch := make(chan geometry.Box, len(s.updates))
	for _, b := range s.updates {
		ch <- b
	}
	close(ch)
	return ch
}

// sessionTable holds the open sessions of a server.
type sessionTable struct {
	mu       sync.Mutex
	next     int
	sessions map[string]*session
}

func newSessionTable() *sessionTable {
	return &sessionTable{sessions: make(map[string]*session)}
}

// open registers p and returns a copy of the new session.
func (t *sessionTable) open(path string, p *cropper.Prepared) session {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	s := &session{
		id:       fmt.Sprintf("crop-%d", t.next),
		path:     path,
		prepared: p,
		current:  p.Initial,
	}
	t.sessions[s.id] = s
	return *s
}

// snapshot returns a copy of the session that is safe to use without the lock.
func (t *sessionTable) snapshot(id string) (session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[id]
	if !ok {
		return session{}, fmt.Errorf("%w: unknown session %q", geometry.ErrInvalidArgument, id)
	}
	cp := *s
	cp.updates = append([]geometry.Box(nil), s.updates...)
	return cp, nil
}

// update records a box reported by the client. Outside realtime mode only a
// confirmed box is taken; others are ignored and accepted is false. The box is
// clipped to the canvas and, when the session is aspect-locked, brought back
// to the ratio.
func (t *sessionTable) update(id string, box geometry.Box, confirm bool) (current geometry.Box, accepted bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[id]
	if !ok {
		return geometry.Box{}, false, fmt.Errorf("%w: unknown session %q", geometry.ErrInvalidArgument, id)
	}

	params := s.prepared.Params
	if !params.RealtimeUpdate && !confirm {
		return s.current, false, nil
	}

	var ratio *geometry.AspectRatio
	if params.LockAspect {
		ratio = params.AspectRatio
	}
	box = geometry.Constrain(box, ratio, params.Canvas())
	s.updates = append(s.updates, box)
	s.current = box
	return box, true, nil
}

// close forgets the session and reports whether it existed.
func (t *sessionTable) close(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.sessions[id]
	delete(t.sessions, id)
	return ok
}

func (t *sessionTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}
