package delivery

import (
	"context"
	"sync"
	"time"

	"authflow/internal/flow"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Registry holds one flow per browser, keyed by the session cookie
type Registry struct {
	newFlow func() *flow.Coordinator
	log     logrus.FieldLogger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*browserSession
}

type browserSession struct {
	flow     *flow.Coordinator
	lastSeen time.Time
}

// NewRegistry creates an empty registry; newFlow builds the flow of a new browser.
func NewRegistry(newFlow func() *flow.Coordinator, log logrus.FieldLogger) *Registry {
	return &Registry{
		newFlow:  newFlow,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*browserSession),
	}
}

// Lookup returns the flow of id. Unknown or empty ids get a fresh flow under
// a new id, which is returned along with it.
func (r *Registry) Lookup(id string) (string, *flow.Coordinator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		s.lastSeen = r.now()
		return id, s.flow
	}

	id = uuid.NewString()
	s := &browserSession{flow: r.newFlow(), lastSeen: r.now()}
	r.sessions[id] = s
	r.log.WithField("session", id).Debug("Browser session created")
	return id, s.flow
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than maxIdle.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	n := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			s.flow.Close()
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				r.log.WithField("count", n).Info("Idle browser sessions closed")
			}
		}
	}
}

// Close tears down every session.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		s.flow.Close()
		delete(r.sessions, id)
	}
}
