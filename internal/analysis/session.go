package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/marketing-insights/internal/config"
)

// Session pairs a finished analysis with its registry bookkeeping.
type Session struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
	Result    *Result   `json:"result"`
}

// Registry holds finished analyses in memory, keyed by session ID.
// Sessions expire after the configured TTL: expired entries stop
// resolving immediately and the sweep loop reclaims them.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	sweep    time.Duration
}

// NewRegistry creates an empty registry from the session configuration.
func NewRegistry(cfg config.SessionConfig) *Registry {
	ttl := time.Duration(cfg.TTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	sweep := time.Duration(cfg.SweepMinutes) * time.Minute
	if sweep <= 0 {
		sweep = 10 * time.Minute
	}
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		sweep:    sweep,
	}
}

// Put stores a result under a fresh session ID and returns the session.
func (r *Registry) Put(filename string, result *Result) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Filename:  filename,
		CreatedAt: time.Now(),
		Result:    result,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	count := len(r.sessions)
	r.mu.Unlock()

	zap.L().Info("analysis: session stored",
		zap.String("session_id", s.ID),
		zap.String("filename", filename),
		zap.Int("sessions", count),
	)
	return s
}

// Get returns the session for id, reporting false for unknown or
// expired IDs.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok || time.Since(s.CreatedAt) > r.ttl {
		return nil, false
	}
	return s, true
}

// Len reports how many sessions are held, including expired ones the
// sweeper has not reclaimed yet.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes expired sessions and reports how many were evicted.
func (r *Registry) Sweep() int {
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, s := range r.sessions {
		if s.CreatedAt.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Run starts the periodic sweep loop. It blocks until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	log := zap.L().With(zap.String("component", "analysis.registry"))
	log.Info("starting session sweeper",
		zap.Duration("ttl", r.ttl),
		zap.Duration("interval", r.sweep),
	)

	ticker := time.NewTicker(r.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("session sweeper stopped")
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Info("analysis: sessions evicted",
					zap.Int("evicted", n),
					zap.Int("remaining", r.Len()),
				)
			}
		}
	}
}
