package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/marketing-insights/internal/config"
)

func newTestRegistry() *Registry {
	return NewRegistry(config.SessionConfig{TTLMinutes: 60, SweepMinutes: 10})
}

func backdate(reg *Registry, id string, age time.Duration) {
	reg.mu.Lock()
	reg.sessions[id].CreatedAt = time.Now().Add(-age)
	reg.mu.Unlock()
}

func TestRegistry_PutGet(t *testing.T) {
	reg := newTestRegistry()

	result := &Result{Goals: []string{"acquisition"}}
	s := reg.Put("marketing.xlsx", result)

	require.NotEmpty(t, s.ID)
	_, err := uuid.Parse(s.ID)
	assert.NoError(t, err, "session IDs are UUIDs")

	got, ok := reg.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, result, got.Result, "registry hands out the stored result, not a copy")
	assert.Equal(t, "marketing.xlsx", got.Filename)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_GetUnknown(t *testing.T) {
	reg := newTestRegistry()

	_, ok := reg.Get("no-such-session")
	assert.False(t, ok)
}

func TestRegistry_ExpiredSessionsStopResolving(t *testing.T) {
	reg := newTestRegistry()

	s := reg.Put("old.xlsx", &Result{})
	backdate(reg, s.ID, 2*time.Hour)

	_, ok := reg.Get(s.ID)
	assert.False(t, ok, "expired sessions must stop resolving before the sweeper runs")
	assert.Equal(t, 1, reg.Len(), "lazy expiry leaves eviction to the sweeper")
}

func TestRegistry_Sweep(t *testing.T) {
	reg := newTestRegistry()

	old1 := reg.Put("a.xlsx", &Result{})
	old2 := reg.Put("b.xlsx", &Result{})
	fresh := reg.Put("c.xlsx", &Result{})
	backdate(reg, old1.ID, 2*time.Hour)
	backdate(reg, old2.ID, 61*time.Minute)

	evicted := reg.Sweep()

	assert.Equal(t, 2, evicted)
	assert.Equal(t, 1, reg.Len())
	_, ok := reg.Get(fresh.ID)
	assert.True(t, ok)
}

func TestRegistry_SweepNothingExpired(t *testing.T) {
	reg := newTestRegistry()
	reg.Put("a.xlsx", &Result{})

	assert.Equal(t, 0, reg.Sweep())
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_RunEvictsInBackground(t *testing.T) {
	reg := newTestRegistry()
	reg.sweep = 10 * time.Millisecond

	s := reg.Put("old.xlsx", &Result{})
	backdate(reg, s.ID, 2*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.Run(ctx)
		close(done)
	}()

	// Let it tick a few times then cancel.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, reg.Len(), "background sweep should have evicted the stale session")
	cancel()

	select {
	case <-done:
		// Good — Run returned.
	case <-time.After(5 * time.Second):
		t.Fatal("Registry.Run did not stop after context cancellation")
	}
}

func TestNewRegistry_Defaults(t *testing.T) {
	reg := NewRegistry(config.SessionConfig{})

	assert.Equal(t, time.Hour, reg.ttl)
	assert.Equal(t, 10*time.Minute, reg.sweep)
}
