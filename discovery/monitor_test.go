package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForChange(t *testing.T, ch <-chan Change) Change {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for base URL change")
		return Change{}
	}
}

func TestMonitorDetectsOnStart(t *testing.T) {
	live := httptest.NewServer(selfReportingHandler())
	defer live.Close()

	changes := make(chan Change, 4)
	ticks := make(chan time.Time)
	r := newTestResolver(&memStore{},
		WithDefaultURL(deadURL(t)),
		WithCandidates(hostOf(live.URL)),
		WithTicks(ticks),
		OnChange(func(c Change) { changes <- c }),
	)

	r.Start(context.Background())
	defer r.Stop()
	assert.True(t, r.Running())

	c := waitForChange(t, changes)
	assert.Equal(t, live.URL, c.New)
	assert.Equal(t, live.URL, r.BaseURL())
}

func TestMonitorReconnectsOnTick(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer primary.Close()
	backup := httptest.NewServer(selfReportingHandler())
	defer backup.Close()

	var checks atomic.Int32
	changes := make(chan Change, 4)
	ticks := make(chan time.Time)
	r := newTestResolver(&memStore{},
		WithDefaultURL(primary.URL),
		WithCandidates(hostOf(backup.URL)),
		WithTicks(ticks),
		OnChange(func(c Change) { changes <- c }),
	)
	r.AddListener(func(Change) { checks.Add(1) })

	r.Start(context.Background())
	defer r.Stop()

	// The initial pass keeps the healthy primary.
	ticks <- time.Now()
	assert.Equal(t, primary.URL, r.BaseURL())

	healthy.Store(false)
	ticks <- time.Now()

	c := waitForChange(t, changes)
	assert.Equal(t, primary.URL, c.Old)
	assert.Equal(t, backup.URL, c.New)
	assert.Equal(t, int32(1), checks.Load())
}

func TestMonitorStop(t *testing.T) {
	r := newTestResolver(nil, WithDefaultURL(deadURL(t)), WithStartupDelay(time.Hour))

	// Stop without Start is a no-op.
	r.Stop()
	assert.False(t, r.Running())

	r.Start(context.Background())
	r.Start(context.Background())
	require.True(t, r.Running())

	stopped := make(chan struct{})
	go func() {
		r.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return while waiting out the startup delay")
	}
	assert.False(t, r.Running())
	r.Stop()
}

func TestMonitorStopsWithContext(t *testing.T) {
	ticks := make(chan time.Time)
	r := newTestResolver(nil, WithDefaultURL(deadURL(t)), WithTicks(ticks))

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not exit after context cancellation")
	}
}
