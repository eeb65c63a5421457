package discovery

import (
	"context"
	"errors"
	"time"

	"github.com/homefix/homefix/log"
)

// Start launches the background monitor. After the startup delay it runs one
// detection pass, then re-validates the backend on every tick and re-runs
// detection when it stops answering. Calling Start on a running resolver is
// a no-op.
func (r *Resolver) Start(ctx context.Context) {
	r.lifeMu.Lock()
	defer r.lifeMu.Unlock()
	if r.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	log.InfoLog.Printf("starting server monitor (interval %s, %d candidates)", r.interval, len(r.candidates))
	go r.monitor(ctx, r.done)
}

// Stop halts the monitor and waits for it to exit. It is safe to call more
// than once or without Start.
func (r *Resolver) Stop() {
	r.lifeMu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.lifeMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.InfoLog.Printf("server monitor stopped")
}

// Running reports whether the monitor goroutine is active.
func (r *Resolver) Running() bool {
	r.lifeMu.Lock()
	defer r.lifeMu.Unlock()
	return r.cancel != nil
}

func (r *Resolver) monitor(ctx context.Context, done chan struct{}) {
	defer close(done)

	if r.startupDelay > 0 {
		timer := time.NewTimer(r.startupDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	log.InfoLog.Printf("detecting server...")
	if url, err := r.AutoDetect(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.WarningLog.Printf("server detection failed, keeping %s: %v", log.SanitizeURL(r.BaseURL()), err)
	} else {
		log.InfoLog.Printf("server detection complete: %s", log.SanitizeURL(url))
	}

	ticks := r.ticks
	if ticks == nil {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	everyN := log.NewEvery(5 * time.Minute)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ticks:
			if !ok {
				return
			}
		}

		if r.Detecting() {
			continue
		}
		if !r.EnsureConnection(ctx) && ctx.Err() == nil {
			if everyN.ShouldLog() {
				log.WarningLog.Printf("reconnect failed, still using %s", log.SanitizeURL(r.BaseURL()))
			}
		}
	}
}

// Detect runs a single detection pass and reports whether the returned error
// only means nothing answered.
func (r *Resolver) Detect(ctx context.Context) (string, bool, error) {
	url, err := r.AutoDetect(ctx)
	if errors.Is(err, ErrNoServerFound) {
		return r.BaseURL(), false, nil
	}
	if err != nil {
		return r.BaseURL(), false, err
	}
	return url, true, nil
}
