package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/homefix/homefix/log"
)

const (
	DefaultPort            = 8000
	DefaultProbeTimeout    = 1500 * time.Millisecond
	DefaultHealthTimeout   = 3 * time.Second
	DefaultMonitorInterval = 30 * time.Second
	DefaultStartupDelay    = time.Second

	healthPath = "/server-info/"
)

var (
	// ErrNoServerFound is returned when neither the current base URL nor any
	// candidate answered the health check.
	ErrNoServerFound = errors.New("no reachable server found")
	// ErrDetectionInProgress is returned when AutoDetect is called while
	// another detection pass is still running.
	ErrDetectionInProgress = errors.New("server detection already in progress")
)

// URLStore persists the adopted base URL between runs.
type URLStore interface {
	LoadBaseURL() (string, error)
	SaveBaseURL(url string, at time.Time) error
}

// Change describes a base URL switch.
type Change struct {
	Old string
	New string
	At  time.Time
}

// Resolver owns the backend base URL. It starts from the persisted value (or
// a default), re-validates it on demand or from a background monitor, and
// falls back to probing a list of candidate hosts when it stops answering.
// Discovery failures never replace a known URL with nothing.
type Resolver struct {
	store      URLStore
	httpClient *http.Client
	defaultURL string
	candidates []string
	port       int

	probeTimeout  time.Duration
	healthTimeout time.Duration
	interval      time.Duration
	startupDelay  time.Duration
	ticks         <-chan time.Time
	now           func() time.Time

	mu      sync.RWMutex
	baseURL string

	detecting atomic.Bool

	listenerMu sync.RWMutex
	listeners  []func(Change)

	lifeMu sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient sets the client used for health checks and probes.
// Timeouts are applied per request through contexts.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Resolver) {
		if hc != nil {
			r.httpClient = hc
		}
	}
}

// WithDefaultURL sets the address used when nothing has been persisted.
func WithDefaultURL(url string) Option {
	return func(r *Resolver) { r.defaultURL = normalize(url) }
}

// WithCandidates replaces the hosts probed during detection.
func WithCandidates(hosts ...string) Option {
	return func(r *Resolver) {
		r.candidates = append([]string(nil), hosts...)
	}
}

// WithPort sets the port used for candidates given without one.
func WithPort(port int) Option {
	return func(r *Resolver) {
		if port > 0 {
			r.port = port
		}
	}
}

func WithProbeTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.probeTimeout = d
		}
	}
}

func WithHealthTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.healthTimeout = d
		}
	}
}

// WithInterval sets how often the monitor re-validates the backend.
func WithInterval(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithStartupDelay sets how long Start waits before the first detection.
func WithStartupDelay(d time.Duration) Option {
	return func(r *Resolver) {
		if d >= 0 {
			r.startupDelay = d
		}
	}
}

// WithTicks drives the monitor from ch instead of a wall-clock ticker.
func WithTicks(ch <-chan time.Time) Option {
	return func(r *Resolver) { r.ticks = ch }
}

// WithClock overrides the timestamp source used when persisting.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// OnChange registers fn to be called after every base URL switch.
func OnChange(fn func(Change)) Option {
	return func(r *Resolver) { r.listeners = append(r.listeners, fn) }
}

// NewResolver builds a resolver and loads the persisted base URL from store.
// store may be nil, in which case nothing is persisted.
func NewResolver(store URLStore, opts ...Option) *Resolver {
	r := &Resolver{
		store:         store,
		httpClient:    &http.Client{},
		port:          DefaultPort,
		probeTimeout:  DefaultProbeTimeout,
		healthTimeout: DefaultHealthTimeout,
		interval:      DefaultMonitorInterval,
		startupDelay:  DefaultStartupDelay,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.baseURL = r.defaultURL
	if store != nil {
		saved, err := store.LoadBaseURL()
		switch {
		case err != nil:
			log.WarningLog.Printf("failed to load saved base URL, using default: %v", err)
		case saved == "":
		case validateBaseURL(saved) != nil:
			log.WarningLog.Printf("ignoring invalid saved base URL %q", log.SanitizeURL(saved))
		default:
			r.baseURL = normalize(saved)
		}
	}
	return r
}

// BaseURL returns the current backend address.
func (r *Resolver) BaseURL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.baseURL
}

// SetBaseURL adopts url and persists it. Persistence failures are logged
// rather than returned; the in-memory value is still updated.
func (r *Resolver) SetBaseURL(url string) error {
	url = normalize(url)
	if err := validateBaseURL(url); err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	r.mu.Lock()
	old := r.baseURL
	r.baseURL = url
	r.mu.Unlock()

	at := r.now()
	if r.store != nil {
		if err := r.store.SaveBaseURL(url, at); err != nil {
			log.WarningLog.Printf("failed to persist base URL: %v", err)
		}
	}
	if old != url {
		log.InfoLog.Printf("base URL changed: %s -> %s", log.SanitizeURL(old), log.SanitizeURL(url))
		r.notify(Change{Old: old, New: url, At: at})
	}
	return nil
}

// AddListener registers fn for base URL changes.
func (r *Resolver) AddListener(fn func(Change)) {
	r.listenerMu.Lock()
	defer r.listenerMu.Unlock()
	r.listeners = append(r.listeners, fn)
}

func (r *Resolver) notify(c Change) {
	r.listenerMu.RLock()
	listeners := make([]func(Change), len(r.listeners))
	copy(listeners, r.listeners)
	r.listenerMu.RUnlock()

	for _, fn := range listeners {
		fn(c)
	}
}

// Candidates returns the base URLs probed during detection, in order.
func (r *Resolver) Candidates() []string {
	out := make([]string, 0, len(r.candidates))
	for _, c := range r.candidates {
		out = append(out, candidateURL(c, r.port))
	}
	return out
}

// Detecting reports whether a detection pass is running.
func (r *Resolver) Detecting() bool {
	return r.detecting.Load()
}

// CheckConnection reports whether the current base URL answers the health
// check with HTTP 200.
func (r *Resolver) CheckConnection(ctx context.Context) bool {
	_, ok := r.probe(ctx, r.BaseURL(), r.healthTimeout)
	return ok
}

// AutoDetect keeps the current base URL if it is healthy. Otherwise it probes
// every candidate in order and adopts the first that answers, preferring the
// base_url the server reports about itself. When nothing answers the current
// value is kept and ErrNoServerFound is returned.
func (r *Resolver) AutoDetect(ctx context.Context) (string, error) {
	if !r.detecting.CompareAndSwap(false, true) {
		return "", ErrDetectionInProgress
	}
	defer r.detecting.Store(false)

	if r.CheckConnection(ctx) {
		return r.BaseURL(), nil
	}

	log.InfoLog.Printf("current base URL %s unreachable, probing %d candidates",
		log.SanitizeURL(r.BaseURL()), len(r.candidates))

	for _, candidate := range r.Candidates() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		info, ok := r.probe(ctx, candidate, r.probeTimeout)
		if !ok {
			continue
		}

		adopt := candidate
		if info.BaseURL != "" {
			if err := validateBaseURL(info.BaseURL); err == nil {
				adopt = normalize(info.BaseURL)
			} else {
				log.WarningLog.Printf("server at %s reported invalid base_url %q, using probe address",
					candidate, log.SanitizeURL(info.BaseURL))
			}
		}
		if err := r.SetBaseURL(adopt); err != nil {
			return "", err
		}
		log.InfoLog.Printf("server found: %s", log.SanitizeURL(adopt))
		return adopt, nil
	}

	log.WarningLog.Printf("no reachable server found, keeping %s", log.SanitizeURL(r.BaseURL()))
	return "", ErrNoServerFound
}

// EnsureConnection checks the current base URL and runs AutoDetect when it
// fails. It reports whether a live server is known afterwards.
func (r *Resolver) EnsureConnection(ctx context.Context) bool {
	if r.CheckConnection(ctx) {
		return true
	}
	log.InfoLog.Printf("server connection lost, attempting reconnect")
	_, err := r.AutoDetect(ctx)
	return err == nil
}

type serverInfo struct {
	BaseURL string `json:"base_url"`
}

// probe issues GET <base>/server-info/ bounded by timeout.
func (r *Resolver) probe(ctx context.Context, base string, timeout time.Duration) (serverInfo, bool) {
	var info serverInfo
	if base == "" {
		return info, false
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, base+healthPath, nil)
	if err != nil {
		return info, false
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		log.DebugLog.Printf("probe %s failed: %v", log.SanitizeURL(base), err)
		return info, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.DebugLog.Printf("probe %s returned %d", log.SanitizeURL(base), resp.StatusCode)
		return info, false
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil {
		_ = json.Unmarshal(body, &info)
	}
	return info, true
}
