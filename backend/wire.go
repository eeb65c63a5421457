// Package backend assembles the configuration, stores, resolver and API
// client shared by the terminal UI, the CLI subcommands and the MCP server.
package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/muesli/termenv"

	"github.com/homefix/homefix/api"
	"github.com/homefix/homefix/config"
	"github.com/homefix/homefix/conversation"
	"github.com/homefix/homefix/discovery"
	"github.com/homefix/homefix/log"
	"github.com/homefix/homefix/photo"
	"github.com/homefix/homefix/prefs"
)

// Options are the command line overrides applied on top of the config file.
type Options struct {
	// BaseURL pins the backend address. It is not persisted and disables
	// discovery.
	BaseURL string
	// NoDiscovery keeps the persisted or default address without probing.
	NoDiscovery bool
	// HTTP is used for API calls. Nil builds one from the configured timeout.
	HTTP *http.Client
	// DarkDefault decides dark mode when no preference was saved yet. Nil
	// asks the terminal.
	DarkDefault func() bool
}

// Wire bundles everything a front end needs.
type Wire struct {
	Config   *config.Config
	State    *config.StateStore
	Resolver *discovery.Resolver
	Client   *api.Client
	Prefs    *prefs.Preferences

	discovery bool
}

// NewWire constructs the dependency graph from the config directory and opts.
func NewWire(opts Options) (*Wire, error) {
	cfg := config.LoadConfig()

	stateStore, err := config.NewStateStore("")
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	resolverOpts := []discovery.Option{
		discovery.WithDefaultURL(cfg.DefaultBaseURL),
		discovery.WithCandidates(cfg.CandidateHosts...),
		discovery.WithPort(cfg.DiscoveryPort),
		discovery.WithProbeTimeout(cfg.ProbeTimeout()),
		discovery.WithHealthTimeout(cfg.HealthTimeout()),
		discovery.WithInterval(cfg.MonitorInterval()),
		discovery.WithStartupDelay(cfg.StartupDelay()),
	}

	var (
		resolver *discovery.Resolver
		enabled  = !cfg.DisableDiscovery && !opts.NoDiscovery
	)
	if opts.BaseURL != "" {
		resolver = discovery.NewResolver(nil, append(resolverOpts, discovery.WithDefaultURL(opts.BaseURL))...)
		enabled = false
		log.InfoLog.Printf("using pinned base URL %s", log.SanitizeURL(opts.BaseURL))
	} else {
		resolver = discovery.NewResolver(stateStore, resolverOpts...)
	}

	apiOpts := []api.Option{api.WithTimeout(cfg.RequestTimeout())}
	if opts.HTTP != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(opts.HTTP))
	}
	client := api.NewClient(resolver, apiOpts...)

	prefStore, err := prefs.NewFileStore("")
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}
	darkDefault := opts.DarkDefault
	if darkDefault == nil {
		darkDefault = termenv.HasDarkBackground
	}
	defaults := prefs.DefaultSettings(true)
	if _, saved, err := prefStore.Load(); err != nil || !saved {
		defaults.DarkMode = darkDefault()
	}
	preferences := prefs.Load(prefStore, defaults)

	return &Wire{
		Config:    cfg,
		State:     stateStore,
		Resolver:  resolver,
		Client:    client,
		Prefs:     preferences,
		discovery: enabled,
	}, nil
}

// DiscoveryEnabled reports whether StartDiscovery will run the monitor.
func (w *Wire) DiscoveryEnabled() bool {
	return w.discovery
}

// StartDiscovery starts the background resolver monitor when discovery is
// enabled.
func (w *Wire) StartDiscovery(ctx context.Context) {
	if !w.discovery {
		log.InfoLog.Printf("server discovery disabled, using %s", log.SanitizeURL(w.Resolver.BaseURL()))
		return
	}
	w.Resolver.Start(ctx)
}

// NewConversation starts a chat against this backend.
func (w *Wire) NewConversation() *conversation.Conversation {
	return conversation.New(w.Client)
}

// NewPhotoSession starts a photo analysis session against this backend.
func (w *Wire) NewPhotoSession() *photo.Session {
	return photo.NewSession(w.Client)
}

// Close stops background work.
func (w *Wire) Close() {
	w.Resolver.Stop()
}
