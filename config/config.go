package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/homefix/homefix/log"
	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName     = "config.json"
	YAMLConfigFileName = "config.yaml"

	// EnvConfigDir relocates the whole configuration directory.
	EnvConfigDir = "HOMEFIX_CONFIG_DIR"
	// EnvPrefix is prepended to every field-level override, e.g. HOMEFIX_BASE_URL.
	EnvPrefix = "HOMEFIX_"

	DefaultBaseURL = "http://172.30.1.6:8000"
	DefaultPort    = 8000
)

// DefaultCandidateHosts are probed in order when the configured backend stops
// answering. The list mirrors the addresses the backend has historically been
// served from on development networks; it is not a discovery protocol.
var DefaultCandidateHosts = []string{
	"172.30.1.6",
	"172.16.203.17",
	"192.168.1.100",
	"192.168.1.101",
	"192.168.1.102",
	"192.168.0.100",
	"192.168.0.101",
	"192.168.0.102",
	"10.0.0.100",
	"10.0.0.101",
	"10.0.0.102",
	"172.16.0.100",
	"172.16.0.101",
	"172.16.0.102",
	"192.168.1.1",
	"192.168.0.1",
	"10.0.0.1",
}

// GetConfigDir returns the path to the application's configuration directory
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config home directory: %w", err)
	}
	return filepath.Join(homeDir, ".homefix"), nil
}

// Config represents the application configuration
type Config struct {
	// DefaultBaseURL is used until discovery resolves a live backend.
	DefaultBaseURL string `json:"default_base_url" yaml:"default_base_url" env:"BASE_URL"`
	// CandidateHosts are probed sequentially on DiscoveryPort when the current backend is unreachable.
	CandidateHosts []string `json:"candidate_hosts" yaml:"candidate_hosts" env:"CANDIDATES" envSeparator:","`
	// DiscoveryPort is the port every candidate host is probed on.
	DiscoveryPort int `json:"discovery_port" yaml:"discovery_port" env:"PORT"`
	// ProbeTimeoutMS bounds a single candidate probe.
	ProbeTimeoutMS int `json:"probe_timeout_ms" yaml:"probe_timeout_ms" env:"PROBE_TIMEOUT_MS"`
	// HealthTimeoutMS bounds the health check against the current base URL.
	HealthTimeoutMS int `json:"health_timeout_ms" yaml:"health_timeout_ms" env:"HEALTH_TIMEOUT_MS"`
	// MonitorIntervalMS is how often the background monitor re-validates the backend.
	MonitorIntervalMS int `json:"monitor_interval_ms" yaml:"monitor_interval_ms" env:"MONITOR_INTERVAL_MS"`
	// StartupDelayMS delays the first discovery pass after launch.
	StartupDelayMS int `json:"startup_delay_ms" yaml:"startup_delay_ms" env:"STARTUP_DELAY_MS"`
	// RequestTimeoutMS bounds chat, recommend and analyze requests.
	RequestTimeoutMS int `json:"request_timeout_ms" yaml:"request_timeout_ms" env:"REQUEST_TIMEOUT_MS"`
	// DisableDiscovery pins the client to the configured base URL.
	DisableDiscovery bool `json:"disable_discovery" yaml:"disable_discovery" env:"NO_DISCOVERY"`
	// KeyMappings overrides TUI keys by action name, e.g. {"quit": ["Q"]}.
	KeyMappings map[string][]string `json:"key_mappings,omitempty" yaml:"key_mappings,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	hosts := make([]string, len(DefaultCandidateHosts))
	copy(hosts, DefaultCandidateHosts)
	return &Config{
		DefaultBaseURL:    DefaultBaseURL,
		CandidateHosts:    hosts,
		DiscoveryPort:     DefaultPort,
		ProbeTimeoutMS:    1500,
		HealthTimeoutMS:   3000,
		MonitorIntervalMS: 30000,
		StartupDelayMS:    1000,
		RequestTimeoutMS:  10000,
	}
}

func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutMS) * time.Millisecond
}

func (c *Config) HealthTimeout() time.Duration {
	return time.Duration(c.HealthTimeoutMS) * time.Millisecond
}

func (c *Config) MonitorInterval() time.Duration {
	return time.Duration(c.MonitorIntervalMS) * time.Millisecond
}

func (c *Config) StartupDelay() time.Duration {
	return time.Duration(c.StartupDelayMS) * time.Millisecond
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// fillDefaults replaces zero or negative values left by a partial config file.
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.DefaultBaseURL == "" {
		c.DefaultBaseURL = d.DefaultBaseURL
	}
	if len(c.CandidateHosts) == 0 {
		c.CandidateHosts = d.CandidateHosts
	}
	if c.DiscoveryPort <= 0 {
		c.DiscoveryPort = d.DiscoveryPort
	}
	if c.ProbeTimeoutMS <= 0 {
		c.ProbeTimeoutMS = d.ProbeTimeoutMS
	}
	if c.HealthTimeoutMS <= 0 {
		c.HealthTimeoutMS = d.HealthTimeoutMS
	}
	if c.MonitorIntervalMS <= 0 {
		c.MonitorIntervalMS = d.MonitorIntervalMS
	}
	if c.StartupDelayMS < 0 {
		c.StartupDelayMS = d.StartupDelayMS
	}
	if c.RequestTimeoutMS <= 0 {
		c.RequestTimeoutMS = d.RequestTimeoutMS
	}
}

// LoadConfig loads the configuration from disk and applies environment
// overrides. If the file cannot be read, the defaults are used instead.
func LoadConfig() *Config {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return applyEnv(DefaultConfig())
	}
	return applyEnv(loadFromDir(configDir))
}

func loadFromDir(configDir string) *Config {
	yamlPath := filepath.Join(configDir, YAMLConfigFileName)
	if data, err := os.ReadFile(yamlPath); err == nil {
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.ErrorLog.Printf("failed to parse config file %s: %v", yamlPath, err)
			return DefaultConfig()
		}
		cfg.fillDefaults()
		return &cfg
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			defaultCfg := DefaultConfig()
			if saveErr := saveConfig(configDir, defaultCfg); saveErr != nil {
				log.WarningLog.Printf("failed to save default config: %v", saveErr)
			}
			return defaultCfg
		}

		log.WarningLog.Printf("failed to get config file: %v", err)
		return DefaultConfig()
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.ErrorLog.Printf("failed to parse config file: %v", err)
		return DefaultConfig()
	}
	cfg.fillDefaults()
	return &cfg
}

func applyEnv(cfg *Config) *Config {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		log.WarningLog.Printf("ignoring invalid environment overrides: %v", err)
	}
	cfg.fillDefaults()
	return cfg
}

// saveConfig saves the configuration to disk
func saveConfig(configDir string, config *Config) error {
	return WriteJSON(filepath.Join(configDir, ConfigFileName), "config", config)
}

// SaveConfig writes config.json to the configuration directory.
func SaveConfig(config *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	return saveConfig(configDir, config)
}
