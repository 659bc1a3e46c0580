// Package config loads the peerwatch daemon configuration.
package config

import (
	"distkv-transport/internal/logger"
	"distkv-transport/internal/netaddr"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for fields a config file leaves unset.
const (
	DefaultLogLevel      = "INFO"
	DefaultAnnouncePort  = 9372
	DefaultProbeInterval = "5s"
	DefaultDialTimeout   = "3s"
)

// fileConfig is the on-disk YAML shape.
type fileConfig struct {
	// LogLevel is one of DEBUG, INFO, WARN, ERROR.
	LogLevel string `yaml:"logLevel"`

	// AnnouncePort is the UDP port announcements are received on.
	AnnouncePort uint16 `yaml:"announcePort"`

	// ProbeInterval is the time between liveness sweeps, e.g. "5s".
	ProbeInterval string `yaml:"probeInterval"`

	// DialTimeout bounds resolving plus dialing one peer.
	DialTimeout string `yaml:"dialTimeout"`

	// Peers are "host:port" endpoints watched regardless of
	// announcements.
	Peers []string `yaml:"peers"`
}

// Config is the validated peerwatch runtime configuration.
type Config struct {
	LogLevel      logger.Level
	AnnouncePort  uint16
	ProbeInterval time.Duration
	DialTimeout   time.Duration
	Peers         []netaddr.Endpoint
}

// Parse builds a Config from YAML data, applying defaults to unset
// fields and validating the result.
func Parse(data []byte) (*Config, error) {
	fc := fileConfig{
		LogLevel:      DefaultLogLevel,
		AnnouncePort:  DefaultAnnouncePort,
		ProbeInterval: DefaultProbeInterval,
		DialTimeout:   DefaultDialTimeout,
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	level, err := logger.ParseLevel(fc.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config logLevel: %w", err)
	}

	probe, err := time.ParseDuration(fc.ProbeInterval)
	if err != nil {
		return nil, fmt.Errorf("config probeInterval: %w", err)
	}
	if probe <= 0 {
		return nil, fmt.Errorf("config probeInterval %q must be positive", fc.ProbeInterval)
	}

	dial, err := time.ParseDuration(fc.DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("config dialTimeout: %w", err)
	}
	if dial <= 0 {
		return nil, fmt.Errorf("config dialTimeout %q must be positive", fc.DialTimeout)
	}

	if fc.AnnouncePort == 0 {
		return nil, fmt.Errorf("config announcePort cannot be 0")
	}

	peers := make([]netaddr.Endpoint, 0, len(fc.Peers))
	for _, p := range fc.Peers {
		ep, err := netaddr.ParseEndpoint(p)
		if err != nil {
			return nil, fmt.Errorf("config peer %q: %w", p, err)
		}
		if ep.Host == "" || ep.Port == 0 {
			return nil, fmt.Errorf("config peer %q: host and port are required", p)
		}
		peers = append(peers, ep)
	}

	return &Config{
		LogLevel:      level,
		AnnouncePort:  fc.AnnouncePort,
		ProbeInterval: probe,
		DialTimeout:   dial,
		Peers:         peers,
	}, nil
}

// Load reads and parses the YAML config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the configuration used when no file is given.
func Default() (*Config, error) {
	return Parse(nil)
}
