// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

// Package config loads the bridges to stream to from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/paxswill/hue-entertainment/pkg/huestream"
	"github.com/paxswill/hue-entertainment/pkg/psk"
	"gopkg.in/yaml.v3"
)

// Environment variables overlaid on the first bridge.
const (
	EnvBridge   = "HUE_BRIDGE"
	EnvIdentity = "HUE_IDENTITY"
	EnvPSK      = "HUE_PSK"
	EnvLights   = "HUE_LIGHTS"
	EnvLogLevel = "HUE_LOG_LEVEL"
)

// Validation errors.
var (
	ErrNoBridge      = errors.New("a bridge address is required")
	ErrNoIdentity    = errors.New("an identity is required")
	ErrNoLights      = errors.New("at least one light is required")
	ErrTooManyLights = fmt.Errorf("at most %d lights per bridge", huestream.MaxLights)
	ErrNoBridges     = errors.New("no bridges configured")
)

// Bridge is one bridge entry.
type Bridge struct {
	Name     string   `yaml:"name"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Identity string   `yaml:"identity"`
	PSK      string   `yaml:"psk"`
	Lights   []uint16 `yaml:"lights"`
}

// Config holds everything the CLI streams with.
type Config struct {
	LogLevel         string        `yaml:"log_level"`
	Interval         time.Duration `yaml:"interval"`
	Duration         time.Duration `yaml:"duration"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	Bridges          []Bridge      `yaml:"bridges"`
}

// Load reads the YAML file at path. An empty path or a missing file yields
// an empty Config.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv loads envFiles (.env when none are given) into the process
// environment without overriding it, then overlays the HUE_* variables on
// the first bridge, creating it if needed.
func (c *Config) ApplyEnv(envFiles ...string) error {
	_ = godotenv.Load(envFiles...)

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}

	host, identity, key, lights := os.Getenv(EnvBridge), os.Getenv(EnvIdentity), os.Getenv(EnvPSK), os.Getenv(EnvLights)
	if host == "" && identity == "" && key == "" && lights == "" {
		return nil
	}

	b := c.first()
	if host != "" {
		b.Host = host
	}
	if identity != "" {
		b.Identity = identity
	}
	if key != "" {
		b.PSK = key
	}
	if lights != "" {
		ids, err := ParseLights(lights)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLights, err)
		}
		b.Lights = ids
	}

	return nil
}

// first returns the first bridge, creating an empty one when none exist.
func (c *Config) first() *Bridge {
	if len(c.Bridges) == 0 {
		c.Bridges = append(c.Bridges, Bridge{})
	}

	return &c.Bridges[0]
}

// Override sets non-zero fields of o on the first bridge.
func (c *Config) Override(o Bridge) {
	if o.Host == "" && o.Identity == "" && o.PSK == "" && len(o.Lights) == 0 && o.Port == 0 {
		return
	}

	b := c.first()
	if o.Host != "" {
		b.Host = o.Host
	}
	if o.Identity != "" {
		b.Identity = o.Identity
	}
	if o.PSK != "" {
		b.PSK = o.PSK
	}
	if o.Port != 0 {
		b.Port = o.Port
	}
	if len(o.Lights) > 0 {
		b.Lights = o.Lights
	}
}

// Validate checks every bridge.
func (c *Config) Validate() error {
	if len(c.Bridges) == 0 {
		return ErrNoBridges
	}

	var errs []error
	for i := range c.Bridges {
		if err := c.Bridges[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("bridge %d (%s): %w", i, c.Bridges[i].Label(), err))
		}
	}

	return errors.Join(errs...)
}

// Label names the bridge in messages.
func (b *Bridge) Label() string {
	if b.Name != "" {
		return b.Name
	}

	return b.Host
}

// Validate checks the bridge address, the lights and the PSK format.
func (b *Bridge) Validate() error {
	switch {
	case b.Host == "":
		return ErrNoBridge
	case b.Identity == "":
		return ErrNoIdentity
	case len(b.Lights) == 0:
		return ErrNoLights
	case len(b.Lights) > huestream.MaxLights:
		return ErrTooManyLights
	}

	return psk.ValidateKeyHex(b.PSK)
}

// Credential builds the bridge's credential.
func (b *Bridge) Credential() (*psk.Credential, error) {
	return psk.New(b.Identity, b.PSK)
}

// ParseLights parses a comma separated list of light IDs.
func ParseLights(s string) ([]uint16, error) {
	var ids []uint16
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.ParseUint(field, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid light id %q: %w", field, err)
		}
		ids = append(ids, uint16(id))
	}

	return ids, nil
}
