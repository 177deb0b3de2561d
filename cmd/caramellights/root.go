// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"math"
	"time"

	entertainment "github.com/paxswill/hue-entertainment"
	"github.com/paxswill/hue-entertainment/internal/config"
	"github.com/paxswill/hue-entertainment/pkg/stream"
	"github.com/spf13/cobra"
)

var errLightRange = errors.New("light ids must be between 0 and 65535")

type rootOptions struct {
	cfgFile  string
	logLevel string
	bridge   string
	identity string
	psk      string
	port     int
	lights   []int
	duration time.Duration
	interval time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "caramellights",
		Short: "Stream a color cycle to Hue entertainment lights",
		Long: `caramellights opens a DTLS session to the entertainment port of one or
more Hue bridges and cycles the given lights through red, green, blue and
orange.

Bridges come from the config file, then HUE_BRIDGE, HUE_IDENTITY, HUE_PSK
and HUE_LIGHTS (also read from .env), then the flags below.`,
		Example:       "  caramellights -b 192.168.1.2 -i <username> -p <clientkey> -l 1 -l 2",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStream(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "YAML file listing bridges")
	flags.StringVar(&opts.logLevel, "log-level", "", "disabled, error, warn, info, debug or trace")

	streamFlags := func(cmd *cobra.Command) {
		f := cmd.Flags()
		f.StringVarP(&opts.bridge, "bridge", "b", "", "bridge address")
		f.StringVarP(&opts.identity, "identity", "i", "", "entertainment username")
		f.StringVarP(&opts.psk, "psk", "p", "", "client key, 32 hex characters")
		f.IntVar(&opts.port, "port", 0, fmt.Sprintf("entertainment port (default %d)", entertainment.DefaultPort))
		f.IntSliceVarP(&opts.lights, "light", "l", nil, "light id to stream to, repeatable")
		f.DurationVarP(&opts.duration, "duration", "d", 0, "stop after this long (default until interrupted)")
		f.DurationVar(&opts.interval, "interval", 0, fmt.Sprintf("time between frames (default %s)", stream.DefaultInterval))
	}
	streamFlags(root)

	streamCmd := &cobra.Command{
		Use:   "stream",
		Short: "Stream to the configured bridges (the default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStream(cmd, opts)
		},
	}
	streamFlags(streamCmd)

	root.AddCommand(streamCmd, newDiscoverCmd(opts))

	return root
}

// loadConfig merges the config file, the environment and the flags, in
// that order, and validates the result.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	lights := make([]uint16, 0, len(opts.lights))
	for _, id := range opts.lights {
		if id < 0 || id > math.MaxUint16 {
			return nil, fmt.Errorf("%w: %d", errLightRange, id)
		}
		lights = append(lights, uint16(id))
	}
	cfg.Override(config.Bridge{
		Host:     opts.bridge,
		Identity: opts.identity,
		PSK:      opts.psk,
		Port:     opts.port,
		Lights:   lights,
	})

	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.duration > 0 {
		cfg.Duration = opts.duration
	}
	if opts.interval > 0 {
		cfg.Interval = opts.interval
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func runStream(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	factory, err := config.LoggerFactory(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctxOpts := []entertainment.Option{entertainment.WithLoggerFactory(factory)}
	if cfg.HandshakeTimeout > 0 {
		ctxOpts = append(ctxOpts, entertainment.WithHandshakeTimeout(cfg.HandshakeTimeout))
	}
	ec, err := entertainment.NewContext(ctxOpts...)
	if err != nil {
		return err
	}

	targets := make([]stream.Target, 0, len(cfg.Bridges))
	for i := range cfg.Bridges {
		b := &cfg.Bridges[i]
		cred, err := b.Credential()
		if err != nil {
			return fmt.Errorf("bridge %s: %w", b.Label(), err)
		}
		targets = append(targets, stream.Target{
			Name:       b.Label(),
			Host:       b.Host,
			Port:       b.Port,
			Credential: cred,
			Lights:     b.Lights,
		})
	}

	return stream.Run(cmd.Context(), stream.Config{
		Context:  ec,
		Interval: cfg.Interval,
		Duration: cfg.Duration,
	}, targets...)
}
