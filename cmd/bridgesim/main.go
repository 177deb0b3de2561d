// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

// Command bridgesim runs a stand-in for a Hue bridge's entertainment port
// and prints the frames it receives.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	entertainment "github.com/paxswill/hue-entertainment"
	"github.com/paxswill/hue-entertainment/internal/bridgesim"
	"github.com/paxswill/hue-entertainment/internal/config"
	"github.com/paxswill/hue-entertainment/pkg/psk"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1) //nolint:gocritic
	}
}

func newCmd() *cobra.Command {
	var (
		listen   string
		identity string
		key      string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:           "bridgesim",
		Short:         "Emulate the entertainment port of a Hue bridge",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := psk.ValidateKeyHex(key); err != nil {
				return err
			}
			raw, err := psk.DecodeHex(key)
			if err != nil {
				return err
			}

			addr, err := net.ResolveUDPAddr("udp", listen)
			if err != nil {
				return err
			}

			factory, err := config.LoggerFactory(logLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			bridge, err := bridgesim.Listen(bridgesim.Config{
				Addr:          addr,
				Identity:      identity,
				Key:           raw,
				LoggerFactory: factory,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s as %q\n", bridge.Addr(), identity)

			go func() {
				<-cmd.Context().Done()
				_ = bridge.Close()
			}()

			for frame := range bridge.Frames() {
				if frame.Stream == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bytes, not a frame: %v\n", frame.Remote, len(frame.Raw), frame.DecodeErr)

					continue
				}
				for _, l := range frame.Stream.Lights {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: seq %3d %s light %d = (%d, %d, %d)\n",
						frame.Remote, frame.Stream.Sequence, frame.Stream.ColorSpace, l.ID, l.X, l.Y, l.Brightness)
				}
			}

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&listen, "listen", fmt.Sprintf(":%d", entertainment.DefaultPort), "UDP address to listen on")
	f.StringVarP(&identity, "identity", "i", "", "accepted entertainment username")
	f.StringVarP(&key, "psk", "p", "", "accepted client key, 32 hex characters")
	f.StringVar(&logLevel, "log-level", "info", "disabled, error, warn, info, debug or trace")
	_ = cmd.MarkFlagRequired("identity")
	_ = cmd.MarkFlagRequired("psk")

	return cmd
}
