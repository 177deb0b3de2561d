// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/paxswill/hue-entertainment/internal/config"
	"github.com/paxswill/hue-entertainment/pkg/discovery"
	"github.com/spf13/cobra"
)

func newDiscoverCmd(opts *rootOptions) *cobra.Command {
	var (
		timeout time.Duration
		iface   string
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List Hue bridges advertised on the local network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			factory, err := config.LoggerFactory(opts.logLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			bridges, err := discovery.NewBrowser(discovery.Config{
				Interface:     iface,
				LoggerFactory: factory,
			}).Collect(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMODEL\tADDRESS\tNAME")
			for _, b := range bridges {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.ModelID, b.Address(), b.Instance)
			}

			return w.Flush()
		},
	}
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 5*time.Second, "how long to browse")
	cmd.Flags().StringVar(&iface, "interface", "", "network interface to browse on")

	return cmd
}
