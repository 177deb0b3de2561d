// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

// Command caramellights streams a four color cycle to Hue entertainment
// lights.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1) //nolint:gocritic
	}
}
