// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	entertainment "github.com/paxswill/hue-entertainment"
	"github.com/paxswill/hue-entertainment/pkg/huestream"
	"github.com/paxswill/hue-entertainment/pkg/psk"
	"github.com/pion/logging"
	"golang.org/x/sync/errgroup"
)

var (
	errNoContext        = errors.New("stream: entertainment context is nil")
	errSharedCredential = errors.New("stream: credential used by more than one target")
)

// WorkerError is returned for a worker that failed. RunID matches the
// prefix of that worker's log lines.
type WorkerError struct {
	Target string
	RunID  string
	Err    error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Target, e.RunID, e.Err)
}

func (e *WorkerError) Unwrap() error { return e.Err }

// Target is one bridge to stream to.
type Target struct {
	Name       string
	Host       string
	Port       int
	Credential *psk.Credential
	Lights     []uint16
}

// Config is shared by every worker of a Run.
type Config struct {
	Context *entertainment.Context
	// Interval between frames, DefaultInterval when zero.
	Interval time.Duration
	// Duration bounds each worker's stream; zero streams until ctx is done.
	Duration time.Duration
	Palette  huestream.Palette
	// LoggerFactory defaults to the entertainment context's.
	LoggerFactory logging.LoggerFactory
}

// Run connects to every target and streams to all of them concurrently,
// one worker per bridge. It returns when every worker has finished; the
// first worker error cancels the others and is returned as a WorkerError.
//
// A credential may only hold one session at a time, so each target needs
// its own.
func Run(ctx context.Context, cfg Config, targets ...Target) error {
	if cfg.Context == nil {
		return errNoContext
	}
	owners := make(map[*psk.Credential]string, len(targets))
	for _, target := range targets {
		if target.Credential == nil {
			continue
		}
		if prev, ok := owners[target.Credential]; ok {
			return fmt.Errorf("%w: %s and %s", errSharedCredential, prev, target.label())
		}
		owners[target.Credential] = target.label()
	}
	if cfg.LoggerFactory == nil {
		cfg.LoggerFactory = cfg.Context.LoggerFactory()
	}
	log := cfg.LoggerFactory.NewLogger("huestream")

	group, gctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		target := target
		group.Go(func() error {
			return work(gctx, cfg, log, target)
		})
	}

	return group.Wait()
}

func work(ctx context.Context, cfg Config, log logging.LeveledLogger, target Target) error {
	runID := uuid.New().String()
	name := target.label()
	fail := func(err error) error {
		return &WorkerError{Target: name, RunID: runID, Err: err}
	}
	port := target.Port
	if port == 0 {
		port = entertainment.DefaultPort
	}

	log.Infof("[%s] connecting to %s (%s:%d)", runID, name, target.Host, port)
	sess, err := cfg.Context.Connect(ctx, target.Host, port, target.Credential)
	switch {
	case errors.Is(err, entertainment.ErrTimeoutConfig) && sess != nil:
		log.Warnf("[%s] %s: %v", runID, name, err)
	case err != nil:
		return fail(err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			log.Debugf("[%s] closing session to %s: %v", runID, name, cerr)
		}
	}()

	opts := []Option{WithLogger(log)}
	if cfg.Interval > 0 {
		opts = append(opts, WithInterval(cfg.Interval))
	}
	if len(cfg.Palette) > 0 {
		opts = append(opts, WithPalette(cfg.Palette))
	}
	streamer, err := NewStreamer(sess, target.Lights, opts...)
	if err != nil {
		return fail(err)
	}

	sctx := ctx
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	if err := streamer.Run(sctx); err != nil {
		return fail(err)
	}
	log.Infof("[%s] %s done, %d frames sent", runID, name, streamer.Sent())

	return nil
}

func (t Target) label() string {
	if t.Name == "" {
		return t.Host
	}

	return t.Name
}
