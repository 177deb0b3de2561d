// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

// Package stream drives established sessions with HueStream color frames.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/paxswill/hue-entertainment/pkg/huestream"
	"github.com/pion/logging"
)

// DefaultInterval is the time between two frames.
const DefaultInterval = 650 * time.Millisecond

var (
	errNoLights       = errors.New("stream: at least one light is required")
	errTooManyLights  = fmt.Errorf("stream: at most %d lights per bridge", huestream.MaxLights)
	errNoWriter       = errors.New("stream: writer is nil")
	errEmptyPalette   = errors.New("stream: palette is empty")
	errInvalidCadence = errors.New("stream: interval must be positive")
)

// Streamer cycles every light through a palette, one frame per interval.
type Streamer struct {
	w          io.Writer
	lights     []uint16
	palette    huestream.Palette
	brightness uint16
	interval   time.Duration
	log        logging.LeveledLogger

	seq   uint8
	index int
	sent  uint64
}

// Option configures a Streamer.
type Option func(*Streamer) error

// WithPalette replaces the default palette.
func WithPalette(p huestream.Palette) Option {
	return func(s *Streamer) error {
		if len(p) == 0 {
			return errEmptyPalette
		}
		s.palette = p

		return nil
	}
}

// WithInterval sets the frame cadence.
func WithInterval(d time.Duration) Option {
	return func(s *Streamer) error {
		if d <= 0 {
			return errInvalidCadence
		}
		s.interval = d

		return nil
	}
}

// WithBrightness sets the brightness of every frame.
func WithBrightness(b uint16) Option {
	return func(s *Streamer) error {
		s.brightness = b

		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(log logging.LeveledLogger) Option {
	return func(s *Streamer) error {
		s.log = log

		return nil
	}
}

// NewStreamer creates a Streamer writing frames for lights to w.
func NewStreamer(w io.Writer, lights []uint16, opts ...Option) (*Streamer, error) {
	switch {
	case w == nil:
		return nil, errNoWriter
	case len(lights) == 0:
		return nil, errNoLights
	case len(lights) > huestream.MaxLights:
		return nil, errTooManyLights
	}

	s := &Streamer{
		w:          w,
		lights:     append([]uint16{}, lights...),
		palette:    huestream.DansenPalette,
		brightness: huestream.MaxBrightness,
		interval:   DefaultInterval,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.log == nil {
		s.log = logging.NewDefaultLoggerFactory().NewLogger("huestream")
	}

	return s, nil
}

// Sent is the number of frames written.
func (s *Streamer) Sent() uint64 {
	return s.sent
}

// Step writes the next frame. The sequence number wraps at 255 and the
// palette index wraps at the end of the palette.
func (s *Streamer) Step() error {
	color, err := s.palette.At(s.index)
	if err != nil {
		return err
	}

	raw, err := huestream.Fill(s.seq, color, s.brightness, s.lights...).MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := s.w.Write(raw); err != nil {
		return fmt.Errorf("stream: write frame %d: %w", s.seq, err)
	}
	s.log.Tracef("wrote frame %d, color index %d, %d bytes", s.seq, s.index, len(raw))

	s.seq++
	s.index = (s.index + 1) % len(s.palette)
	s.sent++

	return nil
}

// Run writes a frame immediately and then once per interval until ctx is
// done. Ending through ctx is not an error.
func (s *Streamer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.Step(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			s.log.Debugf("stopping after %d frames: %v", s.sent, ctx.Err())

			return nil
		case <-ticker.C:
		}
	}
}
