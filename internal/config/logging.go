// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/pion/logging"
)

// ParseLogLevel maps a level name to a pion log level.
func ParseLogLevel(name string) (logging.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "disabled", "off", "none":
		return logging.LogLevelDisabled, nil
	case "error":
		return logging.LogLevelError, nil
	case "warn", "warning":
		return logging.LogLevelWarn, nil
	case "info":
		return logging.LogLevelInfo, nil
	case "debug":
		return logging.LogLevelDebug, nil
	case "trace":
		return logging.LogLevelTrace, nil
	default:
		return logging.LogLevelDisabled, fmt.Errorf("unknown log level %q", name)
	}
}

// LoggerFactory builds the factory every component logs through. An empty
// level keeps the PION_LOG_* environment defaults.
func LoggerFactory(level string, w io.Writer) (logging.LoggerFactory, error) {
	factory := logging.NewDefaultLoggerFactory()
	factory.Writer = w
	if level == "" {
		return factory, nil
	}

	lvl, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	factory.DefaultLogLevel = lvl

	return factory, nil
}
