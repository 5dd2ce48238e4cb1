package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	logLevelEnvKey  = "FOLIO_LOG_LEVEL"
	defaultLogLevel = "info"
)

// configureLogger picks the level from the flag, then the environment, then
// the config file, and installs the resulting logger as the slog default. An
// invalid flag is an error; an invalid env or config value falls back to
// the default level with a warning.
func configureLogger(flagLevel, envLevel, configLevel string) (*slog.Logger, string, error) {
	raw, source := selectedLogLevel(flagLevel, envLevel, configLevel)
	level, err := parseLogLevel(raw)
	if err != nil {
		var warning string
		switch source {
		case "flag":
			return nil, "", fmt.Errorf("invalid --log-level %q", flagLevel)
		case "env":
			warning = fmt.Sprintf("warning: invalid %s=%q; defaulting to %s", logLevelEnvKey, envLevel, defaultLogLevel)
		case "config":
			warning = fmt.Sprintf("warning: invalid log_level=%q; defaulting to %s", configLevel, defaultLogLevel)
		}
		level = slog.LevelInfo
		logger := newLogger(level)
		slog.SetDefault(logger)
		return logger, warning, nil
	}
	logger := newLogger(level)
	slog.SetDefault(logger)
	return logger, "", nil
}

func selectedLogLevel(flagLevel, envLevel, configLevel string) (string, string) {
	if strings.TrimSpace(flagLevel) != "" {
		return flagLevel, "flag"
	}
	if strings.TrimSpace(envLevel) != "" {
		return envLevel, "env"
	}
	if strings.TrimSpace(configLevel) != "" {
		return configLevel, "config"
	}
	return "", "default"
}

func parseLogLevel(raw string) (slog.Level, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return slog.LevelInfo, nil
	}
	if strings.EqualFold(value, "warning") {
		value = "warn"
	}
	if numeric, err := strconv.Atoi(value); err == nil {
		return slog.Level(numeric), nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
