// Package config reads the server settings from the environment.
//
// An optional dotenv file is loaded first. Variables already present in the
// process environment take precedence over the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variables.
const (
	EnvLogLevel     = "IMAGE_EDITOR_LOG_LEVEL"
	EnvLogFormat    = "IMAGE_EDITOR_LOG_FORMAT"
	EnvHistoryLimit = "IMAGE_EDITOR_HISTORY_LIMIT"
	EnvWorkDir      = "IMAGE_EDITOR_WORKDIR"
	EnvEnvFile      = "IMAGE_EDITOR_ENV_FILE"
)

// DefaultEnvFile is loaded when EnvEnvFile is unset.
const DefaultEnvFile = ".env"

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the server settings.
type Config struct {
	LogLevel     logrus.Level
	LogFormat    string
	HistoryLimit int
	WorkDir      string
}

// Load reads the dotenv file, if any, and then the environment.
func Load() (*Config, error) {
	path := os.Getenv(EnvEnvFile)
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv. Unset variables take their defaults;
// malformed values are errors.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		LogLevel:  logrus.InfoLevel,
		LogFormat: FormatText,
	}

	if v := getenv(EnvLogLevel); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}

	if v := getenv(EnvLogFormat); v != "" {
		switch f := strings.ToLower(v); f {
		case FormatText, FormatJSON:
			cfg.LogFormat = f
		default:
			return nil, fmt.Errorf("%s: unknown format %q (want %s or %s)", EnvLogFormat, v, FormatText, FormatJSON)
		}
	}

	if v := getenv(EnvHistoryLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvHistoryLimit, err)
		}
		cfg.HistoryLimit = max(n, 0)
	}

	cfg.WorkDir = getenv(EnvWorkDir)
	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	return cfg, nil
}

// NewLogger builds the logger described by c, writing to w.
func (c *Config) NewLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(c.LogLevel)

	if c.LogFormat == FormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return logger
}
