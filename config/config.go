package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvConsumerKey       = "TP_CONSUMER_KEY"
	EnvConsumerSecret    = "TP_CONSUMER_SECRET"
	EnvAccessKey         = "TP_ACCESS_KEY"
	EnvAccessSecret      = "TP_ACCESS_SECRET"
	EnvUserHandle        = "TP_USER_HANDLE"
	EnvPreserveDays      = "TP_PRESERVE_DAYS"
	EnvPageSize          = "TP_PAGE_SIZE"
	EnvMaxActionsPerHour = "TP_MAX_ACTIONS_PER_HOUR"
	EnvDryRun            = "TP_DRY_RUN"
	EnvLogLevel          = "TP_LOG_LEVEL"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 200
	// MaxPreserveDays is a century, well past the age of any tweet.
	MaxPreserveDays = 36500
)

// Config holds everything needed for one cleanup run.
type Config struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessKey      string
	AccessSecret   string

	UserHandle   string // without the leading '@'
	PreserveDays int

	PageSize          int
	MaxActionsPerHour int // 0 disables throttling
	DryRun            bool
	LogLevel          slog.Level
}

// LoadDotEnv copies the values of a dotenv file into the process environment.
// Variables already set are left alone and a missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

// Load reads configuration from environment variables.
//
//	TP_CONSUMER_KEY, TP_CONSUMER_SECRET  application credentials (required)
//	TP_ACCESS_KEY, TP_ACCESS_SECRET      user credentials (required)
//	TP_USER_HANDLE                       account to clean (required)
//	TP_PRESERVE_DAYS                     retention window in days, 0 to 36500 (required)
//	TP_PAGE_SIZE                         timeline page size (default 25)
//	TP_MAX_ACTIONS_PER_HOUR              throttle, 0 = unlimited (default 0)
//	TP_DRY_RUN                           select and report only (default false)
//	TP_LOG_LEVEL                         debug|info|warn|error (default info)
func Load() (Config, error) {
	var cfg Config
	var err error

	required := []struct {
		name string
		dst  *string
	}{
		{EnvConsumerKey, &cfg.ConsumerKey},
		{EnvConsumerSecret, &cfg.ConsumerSecret},
		{EnvAccessKey, &cfg.AccessKey},
		{EnvAccessSecret, &cfg.AccessSecret},
		{EnvUserHandle, &cfg.UserHandle},
	}
	for _, r := range required {
		if *r.dst, err = getEnvVar(r.name); err != nil {
			return Config{}, err
		}
	}
	cfg.UserHandle = strings.TrimPrefix(cfg.UserHandle, "@")

	days, err := getEnvVar(EnvPreserveDays)
	if err != nil {
		return Config{}, err
	}
	if cfg.PreserveDays, err = parseInt(EnvPreserveDays, days); err != nil {
		return Config{}, err
	}
	if cfg.PreserveDays < 0 {
		return Config{}, fmt.Errorf("invalid %s: must not be negative", EnvPreserveDays)
	}
	if cfg.PreserveDays > MaxPreserveDays {
		return Config{}, fmt.Errorf("invalid %s: must be at most %d", EnvPreserveDays, MaxPreserveDays)
	}

	cfg.PageSize = DefaultPageSize
	if v := lookup(EnvPageSize); v != "" {
		if cfg.PageSize, err = parseInt(EnvPageSize, v); err != nil {
			return Config{}, err
		}
		if cfg.PageSize < 1 || cfg.PageSize > MaxPageSize {
			return Config{}, fmt.Errorf("invalid %s: must be between 1 and %d", EnvPageSize, MaxPageSize)
		}
	}

	if v := lookup(EnvMaxActionsPerHour); v != "" {
		if cfg.MaxActionsPerHour, err = parseInt(EnvMaxActionsPerHour, v); err != nil {
			return Config{}, err
		}
		if cfg.MaxActionsPerHour < 0 {
			return Config{}, fmt.Errorf("invalid %s: must not be negative", EnvMaxActionsPerHour)
		}
	}

	if v := lookup(EnvDryRun); v != "" {
		if cfg.DryRun, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("error parsing %s to a boolean: %w", EnvDryRun, err)
		}
	}

	cfg.LogLevel = slog.LevelInfo
	if v := lookup(EnvLogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
	}

	return cfg, nil
}

// getEnvVar returns the named variable, treating empty values as missing.
func getEnvVar(name string) (string, error) {
	v := lookup(name)
	if v == "" {
		return "", fmt.Errorf("environment variable %q not found", name)
	}
	return v, nil
}

func lookup(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

func parseInt(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("error parsing %s to an integer: %w", name, err)
	}
	return n, nil
}
