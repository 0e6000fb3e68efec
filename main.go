package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/pvillega/twitter-privacy/cleanup"
	"github.com/pvillega/twitter-privacy/config"
	"github.com/pvillega/twitter-privacy/ratelimit"
	"github.com/pvillega/twitter-privacy/report"
	"github.com/pvillega/twitter-privacy/twitter"
)

var (
	version = "dev"
	commit  = "none"
)

type cliMode int

const (
	cliRun cliMode = iota
	cliDryRun
	cliVersion
	cliHelp
	cliInvalid
)

func parseCLIArgs(args []string) (cliMode, string) {
	if len(args) == 0 {
		return cliRun, ""
	}

	switch args[0] {
	case "--dry-run", "-dry-run", "-n":
		return cliDryRun, ""
	case "--version", "-version", "-v":
		return cliVersion, ""
	case "--help", "-h", "help":
		return cliHelp, ""
	default:
		return cliInvalid, fmt.Sprintf("unexpected argument: %s", strings.Join(args, " "))
	}
}

func usage() string {
	return `Usage: twitter-privacy [--dry-run|-n] [--version|-v] [--help|-h]

Erases tweets, retweets and likes older than TP_PRESERVE_DAYS days.
Configuration is read from the environment and from ./.env:
  TP_CONSUMER_KEY, TP_CONSUMER_SECRET, TP_ACCESS_KEY, TP_ACCESS_SECRET,
  TP_USER_HANDLE, TP_PRESERVE_DAYS (required)
  TP_PAGE_SIZE, TP_MAX_ACTIONS_PER_HOUR, TP_DRY_RUN, TP_LOG_LEVEL (optional)`
}

func resolveVersion(v, c string) (string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c
	}
	if v == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v = info.Main.Version
	}
	if c == "none" {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				c = s.Value
				if len(c) > 12 {
					c = c[:12]
				}
			}
		}
	}
	return v, c
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one cleanup pass and returns the process exit code. The base
// HTTP client used under OAuth1 signing can be supplied through ctx with
// oauth1.HTTPClient.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	mode, msg := parseCLIArgs(args)
	switch mode {
	case cliVersion:
		v, c := resolveVersion(version, commit)
		fmt.Fprintf(stdout, "twitter-privacy %s\ncommit: %s\n", v, c)
		return 0
	case cliHelp:
		fmt.Fprintln(stdout, usage())
		return 0
	case cliInvalid:
		fmt.Fprintf(stderr, "%s\n%s\n", msg, usage())
		return 2
	}

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// 1. Load configuration: .env first so the environment can override it.
	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Error("Error reading environment variables", "err", err)
		return 1
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Error reading environment variables", "err", err)
		return 1
	}
	level.Set(cfg.LogLevel)
	if mode == cliDryRun {
		cfg.DryRun = true
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Authenticate.
	logger.Info("Set up API client for connecting to Twitter")
	httpClient := twitter.NewHTTPClient(ctx, twitter.Credentials{
		ConsumerKey:    cfg.ConsumerKey,
		ConsumerSecret: cfg.ConsumerSecret,
		AccessKey:      cfg.AccessKey,
		AccessSecret:   cfg.AccessSecret,
	})
	client, err := twitter.New(ctx, httpClient, twitter.Options{
		Handle:   cfg.UserHandle,
		PageSize: cfg.PageSize,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("Error interacting with Twitter API", "err", err)
		return 1
	}

	// 3. Clean.
	var limiter *ratelimit.RateLimiter
	if cfg.MaxActionsPerHour > 0 {
		limiter = ratelimit.New(int64(cfg.MaxActionsPerHour), time.Hour)
	}
	cleaner := cleanup.New(client, cleanup.Options{
		PreserveDays: cfg.PreserveDays,
		DryRun:       cfg.DryRun,
		Limiter:      limiter,
		Logger:       logger,
	})

	logger.Info("Erase old tweets for user", "handle", cfg.UserHandle, "user_id", client.UserID(), "preserve_days", cfg.PreserveDays, "dry_run", cfg.DryRun)
	stats, err := cleaner.Run(ctx)
	fmt.Fprintln(stdout, report.Render(stats, cfg.DryRun))
	if err != nil {
		logger.Error("Unrecoverable error while trying to erase tweets", "err", err)
		return 1
	}

	logger.Info("Tweets erased, stopping process. Thanks for using this application!")
	return 0
}
