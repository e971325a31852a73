// Command dataportal is the CLI client for the WARA-Ops data portal.
//
// It creates and deletes datasets, uploads files named after the portal's
// naming convention (or as extra files), lists datasets and their files,
// and checks the API setup (--check).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wara-ops/dataportal/internal/check"
	"github.com/wara-ops/dataportal/internal/config"
	"github.com/wara-ops/dataportal/internal/dataset"
	"github.com/wara-ops/dataportal/internal/display"
	"github.com/wara-ops/dataportal/internal/logging"
	"github.com/wara-ops/dataportal/internal/metrics"
	"github.com/wara-ops/dataportal/internal/portal"
	"github.com/wara-ops/dataportal/internal/upload"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

var settings config.Holder

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg, err := loadConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) || errors.Is(err, config.ErrVersionShown) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "dataportal: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dataportal: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available; all output goes through log from here on.
	display.PrintBanner(os.Stdout, version)
	log.Debug("dataportal %s (%s), action %s, API %s", version, commit, cfg.Action, cfg.APIURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rec := metrics.New()
	connect := func(token string) *portal.Client {
		return portal.New(cfg.APIURL, token, portal.WithLogger(log), portal.WithObserver(rec))
	}

	code := dispatch(ctx, cfg, log, rec, connect)

	if cfg.MetricsFile != "" {
		if err := rec.WriteFile(cfg.MetricsFile, time.Now()); err != nil {
			log.Error("%v", err)
			return 1
		}
		log.Debug("Wrote metrics to %s", cfg.MetricsFile)
	}
	return code
}

// loadConfig layers defaults, flags, the optional YAML file and the
// environment, validates the result and stores it once.
func loadConfig(args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, args, version); err != nil {
		return nil, err
	}
	if cfg.ConfigFile != "" {
		fc, err := config.LoadFile(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg.ApplyFile(fc)
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return settings.Init(cfg)
}

func dispatch(ctx context.Context, cfg *config.Config, log *logging.Logger, rec *metrics.Recorder, connect func(string) *portal.Client) int {
	if cfg.Action == config.ActionCheck {
		err := check.RunCheck(ctx, cfg, log, func(token string) check.Pinger { return connect(token) }, time.Now())
		if err != nil {
			return 1
		}
		return 0
	}

	token, source, err := portal.LoadToken(cfg.TokenFile, cfg.Token)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	log.Debug("Token from %s", source)
	check.WarnToken(log, token, time.Now())

	client := connect(token)
	if err := client.Ping(ctx); err != nil {
		log.Error("Failed to connect: %v", err)
		return 1
	}
	if cfg.DryRun {
		log.Warn("DRY RUN: nothing will be changed on the portal")
	}

	switch cfg.Action {
	case config.ActionCreate:
		err = dataset.Create(ctx, cfg, client, log, os.Stdout)
	case config.ActionDelete:
		err = dataset.Delete(ctx, cfg, client, log)
	case config.ActionListDatasets:
		err = dataset.ListDatasets(ctx, cfg, client, log, os.Stdout)
	case config.ActionListFiles:
		err = dataset.ListFiles(ctx, cfg, client, log, os.Stdout)
	case config.ActionUpload:
		return runUpload(ctx, cfg, client, log, rec)
	}
	if err != nil {
		log.Error("Failed to execute: %v", err)
		return 1
	}
	return 0
}

func runUpload(ctx context.Context, cfg *config.Config, client *portal.Client, log *logging.Logger, rec *metrics.Recorder) int {
	stats, err := upload.Run(ctx, cfg, client, log, rec)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	if len(stats.Results) > 0 {
		display.PrintUploads(os.Stdout, stats.Results)
	}
	if !stats.OK() {
		return 1
	}
	return 0
}
