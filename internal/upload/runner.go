package upload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/wara-ops/dataportal/internal/config"
	"github.com/wara-ops/dataportal/internal/display"
	"github.com/wara-ops/dataportal/internal/logging"
	"github.com/wara-ops/dataportal/internal/metrics"
	"github.com/wara-ops/dataportal/internal/portal"
)

// ErrNoFiles is returned when the sources match no regular file.
var ErrNoFiles = errors.New("no files found")

// Portal is the part of the portal API an upload needs.
type Portal interface {
	RegisterFile(ctx context.Context, datasetID int, meta portal.FileMeta) (int, error)
	PutFile(ctx context.Context, datasetID, fileID int, localPath string) (portal.UploadResult, error)
	PutExtraFile(ctx context.Context, datasetID int, target portal.ExtraTarget, localPath string) (portal.UploadResult, error)
}

// FileObserver receives one call per processed file. It may be nil.
type FileObserver interface {
	ObserveFile(result string, size int64)
}

// Run uploads every source in cfg to cfg.DatasetID, one file at a time.
// Per-file failures are logged and counted; only discovery errors are
// returned.
func Run(ctx context.Context, cfg *config.Config, client Portal, log *logging.Logger, obs FileObserver) (RunStats, error) {
	var stats RunStats

	files, unmatched, err := Discover(cfg.Sources)
	if err != nil {
		return stats, err
	}
	for _, p := range unmatched {
		log.Warn("No files match %s", p)
	}
	if len(files) == 0 {
		return stats, ErrNoFiles
	}
	stats.Total = len(files)

	log.Info("Found %d files for dataset %d", stats.Total, cfg.DatasetID)

	u := &uploader{cfg: cfg, client: client, log: log, obs: obs, stats: &stats}
	start := time.Now()

	if cfg.Prefix != "" {
		log.Info("Uploading as extra files under prefix %q", cfg.Prefix)
		for i, path := range files {
			if ctx.Err() != nil {
				log.Warn("Interrupted")
				break
			}
			stats.Current = i + 1
			u.extra(ctx, path)
		}
	} else {
		planned, rejected := Classify(files, cfg.Fields(), cfg.Kind, log)
		stats.Rejected = len(rejected)
		for range rejected {
			u.observe(metrics.ResultFailed, 0)
		}
		for i, p := range planned {
			if ctx.Err() != nil {
				log.Warn("Interrupted")
				break
			}
			stats.Current = i + 1
			u.data(ctx, p)
		}
	}

	logSummary(cfg, log, &stats, time.Since(start))
	return stats, nil
}

type uploader struct {
	cfg    *config.Config
	client Portal
	log    *logging.Logger
	obs    FileObserver
	stats  *RunStats
}

func (u *uploader) data(ctx context.Context, p Planned) {
	base := filepath.Base(p.Path)
	u.log.Info("[%d/%d] %s", u.stats.Current, u.stats.Total, base)

	meta, err := MetaFromRecord(p.Record)
	if err != nil {
		u.fail(base, err)
		return
	}
	size, ok := u.size(p.Path)
	if !ok {
		return
	}

	if u.cfg.DryRun {
		body, err := display.FormatJSON(meta, "  ")
		if err != nil {
			u.fail(base, err)
			return
		}
		u.log.Info("  [DRY] Would register %s as %s", base, p.Name)
		u.log.Info("  %s", body)
		u.done(p.Path, "(dry run)", size)
		return
	}

	fileID, err := u.client.RegisterFile(ctx, u.cfg.DatasetID, meta)
	if err != nil {
		u.fail(base, err)
		return
	}
	u.log.Debug("Registered %s as file %d", base, fileID)

	res, err := u.client.PutFile(ctx, u.cfg.DatasetID, fileID, p.Path)
	if err != nil {
		u.fail(base, err)
		return
	}
	u.done(p.Path, res.Path, size)
}

func (u *uploader) extra(ctx context.Context, path string) {
	base := filepath.Base(path)
	u.log.Info("[%d/%d] %s", u.stats.Current, u.stats.Total, base)

	target, err := ResolveExtraTarget(u.cfg.Prefix, path)
	if err != nil {
		u.log.Warn("Skip %s: %v", base, err)
		u.stats.Skipped++
		u.observe(metrics.ResultSkipped, 0)
		return
	}
	size, ok := u.size(path)
	if !ok {
		return
	}

	if u.cfg.DryRun {
		u.log.Info("  [DRY] Would upload to %s/%s", target.Prefix, target.Filename)
		u.done(path, "(dry run)", size)
		return
	}

	res, err := u.client.PutExtraFile(ctx, u.cfg.DatasetID, target, path)
	if err != nil {
		u.fail(base, err)
		return
	}
	u.done(path, res.Path, size)
}

func (u *uploader) size(path string) (int64, bool) {
	fi, err := os.Stat(path)
	if err != nil {
		u.fail(filepath.Base(path), err)
		return 0, false
	}
	return fi.Size(), true
}

// done records a finished file. Dry runs count it but add no bytes.
func (u *uploader) done(src, dest string, size int64) {
	u.stats.Uploaded++
	u.stats.Results = append(u.stats.Results, display.UploadRow{Source: src, Dest: dest})
	if u.cfg.DryRun {
		u.observe(metrics.ResultDryRun, 0)
		return
	}
	u.stats.Bytes += size
	u.observe(metrics.ResultUploaded, size)
	u.log.Success("  -> %s", dest)
}

func (u *uploader) fail(name string, err error) {
	u.log.Error("Upload of %s failed: %v", name, err)
	u.stats.Failed++
	u.observe(metrics.ResultFailed, 0)
}

func (u *uploader) observe(result string, size int64) {
	if u.obs != nil {
		u.obs.ObserveFile(result, size)
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats, elapsed time.Duration) {
	log.Info("==============================")
	log.Info("Done: %d uploaded, %d skipped, %d rejected, %d failed",
		stats.Uploaded, stats.Skipped, stats.Rejected, stats.Failed)
	if cfg.DryRun {
		log.Info("  Transferred: n/a (dry run)")
		return
	}
	log.Info("  Transferred: %s in %s (%s)",
		display.FormatBytes(stats.Bytes), elapsed.Round(time.Millisecond), display.FormatRate(stats.Bytes, elapsed))
}
