// Package dataset implements the dataset-level actions: create from an
// info document, delete, and the two listings.
package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wara-ops/dataportal/internal/config"
	"github.com/wara-ops/dataportal/internal/display"
	"github.com/wara-ops/dataportal/internal/export"
	"github.com/wara-ops/dataportal/internal/info"
	"github.com/wara-ops/dataportal/internal/logging"
	"github.com/wara-ops/dataportal/internal/portal"
)

// Portal is the part of the portal API the dataset actions need.
type Portal interface {
	CreateDataset(ctx context.Context, req portal.CreateDatasetRequest) (portal.CreatedDataset, error)
	DeleteDataset(ctx context.Context, datasetID int, force bool) error
	ListDatasets(ctx context.Context) ([]portal.Dataset, error)
	ListFiles(ctx context.Context, datasetID int) ([]portal.File, error)
}

// BuildRequest maps a validated info document onto the create body.
func BuildRequest(doc info.Document, owner string) portal.CreateDatasetRequest {
	access, _ := doc.Get(info.KeyAccess)
	return portal.CreateDatasetRequest{
		Category:   strings.ToLower(doc.Sections[info.KeyCategory]),
		Tenant:     doc.Sections[info.KeyTenant],
		Name:       doc.Sections[info.KeyDataset],
		Owner:      owner,
		ShortInfo:  doc.Sections[info.KeyShortInfo],
		LongInfo:   doc.Sections[info.KeyLongInfo],
		AccessType: access,
		Tags:       doc.Tags,
	}
}

// ReadInfo loads and validates the info document at path.
func ReadInfo(path string) (info.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return info.Document{}, fmt.Errorf("read info file: %w", err)
	}
	doc := info.Parse(string(data))
	if err := info.Validate(doc); err != nil {
		return info.Document{}, fmt.Errorf("invalid info file %s: %w", path, err)
	}
	return doc, nil
}

// Create registers a new dataset described by cfg.CreateInfo and prints
// its id and container. In dry-run mode the request body is logged and an
// empty row is printed.
func Create(ctx context.Context, cfg *config.Config, client Portal, log *logging.Logger, w io.Writer) error {
	doc, err := ReadInfo(cfg.CreateInfo)
	if err != nil {
		return err
	}
	req := BuildRequest(doc, cfg.User)

	var created portal.CreatedDataset
	if cfg.DryRun {
		body, err := display.FormatJSON(req, "")
		if err != nil {
			return err
		}
		log.Info("[DRY] Create dataset, %s", body)
	} else {
		created, err = client.CreateDataset(ctx, req)
		if err != nil {
			return fmt.Errorf("create dataset %q: %w", req.Name, err)
		}
		log.Success("Created dataset %q (id %d)", req.Name, created.DatasetID)
	}

	display.PrintCreated(w, created)
	return nil
}

// Delete removes dataset cfg.DatasetID, forcing when cfg.Force is set.
func Delete(ctx context.Context, cfg *config.Config, client Portal, log *logging.Logger) error {
	if cfg.DryRun {
		log.Info("[DRY] Delete dataset %d (force=%t)", cfg.DatasetID, cfg.Force)
		return nil
	}
	if err := client.DeleteDataset(ctx, cfg.DatasetID, cfg.Force); err != nil {
		return fmt.Errorf("delete dataset %d: %w", cfg.DatasetID, err)
	}
	log.Success("Deleted dataset %d", cfg.DatasetID)
	return nil
}

// ListDatasets prints the caller's datasets and optionally exports them.
func ListDatasets(ctx context.Context, cfg *config.Config, client Portal, log *logging.Logger, w io.Writer) error {
	if cfg.DryRun {
		log.Info("[DRY] List datasets")
		return nil
	}
	datasets, err := client.ListDatasets(ctx)
	if err != nil {
		return fmt.Errorf("list datasets: %w", err)
	}
	display.PrintDatasets(w, datasets)

	if cfg.ExportFile != "" {
		if err := export.Datasets(cfg.ExportFile, datasets); err != nil {
			return err
		}
		log.Success("Wrote %d datasets to %s", len(datasets), cfg.ExportFile)
	}
	return nil
}

// ListFiles prints the files of dataset cfg.DatasetID, extra files
// included, and optionally exports them.
func ListFiles(ctx context.Context, cfg *config.Config, client Portal, log *logging.Logger, w io.Writer) error {
	if cfg.DryRun {
		log.Info("[DRY] List files in dataset %d", cfg.DatasetID)
		return nil
	}
	files, err := client.ListFiles(ctx, cfg.DatasetID)
	if err != nil {
		return fmt.Errorf("list files of dataset %d: %w", cfg.DatasetID, err)
	}
	display.PrintFiles(w, files)

	if cfg.ExportFile != "" {
		if err := export.Files(cfg.ExportFile, files); err != nil {
			return err
		}
		log.Success("Wrote %d files to %s", len(files), cfg.ExportFile)
	}
	return nil
}
