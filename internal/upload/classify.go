package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/wara-ops/dataportal/internal/logging"
	"github.com/wara-ops/dataportal/internal/naming"
	"github.com/wara-ops/dataportal/internal/portal"
)

var (
	ErrUnclassified = errors.New("file name does not follow the naming convention")
	ErrInvalidCount = errors.New("entry count in file name is not an integer")
)

// Planned is a source file together with the record it will be
// registered with.
type Planned struct {
	Path   string
	Name   string // The name the record was decoded from.
	Record naming.Record
}

// Classify decides how each source is registered. A single file first
// gets a compliant name built from fields and kind; if that fails its own
// base name is used. With several files every base name must already
// follow the convention and fields are ignored. Names that decode to an
// extra record are rejected.
func Classify(files []string, fields naming.Fields, kind naming.Kind, log *logging.Logger) (planned []Planned, rejected []string) {
	if len(files) > 1 && kind != "" {
		log.Warn("Naming fields apply to a single source only; ignored for %d files", len(files))
	}

	for _, path := range files {
		name := filepath.Base(path)
		if len(files) == 1 {
			built, err := naming.Build(fields, name, kind)
			switch {
			case err == nil:
				log.Debug("Built name %s for %s", built, name)
				name = built
			case kind != "":
				log.Warn("Cannot build a name for %s: %v; using it as is", name, err)
			default:
				log.Debug("No kind given, using %s as is", name)
			}
		}

		rec := naming.Parse(name)
		if rec.Kind() == naming.KindExtra {
			log.Error("%s: %v", filepath.Base(path), ErrUnclassified)
			rejected = append(rejected, path)
			continue
		}
		log.Debug("%s classified as %s", name, rec.Kind())
		planned = append(planned, Planned{Path: path, Name: name, Record: rec})
	}
	return planned, rejected
}

// MetaFromRecord converts a decoded name into the registration body.
// Dates are sent as they appear in the name.
func MetaFromRecord(rec naming.Record) (portal.FileMeta, error) {
	switch r := rec.(type) {
	case naming.Metric:
		count, err := parseCount(r.Count)
		if err != nil {
			return portal.FileMeta{}, err
		}
		return portal.FileMeta{
			Start:    r.Start,
			Stop:     r.Stop,
			Count:    count,
			DataFlag: r.Flag,
			DataType: r.Type,
		}, nil
	case naming.Log:
		count, err := parseCount(r.Count)
		if err != nil {
			return portal.FileMeta{}, err
		}
		return portal.FileMeta{
			Start:            r.Start,
			Stop:             r.Stop,
			Count:            count,
			UncompressedSize: r.Size,
			DataFlag:         r.Flag,
			DataType:         r.Type,
		}, nil
	}
	return portal.FileMeta{}, ErrUnclassified
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCount, s)
	}
	return n, nil
}
