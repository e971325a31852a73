// Package config holds runtime configuration: defaults, CLI flag parsing,
// the optional YAML file, environment overrides and validation.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wara-ops/dataportal/internal/naming"
)

// DefaultAPIURL is the production portal API.
const DefaultAPIURL = "https://portal.wara-ops.org/api/v1"

// --- Enum types for validated string fields ---

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Action is the single operation one invocation performs.
type Action string

const (
	ActionNone         Action = ""
	ActionCheck        Action = "check"
	ActionCreate       Action = "create"
	ActionUpload       Action = "upload"
	ActionDelete       Action = "delete"
	ActionListDatasets Action = "list-datasets"
	ActionListFiles    Action = "list-files"
)

var (
	ErrNoAction         = errors.New("nothing to do: give one of --createdataset, --upload, --delete, --listdataset, --listfiles or --check")
	ErrNoSources        = errors.New("upload needs at least one source file (--src)")
	ErrMissingUser      = errors.New("creating a dataset needs --user")
	ErrInvalidDatasetID = errors.New("dataset id must be a positive integer")
	ErrExportFormat     = errors.New("export file must end in .xlsx")
	ErrExportAction     = errors.New("--export applies to --listdataset and --listfiles only")
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// mutated by [ParseFlags], [Config.ApplyFile] and [Config.ApplyEnv], and
// then passed (by pointer) to packages that need it.
type Config struct {
	// Portal connection.
	APIURL     string // Default: DefaultAPIURL. Overridden by $PORTAL_URL, then --api.
	TokenFile  string // File holding the bearer token.
	Token      string // Token text from $PORTAL_TOKEN; wins over TokenFile.
	User       string // Dataset owner on create.
	ConfigFile string // Optional YAML file (--config).

	// Action selectors. Several may be given; see [Config.Validate].
	CreateInfo    string // Path to the Markdown info file.
	UploadID      string
	DeleteID      string
	ListDatasets  bool
	ListFilesID   string
	CheckOnly     bool
	Action        Action // Derived by Validate.
	DatasetID     int    // Derived by Validate for upload, delete and list-files.

	// Upload sources and naming fields.
	Sources  []string    // --src values followed by positional args.
	Prefix   string      // Non-empty: upload every source as an extra file.
	Kind     naming.Kind // "", metric or log.
	Start    string
	Stop     string
	Count    int
	DataFlag string
	DataType string
	Size     string

	// Behavior flags.
	DryRun bool
	Force  bool // Delete a dataset even if it holds files.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.

	// Outputs.
	MetricsFile string // Prometheus textfile written after the run.
	ExportFile  string // .xlsx copy of a listing.

	// explicit records the long names of flags given on the command line,
	// so that file and environment values never override them.
	explicit map[string]bool
}

// DefaultConfig returns a Config with built-in defaults. Used as the base
// before flags, file and environment are applied.
func DefaultConfig() Config {
	return Config{
		APIURL:    DefaultAPIURL,
		ColorMode: ColorAuto,
	}
}

// IsExplicit reports whether the flag with the given long name was set on
// the command line.
func (c *Config) IsExplicit(name string) bool {
	return c.explicit[name]
}

// Fields returns the naming fields given on the command line.
func (c *Config) Fields() naming.Fields {
	return naming.Fields{
		DataType: c.DataType,
		DataFlag: c.DataFlag,
		Start:    c.Start,
		Stop:     c.Stop,
		Count:    c.Count,
		Size:     c.Size,
	}
}

// Validate checks enum fields and the API URL, then resolves the action.
// When several actions are requested the first of create, upload, delete,
// list datasets and list files wins; --check overrides all of them.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	switch c.Kind {
	case "", naming.KindMetric, naming.KindLog:
		// valid
	default:
		return fmt.Errorf("invalid kind %q (use 'metric' or 'log')", c.Kind)
	}

	if c.Count < 0 {
		return fmt.Errorf("count must not be negative (got %d)", c.Count)
	}

	if err := validateAPIURL(c.APIURL); err != nil {
		return err
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")

	if c.ExportFile != "" && !strings.EqualFold(filepath.Ext(c.ExportFile), ".xlsx") {
		return fmt.Errorf("%w (got %q)", ErrExportFormat, c.ExportFile)
	}

	c.Action = c.resolveAction()

	if c.ExportFile != "" && c.Action != ActionListDatasets && c.Action != ActionListFiles {
		return ErrExportAction
	}

	switch c.Action {
	case ActionNone:
		return ErrNoAction
	case ActionCreate:
		if c.User == "" {
			return ErrMissingUser
		}
	case ActionUpload:
		if len(c.Sources) == 0 {
			return ErrNoSources
		}
		return c.setDatasetID(c.UploadID)
	case ActionDelete:
		return c.setDatasetID(c.DeleteID)
	case ActionListFiles:
		return c.setDatasetID(c.ListFilesID)
	}
	return nil
}

func (c *Config) resolveAction() Action {
	switch {
	case c.CheckOnly:
		return ActionCheck
	case c.CreateInfo != "":
		return ActionCreate
	case c.UploadID != "":
		return ActionUpload
	case c.DeleteID != "":
		return ActionDelete
	case c.ListDatasets:
		return ActionListDatasets
	case c.ListFilesID != "":
		return ActionListFiles
	}
	return ActionNone
}

func (c *Config) setDatasetID(s string) error {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return fmt.Errorf("%w (got %q)", ErrInvalidDatasetID, s)
	}
	c.DatasetID = id
	return nil
}

func validateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid API URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API URL %q (need http:// or https:// and a host)", raw)
	}
	return nil
}
