package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into actions, upload, naming fields, behavior, display and utility.
// Negated flags (e.g. --no-dryrun) are applied after Parse so Config defaults hold unless set.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wara-ops/dataportal/internal/naming"
)

// ErrVersionShown is returned by ParseFlags after printing --version.
// Like flag.ErrHelp it means "exit successfully".
var ErrVersionShown = errors.New("version shown")

// usageOutput receives help and version text. Tests swap it.
var usageOutput io.Writer = os.Stderr

// shortAliases maps single-letter flags onto their long names so that
// explicit-flag tracking sees one name per setting.
var shortAliases = map[string]string{
	"c": "createdataset",
	"u": "user",
	"U": "upload",
	"s": "src",
	"p": "prefix",
	"d": "delete",
	"L": "listdataset",
	"l": "listfiles",
	"t": "token",
	"a": "api",
	"v": "verbose",
	"V": "version",
	"h": "help",
}

// ParseFlags parses args (without the program name) into cfg. Positional
// arguments are appended to the upload sources. On --help it prints usage
// and returns flag.ErrHelp; on --version it returns ErrVersionShown.
func ParseFlags(cfg *Config, args []string, version string) error {
	fs := flag.NewFlagSet("dataportal", flag.ContinueOnError)
	fs.SetOutput(usageOutput)
	fs.Usage = func() { printUsage(usageOutput, version) }

	var negated negatedFlags

	defineActionFlags(fs, cfg)
	defineUploadFlags(fs, cfg)
	defineNamingFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg, &negated)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, cfg, &negated)

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.explicit = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := shortAliases[name]; ok {
			name = long
		}
		cfg.explicit[name] = true
	})

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(usageOutput, version)
		return flag.ErrHelp
	}
	if negated.showVersion {
		fmt.Fprintln(usageOutput, "dataportal v"+version)
		return ErrVersionShown
	}

	cfg.Sources = append(cfg.Sources, fs.Args()...)
	return nil
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a setting (e.g. noDryRun -> DryRun=false) or trigger exit (showHelp, showVersion).
type negatedFlags struct {
	noListDatasets bool
	noDryRun       bool
	noForce        bool
	forceColor     bool
	noColor        bool
	showVersion    bool
	showHelp       bool
}

// defineActionFlags registers the five portal actions.
func defineActionFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.CreateInfo, "createdataset", "", "Create a dataset from a Markdown info file")
	fs.StringVar(&cfg.CreateInfo, "c", "", "Same as --createdataset")
	fs.StringVar(&cfg.UploadID, "upload", "", "Upload sources to the dataset with this id")
	fs.StringVar(&cfg.UploadID, "U", "", "Same as --upload")
	fs.StringVar(&cfg.DeleteID, "delete", "", "Delete the dataset with this id")
	fs.StringVar(&cfg.DeleteID, "d", "", "Same as --delete")
	fs.BoolVar(&cfg.ListDatasets, "listdataset", false, "List your datasets")
	fs.BoolVar(&cfg.ListDatasets, "L", false, "Same as --listdataset")
	fs.StringVar(&cfg.ListFilesID, "listfiles", "", "List files in the dataset with this id")
	fs.StringVar(&cfg.ListFilesID, "l", "", "Same as --listfiles")
}

// defineUploadFlags registers -s/--src and -p/--prefix.
func defineUploadFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&stringsValue{&cfg.Sources}, "src", "Source file or glob (repeatable)")
	fs.Var(&stringsValue{&cfg.Sources}, "s", "Same as --src")
	fs.StringVar(&cfg.Prefix, "prefix", "", "Upload as extra files under this folder")
	fs.StringVar(&cfg.Prefix, "p", "", "Same as --prefix")
}

// defineNamingFlags registers the fields a compliant file name is built from.
func defineNamingFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Start, "start", "", "Timestamp of the first event (ISO-8601 or epoch seconds)")
	fs.StringVar(&cfg.Stop, "stop", "", "Timestamp of the last event")
	fs.IntVar(&cfg.Count, "count", 0, "Number of events in the file")
	fs.StringVar(&cfg.DataFlag, "flag", "", "Data description, e.g. raw or preprocessed-and-anonymized")
	fs.StringVar(&cfg.DataType, "dtype", "", "Data type, e.g. float, int or json")
	fs.StringVar(&cfg.Size, "size", "", "Uncompressed size (log files only)")
	fs.Var(&kindValue{&cfg.Kind}, "kind", "Kind of data: metric | log")
}

// defineBehaviorFlags registers dry run and force, with their negations.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.DryRun, "dryrun", false, "Log requests instead of sending them")
	fs.BoolVar(&n.noDryRun, "no-dryrun", false, "Send requests (default)")
	fs.BoolVar(&cfg.Force, "force", false, "Force delete of a non-empty dataset")
	fs.BoolVar(&n.noForce, "no-force", false, "Do not force (default)")
	fs.BoolVar(&n.noListDatasets, "no-listdataset", false, "Do not list datasets (default)")
}

// defineDisplayFlags registers connection settings, display flags and outputs.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.StringVar(&cfg.APIURL, "api", cfg.APIURL, "Portal API URL")
	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "Same as --api")
	fs.StringVar(&cfg.TokenFile, "token", "", "File containing the API token")
	fs.StringVar(&cfg.TokenFile, "t", "", "Same as --token")
	fs.StringVar(&cfg.User, "user", "", "User name (dataset owner)")
	fs.StringVar(&cfg.User, "u", "", "Same as --user")
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML config file")
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics to file after the run")
	fs.StringVar(&cfg.ExportFile, "export", "", "Also write the listing to an .xlsx file")
}

// defineUtilityFlags registers --check, --version and --help.
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Check API and token, then exit")
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noListDatasets {
		cfg.ListDatasets = false
	}
	if n.noDryRun {
		cfg.DryRun = false
	}
	if n.noForce {
		cfg.Force = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
		cfg.explicit["color"] = true
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// printUsage writes the help text to w. Column-aligned for readability.
func printUsage(w io.Writer, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "dataportal v" + version + ", WARA-Ops data portal client"},
		{"", ""},
		{"  dataportal [OPTIONS] [source ...]", ""},
		{"", ""},
		{"Actions (one per run)", ""},
		{"  -c, --createdataset <md>", "Create a dataset from a Markdown info file"},
		{"  -U, --upload <id>", "Upload sources to a dataset"},
		{"  -d, --delete <id>", "Delete a dataset"},
		{"  -L, --listdataset", "List your datasets"},
		{"  -l, --listfiles <id>", "List files in a dataset"},
		{"  --check", "Check API URL, token and connectivity"},
		{"", ""},
		{"Upload", ""},
		{"  -s, --src <glob>", "Source files (repeatable; positional args too)"},
		{"  -p, --prefix <dir[/name]>", "Upload as extra files under dir"},
		{"  --kind <metric|log>", "Build a compliant name for a single source"},
		{"  --start <time>", "First event, ISO-8601 or epoch seconds"},
		{"  --stop <time>", "Last event"},
		{"  --count <n>", "Number of events"},
		{"  --flag <text>", "Data description (raw, filtered, ...)"},
		{"  --dtype <text>", "Data type (float, int, json, ...)"},
		{"  --size <text>", "Uncompressed size (logs only)"},
		{"", ""},
		{"Connection", ""},
		{"  -a, --api <url>", "Portal API (default: $PORTAL_URL or " + DefaultAPIURL + ")"},
		{"  -t, --token <file>", "File containing the API token ($PORTAL_TOKEN wins)"},
		{"  -u, --user <name>", "Dataset owner"},
		{"  --config <file>", "YAML config file"},
		{"", ""},
		{"Behavior", ""},
		{"  --dryrun", "Log requests instead of sending them"},
		{"  --force", "Force delete of a non-empty dataset"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"  --log <path>", "Append logs to file"},
		{"  --metrics-file <path>", "Write Prometheus metrics after the run"},
		{"  --export <file.xlsx>", "Also write a listing to a spreadsheet"},
		{"", ""},
		{"Utility", ""},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so we can use enum and list types with flag.Var.

type kindValue struct{ p *naming.Kind }

func (k *kindValue) String() string {
	if k.p == nil {
		return ""
	}
	return string(*k.p)
}

func (k *kindValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "metric":
		*k.p = naming.KindMetric
	case "log":
		*k.p = naming.KindLog
	default:
		return fmt.Errorf("invalid kind %q (use 'metric' or 'log')", s)
	}
	return nil
}

type stringsValue struct{ p *[]string }

func (v *stringsValue) String() string {
	if v.p == nil {
		return ""
	}
	return strings.Join(*v.p, ",")
}

func (v *stringsValue) Set(s string) error {
	*v.p = append(*v.p, s)
	return nil
}
