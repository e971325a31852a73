package config

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wara-ops/dataportal/internal/naming"
)

func parse(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	var buf bytes.Buffer
	old := usageOutput
	usageOutput = &buf
	t.Cleanup(func() { usageOutput = old })

	cfg := DefaultConfig()
	err := ParseFlags(&cfg, args, "1.2.3")
	return cfg, err
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, ColorAuto, cfg.ColorMode)
	assert.False(t, cfg.DryRun)
	assert.Empty(t, cfg.Sources)
}

func TestParseFlags_LongAndShort(t *testing.T) {
	long, err := parse(t, "--upload", "7", "--src", "a.csv", "--prefix", "docs", "--token", "tok", "--api", "http://localhost:3001/v1", "--user", "alice")
	require.NoError(t, err)
	short, err := parse(t, "-U", "7", "-s", "a.csv", "-p", "docs", "-t", "tok", "-a", "http://localhost:3001/v1", "-u", "alice")
	require.NoError(t, err)

	for _, cfg := range []Config{long, short} {
		assert.Equal(t, "7", cfg.UploadID)
		assert.Equal(t, []string{"a.csv"}, cfg.Sources)
		assert.Equal(t, "docs", cfg.Prefix)
		assert.Equal(t, "tok", cfg.TokenFile)
		assert.Equal(t, "http://localhost:3001/v1", cfg.APIURL)
		assert.Equal(t, "alice", cfg.User)
		assert.True(t, cfg.IsExplicit("api"))
		assert.True(t, cfg.IsExplicit("token"))
		assert.False(t, cfg.IsExplicit("log"))
	}
}

func TestParseFlags_SourcesFromFlagsAndArgs(t *testing.T) {
	cfg, err := parse(t, "-U", "1", "-s", "a.csv", "--src", "b/*.zst", "c.csv", "d.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "b/*.zst", "c.csv", "d.csv"}, cfg.Sources)
}

func TestParseFlags_NamingFields(t *testing.T) {
	cfg, err := parse(t, "--start", "2022-12-26T00:00:00", "--stop", "1737645608.6",
		"--count", "700", "--flag", "raw", "--dtype", "float", "--size", "8.1G", "--kind", "LOG")
	require.NoError(t, err)
	assert.Equal(t, naming.KindLog, cfg.Kind)
	assert.Equal(t, naming.Fields{
		DataType: "float", DataFlag: "raw",
		Start: "2022-12-26T00:00:00", Stop: "1737645608.6",
		Count: 700, Size: "8.1G",
	}, cfg.Fields())
}

func TestParseFlags_InvalidKind(t *testing.T) {
	_, err := parse(t, "--kind", "extra")
	assert.Error(t, err)
}

func TestParseFlags_Negations(t *testing.T) {
	cfg, err := parse(t, "--dryrun", "--no-dryrun", "--force", "--no-force", "-L", "--no-listdataset")
	require.NoError(t, err)
	assert.False(t, cfg.DryRun)
	assert.False(t, cfg.Force)
	assert.False(t, cfg.ListDatasets)
}

func TestParseFlags_Color(t *testing.T) {
	tests := []struct {
		args []string
		want ColorMode
	}{
		{nil, ColorAuto},
		{[]string{"--color"}, ColorAlways},
		{[]string{"--no-color"}, ColorNever},
		{[]string{"--color", "--no-color"}, ColorNever},
	}
	for _, tt := range tests {
		cfg, err := parse(t, tt.args...)
		require.NoError(t, err)
		assert.Equal(t, tt.want, cfg.ColorMode, "args %v", tt.args)
	}
}

func TestParseFlags_HelpAndVersion(t *testing.T) {
	_, err := parse(t, "--help")
	assert.ErrorIs(t, err, flag.ErrHelp)

	_, err = parse(t, "-V")
	assert.ErrorIs(t, err, ErrVersionShown)
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf, "9.9.9")
	out := buf.String()
	assert.Contains(t, out, "dataportal v9.9.9")
	assert.Contains(t, out, "-c, --createdataset <md>")
	assert.Contains(t, out, "--kind <metric|log>")
}

func TestValidate_Action(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   Action
		id     int
	}{
		{"create", func(c *Config) { c.CreateInfo = "info.md"; c.User = "u" }, ActionCreate, 0},
		{"upload", func(c *Config) { c.UploadID = "3"; c.Sources = []string{"x"} }, ActionUpload, 3},
		{"delete", func(c *Config) { c.DeleteID = " 12 " }, ActionDelete, 12},
		{"list datasets", func(c *Config) { c.ListDatasets = true }, ActionListDatasets, 0},
		{"list files", func(c *Config) { c.ListFilesID = "5" }, ActionListFiles, 5},
		{"check wins", func(c *Config) { c.CheckOnly = true; c.DeleteID = "1" }, ActionCheck, 0},
		{"create before upload", func(c *Config) {
			c.CreateInfo = "info.md"
			c.User = "u"
			c.UploadID = "3"
		}, ActionCreate, 0},
		{"upload before delete", func(c *Config) {
			c.UploadID = "3"
			c.Sources = []string{"x"}
			c.DeleteID = "4"
		}, ActionUpload, 3},
		{"delete before listing", func(c *Config) {
			c.DeleteID = "4"
			c.ListDatasets = true
			c.ListFilesID = "5"
		}, ActionDelete, 4},
		{"list datasets before list files", func(c *Config) {
			c.ListDatasets = true
			c.ListFilesID = "5"
		}, ActionListDatasets, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			require.NoError(t, cfg.Validate())
			assert.Equal(t, tt.want, cfg.Action)
			assert.Equal(t, tt.id, cfg.DatasetID)
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"no action", func(c *Config) {}, ErrNoAction},
		{"upload without sources", func(c *Config) { c.UploadID = "1" }, ErrNoSources},
		{"create without user", func(c *Config) { c.CreateInfo = "info.md" }, ErrMissingUser},
		{"non-numeric id", func(c *Config) { c.DeleteID = "abc" }, ErrInvalidDatasetID},
		{"zero id", func(c *Config) { c.ListFilesID = "0" }, ErrInvalidDatasetID},
		{"negative id", func(c *Config) { c.UploadID = "-2"; c.Sources = []string{"x"} }, ErrInvalidDatasetID},
		{"export not xlsx", func(c *Config) { c.ListDatasets = true; c.ExportFile = "out.csv" }, ErrExportFormat},
		{"export with delete", func(c *Config) { c.DeleteID = "3"; c.ExportFile = "out.xlsx" }, ErrExportAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad color", func(c *Config) { c.ColorMode = "rainbow" }, true},
		{"bad kind", func(c *Config) { c.Kind = naming.KindExtra }, true},
		{"negative count", func(c *Config) { c.Count = -1 }, true},
		{"no scheme", func(c *Config) { c.APIURL = "portal.example.org/api" }, true},
		{"ftp scheme", func(c *Config) { c.APIURL = "ftp://portal.example.org" }, true},
		{"empty url", func(c *Config) { c.APIURL = "" }, true},
		{"http localhost", func(c *Config) { c.APIURL = "http://127.0.0.1:3001/v1" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ListDatasets = true
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, errors.Is(err, ErrNoAction))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_TrimsTrailingSlash(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ListDatasets = true
	cfg.APIURL = "https://portal.example.org/api/v1/"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://portal.example.org/api/v1", cfg.APIURL)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataportal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"api: https://staging.example.org/api/v1\ntoken_file: /tmp/tok\nuser: bob\nlog_file: /tmp/dp.log\ncolor: never\n"), 0o644))

	fc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, FileConfig{
		API: "https://staging.example.org/api/v1", TokenFile: "/tmp/tok",
		User: "bob", LogFile: "/tmp/dp.log", Color: ColorNever,
	}, fc)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("apii: typo\n"), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	fc, err := LoadFile(empty)
	require.NoError(t, err)
	assert.Equal(t, FileConfig{}, fc)
}

func TestApplyFile_FlagsWin(t *testing.T) {
	cfg, err := parse(t, "--api", "http://flag.example.org", "--no-color")
	require.NoError(t, err)

	cfg.ApplyFile(FileConfig{
		API: "http://file.example.org", TokenFile: "/file/tok", User: "bob", Color: ColorAlways,
	})
	assert.Equal(t, "http://flag.example.org", cfg.APIURL)
	assert.Equal(t, ColorNever, cfg.ColorMode)
	assert.Equal(t, "/file/tok", cfg.TokenFile)
	assert.Equal(t, "bob", cfg.User)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{"PORTAL_URL": "http://env.example.org", "PORTAL_TOKEN": "s3cret"}
	getenv := func(k string) string { return env[k] }

	cfg, err := parse(t)
	require.NoError(t, err)
	cfg.ApplyEnv(getenv)
	assert.Equal(t, "http://env.example.org", cfg.APIURL)
	assert.Equal(t, "s3cret", cfg.Token)

	cfg, err = parse(t, "-a", "http://flag.example.org")
	require.NoError(t, err)
	cfg.ApplyEnv(getenv)
	assert.Equal(t, "http://flag.example.org", cfg.APIURL)
}

func TestHolder(t *testing.T) {
	var h Holder
	first := DefaultConfig()
	first.User = "first"
	p, err := h.Init(first)
	require.NoError(t, err)
	assert.Equal(t, "first", p.User)

	second := DefaultConfig()
	second.User = "second"
	got, err := h.Init(second)
	assert.ErrorIs(t, err, ErrAlreadyConfigured)
	assert.Nil(t, got)
	assert.Equal(t, "first", p.User)
}

func TestParseFlags_Outputs(t *testing.T) {
	cfg, err := parse(t, "-l", "7", "--export", "files.XLSX", "--metrics-file", "/tmp/dp.prom")
	require.NoError(t, err)
	assert.Equal(t, "files.XLSX", cfg.ExportFile)
	assert.Equal(t, "/tmp/dp.prom", cfg.MetricsFile)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ActionListFiles, cfg.Action)
}

func TestApplyFile_MetricsFile(t *testing.T) {
	cfg, err := parse(t)
	require.NoError(t, err)
	cfg.ApplyFile(FileConfig{MetricsFile: "/file/dp.prom"})
	assert.Equal(t, "/file/dp.prom", cfg.MetricsFile)

	cfg, err = parse(t, "--metrics-file", "/flag/dp.prom")
	require.NoError(t, err)
	cfg.ApplyFile(FileConfig{MetricsFile: "/file/dp.prom"})
	assert.Equal(t, "/flag/dp.prom", cfg.MetricsFile)
}
