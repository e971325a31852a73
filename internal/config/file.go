package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML form. Every key is optional.
//
//	api: https://portal.example.org/api/v1
//	token_file: ~/.config/dataportal/token
//	user: alice
//	log_file: /var/log/dataportal.log
//	color: never
//	metrics_file: /var/lib/node_exporter/dataportal.prom
type FileConfig struct {
	API         string    `yaml:"api"`
	TokenFile   string    `yaml:"token_file"`
	User        string    `yaml:"user"`
	LogFile     string    `yaml:"log_file"`
	Color       ColorMode `yaml:"color"`
	MetricsFile string    `yaml:"metrics_file"`
}

// LoadFile reads and decodes a YAML config file. Unknown keys are an error
// so that typos do not go unnoticed.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// ApplyFile copies non-empty file values into c, skipping settings given
// explicitly on the command line.
func (c *Config) ApplyFile(fc FileConfig) {
	set := func(flagName string, dst *string, v string) {
		if v != "" && !c.IsExplicit(flagName) {
			*dst = v
		}
	}
	set("api", &c.APIURL, fc.API)
	set("token", &c.TokenFile, fc.TokenFile)
	set("user", &c.User, fc.User)
	set("log", &c.LogFile, fc.LogFile)
	set("metrics-file", &c.MetricsFile, fc.MetricsFile)
	if fc.Color != "" && !c.IsExplicit("color") {
		c.ColorMode = fc.Color
	}
}

// ApplyEnv applies PORTAL_URL and PORTAL_TOKEN. PORTAL_URL yields to an
// explicit --api; PORTAL_TOKEN always wins over a token file.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("PORTAL_URL"); v != "" && !c.IsExplicit("api") {
		c.APIURL = v
	}
	if v := getenv("PORTAL_TOKEN"); v != "" {
		c.Token = v
	}
}
