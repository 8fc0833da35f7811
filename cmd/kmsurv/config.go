package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config names the columns of the input data and the estimation
// settings.  Values given on the command line override the file.
type Config struct {
	TimeVar   string    `yaml:"time"`
	StatusVar string    `yaml:"status"`
	EntryVar  string    `yaml:"entry"`
	TimeMin   *float64  `yaml:"time_min"`
	Query     []float64 `yaml:"query"`
}

func defaultConfig() *Config {
	return &Config{
		TimeVar:   "Time",
		StatusVar: "Status",
	}
}

// loadConfig reads a YAML configuration file on top of the defaults.
// Unknown fields are an error so that typos do not go unnoticed.
func loadConfig(path string) (*Config, error) {

	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.TimeVar == "" || cfg.StatusVar == "" {
		return nil, fmt.Errorf("config %s: time and status variables are required", path)
	}

	return cfg, nil
}

// floatVars returns the columns that must be read as float64.
func (cfg *Config) floatVars() []string {
	vars := []string{cfg.TimeVar, cfg.StatusVar}
	if cfg.EntryVar != "" {
		vars = append(vars, cfg.EntryVar)
	}
	return vars
}
