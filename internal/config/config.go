// Package config holds the settings of a single organize run.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mrsinham/dicomcohort/internal/patients"
)

const (
	DefaultManifest = "DicomDataBase.csv"
	DefaultSummary  = "summary.txt"
)

var (
	ErrNoSources     = errors.New("at least one source directory is required")
	ErrNoDestination = errors.New("destination directory is required")
	ErrNoPatientList = errors.New("patient list file is required")
	ErrNoPatientCol  = errors.New("patient list column name is required")
	ErrNoManifest    = errors.New("manifest path is required")
	ErrNoSummary     = errors.New("summary path is required")
)

// Config is the complete configuration of a run. It can be loaded from YAML
// and is otherwise filled from command-line flags.
type Config struct {
	Sources     []string `yaml:"sources"`
	Destination string   `yaml:"destination"`
	PatientList string   `yaml:"patient_list"`
	// PatientColumn names the patient list column holding patient IDs.
	PatientColumn string `yaml:"patient_column,omitempty"`
	Manifest      string `yaml:"manifest"`
	Summary       string `yaml:"summary"`
}

// Defaults returns a Config with the output file names set.
func Defaults() Config {
	return Config{
		PatientColumn: patients.DefaultColumn,
		Manifest:      DefaultManifest,
		Summary:       DefaultSummary,
	}
}

// LoadFromYAML reads a config file on top of Defaults.
func LoadFromYAML(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// SaveToYAML writes cfg to path.
func SaveToYAML(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks that every required setting is present and that each
// source is an existing directory.
func (c Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSources
	}
	for _, src := range c.Sources {
		info, err := os.Stat(src)
		if err != nil {
			return fmt.Errorf("source directory %s: %w", src, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("source path is not a directory: %s", src)
		}
	}
	if c.Destination == "" {
		return ErrNoDestination
	}
	if c.PatientList == "" {
		return ErrNoPatientList
	}
	if c.PatientColumn == "" {
		return ErrNoPatientCol
	}
	if c.Manifest == "" {
		return ErrNoManifest
	}
	if c.Summary == "" {
		return ErrNoSummary
	}
	return nil
}
