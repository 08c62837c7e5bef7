package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mrsinham/dicomcohort/internal/config"
	"github.com/mrsinham/dicomcohort/internal/patients"
)

type rootFlags struct {
	configFile  string
	saveConfig  string
	sources     []string
	destination string
	patientList string
	patientCol  string
	manifest    string
	summary     string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "dicomcohort",
		Short: "Sort the DICOM files of a patient cohort into a study/series tree",
		Long: `dicomcohort scans one or more directories for DICOM files, keeps the files
of the patients listed in a patient list, and copies them to

  <destination>/<StudyInstanceUID>/<SeriesInstanceUID>/<file>

It then writes a CSV manifest with one row per study (one series column per
modality) and a summary of which requested patients were found.

The patient list is a delimited text file (comma, tab, semicolon or pipe) with a
"Patient ID" column; --patient-column selects another column.

Example:
  dicomcohort --source /data/pacs-export --dest /data/cohort --patients data.csv
  dicomcohort --config run.yaml --verbose`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}

			logger, err := newLogger(f.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			out := cmd.OutOrStdout()
			if err := run(cmd.Context(), cfg, logger, out); err != nil {
				return err
			}

			if f.saveConfig != "" {
				if err := config.SaveToYAML(cfg, f.saveConfig); err != nil {
					logger.Warn("Could not save config", zap.Error(err))
				} else {
					fmt.Fprintf(out, "Configuration saved to %s\n", f.saveConfig)
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configFile, "config", "", "Load configuration from YAML file")
	flags.StringVar(&f.saveConfig, "save-config", "", "Save the effective configuration to YAML file (after the run)")
	flags.StringArrayVarP(&f.sources, "source", "s", nil, "Directory to scan for DICOM files (repeatable)")
	flags.StringVarP(&f.destination, "dest", "d", "", "Destination directory for the study/series tree")
	flags.StringVarP(&f.patientList, "patients", "p", "", "Patient list file with a \"Patient ID\" column")
	flags.StringVar(&f.patientCol, "patient-column", patients.DefaultColumn, "Patient list column holding the patient IDs")
	flags.StringVar(&f.manifest, "manifest", config.DefaultManifest, "Output CSV manifest path")
	flags.StringVar(&f.summary, "summary", config.DefaultSummary, "Output summary report path")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Log every skipped file and new study")

	return cmd
}

// resolve builds the run configuration: the YAML file if given, then any flag
// set on the command line on top of it.
func (f *rootFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Defaults()
	if f.configFile != "" {
		loaded, err := config.LoadFromYAML(f.configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Sources = f.sources
	}
	if flags.Changed("dest") {
		cfg.Destination = f.destination
	}
	if flags.Changed("patients") {
		cfg.PatientList = f.patientList
	}
	if flags.Changed("patient-column") {
		cfg.PatientColumn = f.patientCol
	}
	if flags.Changed("manifest") {
		cfg.Manifest = f.manifest
	}
	if flags.Changed("summary") {
		cfg.Summary = f.summary
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
