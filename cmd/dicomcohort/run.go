package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/mrsinham/dicomcohort/internal/config"
	"github.com/mrsinham/dicomcohort/internal/organizer"
	"github.com/mrsinham/dicomcohort/internal/patients"
	"github.com/mrsinham/dicomcohort/internal/report"
)

// run performs one organize pass and writes the manifest and summary.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger, out io.Writer) error {
	wanted, err := patients.Load(cfg.PatientList, cfg.PatientColumn)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "dicomcohort")
	fmt.Fprintln(out, "===========")
	fmt.Fprintf(out, "Patients:    %d requested (%s)\n", wanted.Len(), cfg.PatientList)
	fmt.Fprintf(out, "Sources:     %s\n", strings.Join(cfg.Sources, ", "))
	fmt.Fprintf(out, "Destination: %s\n", cfg.Destination)
	fmt.Fprintln(out)

	org := organizer.New(organizer.Options{
		Destination: cfg.Destination,
		Wanted:      wanted,
		Logger:      logger,
	})
	stats, err := org.Run(ctx, cfg.Sources)
	if err != nil {
		return fmt.Errorf("organize files: %w", err)
	}
	fmt.Fprintf(out, "Files: %d seen, %d copied, %d skipped\n", stats.Seen, stats.Copied, stats.Skipped)
	fmt.Fprintf(out, "Studies: %d\n", org.Catalog().Len())

	if err := report.WriteManifestFile(cfg.Manifest, org.Catalog()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Exported %s\n", cfg.Manifest)

	summary := report.NewSummary(wanted, org.Catalog(), stats)
	if err := report.WriteSummaryFile(cfg.Summary, summary); err != nil {
		return err
	}
	fmt.Fprintf(out, "Created %s\n", cfg.Summary)

	report.PrintMissing(out, summary)
	fmt.Fprintln(out, "Done!")
	return nil
}
