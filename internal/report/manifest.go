// Package report exports the catalog of a run as a CSV manifest and writes the
// patient coverage summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/mrsinham/dicomcohort/internal/catalog"
)

// Fixed manifest columns.
const (
	StudyColumn   = "StudyInstanceUID"
	PatientColumn = "Patient ID"
)

// SeriesColumn returns the manifest column name for a modality, for example
// "ctSeriesInstanceUID".
func SeriesColumn(modality string) string {
	return modality + "SeriesInstanceUID"
}

// ManifestHeader returns the manifest columns: the fixed ones, then one series
// column per modality in alphabetical order.
func ManifestHeader(c *catalog.Catalog) []string {
	modalities := c.Modalities()
	header := make([]string, 0, 2+len(modalities))
	header = append(header, StudyColumn, PatientColumn)
	for _, m := range modalities {
		header = append(header, SeriesColumn(m))
	}
	return header
}

// ManifestRows returns one row per study, sorted by Study Instance UID. A
// study without a series for some modality has an empty cell there.
func ManifestRows(c *catalog.Catalog) [][]string {
	modalities := c.Modalities()
	studies := c.Studies()
	rows := make([][]string, 0, len(studies))
	for _, s := range studies {
		row := make([]string, 0, 2+len(modalities))
		row = append(row, s.StudyInstanceUID, s.PatientID)
		for _, m := range modalities {
			uid, _ := s.SeriesFor(m)
			row = append(row, uid)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteManifest writes the catalog as CSV to w.
func WriteManifest(w io.Writer, c *catalog.Catalog) error {
	out := gocsv.NewSafeCSVWriter(csv.NewWriter(w))
	if err := out.Write(ManifestHeader(c)); err != nil {
		return err
	}
	for _, row := range ManifestRows(c) {
		if err := out.Write(row); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

// WriteManifestFile writes the catalog as CSV to path, replacing the file.
func WriteManifestFile(path string, c *catalog.Catalog) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if err := WriteManifest(f, c); err != nil {
		_ = f.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	return f.Close()
}
