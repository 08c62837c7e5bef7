package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsinham/dicomcohort/internal/config"
	"github.com/mrsinham/dicomcohort/internal/dicom/dicomtest"
	"github.com/mrsinham/dicomcohort/internal/patients"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writePatientList(t *testing.T, dir string, ids ...string) string {
	t.Helper()
	content := "Patient ID\n"
	for _, id := range ids {
		content += id + "\n"
	}
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRoot_FullRun(t *testing.T) {
	work := t.TempDir()
	src := filepath.Join(work, "src")
	dicomtest.MustWrite(t, filepath.Join(src, "IM0001"), dicomtest.File{
		PatientID: "P1", StudyUID: "S1", SeriesUID: "A", Modality: "CT",
	})
	dicomtest.MustWrite(t, filepath.Join(src, "IM0002"), dicomtest.File{
		PatientID: "P3", StudyUID: "S3", SeriesUID: "C", Modality: "CT",
	})
	list := writePatientList(t, work, "P1", "P2")
	dest := filepath.Join(work, "cohort")
	manifest := filepath.Join(work, "manifest.csv")
	summary := filepath.Join(work, "summary.txt")
	saved := filepath.Join(work, "run.yaml")

	out, err := executeRoot(t,
		"--source", src, "--dest", dest, "--patients", list,
		"--manifest", manifest, "--summary", summary, "--save-config", saved)
	require.NoError(t, err, out)

	assert.Contains(t, out, "Files: 2 seen, 1 copied, 1 skipped")
	assert.Contains(t, out, "Missing patients: {P2}")
	assert.FileExists(t, filepath.Join(dest, "S1", "A", "IM0001"))

	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	assert.Equal(t, "StudyInstanceUID,Patient ID,ctSeriesInstanceUID\nS1,P1,A\n", string(data))

	data, err = os.ReadFile(summary)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Available Patients: {P1}")

	cfg, err := config.LoadFromYAML(saved)
	require.NoError(t, err)
	assert.Equal(t, []string{src}, cfg.Sources)
	assert.Equal(t, dest, cfg.Destination)
}

func TestRoot_ConfigFileWithFlagOverride(t *testing.T) {
	work := t.TempDir()
	src := filepath.Join(work, "src")
	require.NoError(t, os.MkdirAll(src, 0755))
	list := writePatientList(t, work, "P1")

	cfgPath := filepath.Join(work, "run.yaml")
	require.NoError(t, config.SaveToYAML(config.Config{
		Sources:     []string{src},
		Destination: filepath.Join(work, "from-file"),
		PatientList: list,
		Manifest:    filepath.Join(work, "m.csv"),
		Summary:     filepath.Join(work, "s.txt"),
	}, cfgPath))

	override := filepath.Join(work, "from-flag")
	out, err := executeRoot(t, "--config", cfgPath, "--dest", override)
	require.NoError(t, err, out)

	assert.DirExists(t, override)
	assert.NoDirExists(t, filepath.Join(work, "from-file"))
	assert.Contains(t, out, "Missing patients: {P1}")
}

func TestRoot_PatientColumnFlag(t *testing.T) {
	work := t.TempDir()
	src := filepath.Join(work, "src")
	dicomtest.MustWrite(t, filepath.Join(src, "IM0001"), dicomtest.File{
		PatientID: "P1", StudyUID: "S1", SeriesUID: "A", Modality: "CT",
	})
	list := filepath.Join(work, "cohort.tsv")
	require.NoError(t, os.WriteFile(list, []byte("Name\tMRN\nAlice\tP1\nBob\tP2\n"), 0644))
	saved := filepath.Join(work, "run.yaml")

	out, err := executeRoot(t,
		"--source", src, "--dest", filepath.Join(work, "cohort"), "--patients", list,
		"--patient-column", "MRN", "--manifest", filepath.Join(work, "m.csv"),
		"--summary", filepath.Join(work, "s.txt"), "--save-config", saved)
	require.NoError(t, err, out)

	assert.Contains(t, out, "Files: 1 seen, 1 copied, 0 skipped")
	assert.Contains(t, out, "Missing patients: {P2}")

	cfg, err := config.LoadFromYAML(saved)
	require.NoError(t, err)
	assert.Equal(t, "MRN", cfg.PatientColumn)
}

func TestRoot_PatientColumnNotInList(t *testing.T) {
	work := t.TempDir()
	list := writePatientList(t, work, "P1")

	_, err := executeRoot(t, "--source", work, "--dest", filepath.Join(work, "out"), "--patients", list,
		"--patient-column", "MRN", "--manifest", filepath.Join(work, "m.csv"), "--summary", filepath.Join(work, "s.txt"))
	assert.True(t, errors.Is(err, patients.ErrMissingColumn), "got %v", err)
}

func TestRoot_MissingSource(t *testing.T) {
	_, err := executeRoot(t, "--dest", t.TempDir(), "--patients", "data.csv")
	assert.True(t, errors.Is(err, config.ErrNoSources), "got %v", err)
}

func TestRoot_BadPatientList(t *testing.T) {
	work := t.TempDir()
	list := filepath.Join(work, "data.csv")
	require.NoError(t, os.WriteFile(list, []byte("Name\nAlice\n"), 0644))

	_, err := executeRoot(t, "--source", work, "--dest", filepath.Join(work, "out"), "--patients", list,
		"--manifest", filepath.Join(work, "m.csv"), "--summary", filepath.Join(work, "s.txt"))
	assert.Error(t, err)
}

func TestRoot_RejectsPositionalArgs(t *testing.T) {
	_, err := executeRoot(t, "extra")
	assert.Error(t, err)
}
