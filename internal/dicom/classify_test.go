package dicom_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsinham/dicomcohort/internal/dicom"
	"github.com/mrsinham/dicomcohort/internal/dicom/dicomtest"
)

type wantSet map[string]bool

func (w wantSet) Contains(id string) bool { return w[id] }

func TestClassify_Included(t *testing.T) {
	path := filepath.Join(t.TempDir(), "IM0001.dcm")
	dicomtest.MustWrite(t, path, dicomtest.File{
		PatientID: "P1", StudyUID: "1.2.3.10", SeriesUID: "1.2.3.10.1", Modality: "CT",
	})

	c := dicom.Classify(path, wantSet{"P1": true})

	require.True(t, c.Included(), "skip=%s detail=%s", c.Skip, c.Detail)
	assert.Equal(t, path, c.Path)
	assert.Equal(t, "P1", c.PatientID)
	assert.Equal(t, "1.2.3.10", c.StudyInstanceUID)
	assert.Equal(t, "1.2.3.10.1", c.SeriesInstanceUID)
	assert.Equal(t, "CT", c.Modality)
}

func TestClassify_OddLengthValuesAreUnpadded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.dcm")
	dicomtest.MustWrite(t, path, dicomtest.File{
		PatientID: "P12", StudyUID: "1.2.3", SeriesUID: "1.2.3.4.5", Modality: "MR",
	})

	c := dicom.Classify(path, wantSet{"P12": true})

	require.True(t, c.Included(), "skip=%s detail=%s", c.Skip, c.Detail)
	assert.Equal(t, "P12", c.PatientID)
	assert.Equal(t, "1.2.3", c.StudyInstanceUID)
	assert.Equal(t, "1.2.3.4.5", c.SeriesInstanceUID)
}

func TestClassify_UnwantedPatient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p3.dcm")
	dicomtest.MustWrite(t, path, dicomtest.File{
		PatientID: "P3", StudyUID: "1.2.3.10", SeriesUID: "1.2.3.10.1", Modality: "CT",
	})

	c := dicom.Classify(path, wantSet{"P1": true})

	assert.False(t, c.Included())
	assert.Equal(t, dicom.SkipUnwantedPatient, c.Skip)
	assert.Equal(t, "P3", c.PatientID)
}

func TestClassify_NotDICOM(t *testing.T) {
	dir := t.TempDir()
	tests := map[string][]byte{
		"notes.txt": []byte("patient list goes here"),
		"empty":     nil,
		"noise.bin": make([]byte, 512),
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, content, 0644))

			c := dicom.Classify(path, wantSet{"P1": true})
			assert.Equal(t, dicom.SkipNotDICOM, c.Skip)
		})
	}
}

func TestClassify_Truncated(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "full.dcm")
	dicomtest.MustWrite(t, full, dicomtest.File{
		PatientID: "P1", StudyUID: "1.2.3.10", SeriesUID: "1.2.3.10.1", Modality: "CT",
	})
	data, err := os.ReadFile(full)
	require.NoError(t, err)

	// Preamble and marker survive, the meta header does not.
	truncated := filepath.Join(dir, "truncated.dcm")
	require.NoError(t, os.WriteFile(truncated, data[:140], 0644))

	c := dicom.Classify(truncated, wantSet{"P1": true})
	assert.Equal(t, dicom.SkipUnreadable, c.Skip)
	assert.NotEmpty(t, c.Detail)
}

func TestClassify_MissingTags(t *testing.T) {
	base := dicomtest.File{PatientID: "P1", StudyUID: "1.2.3.10", SeriesUID: "1.2.3.10.1", Modality: "CT"}
	tests := []struct {
		name    string
		mutate  func(f *dicomtest.File)
		missing dicom.TagInfo
	}{
		{"patient", func(f *dicomtest.File) { f.PatientID = "" }, dicom.PatientIDTag},
		{"study", func(f *dicomtest.File) { f.StudyUID = "" }, dicom.StudyInstanceUIDTag},
		{"series", func(f *dicomtest.File) { f.SeriesUID = "" }, dicom.SeriesInstanceUIDTag},
		{"modality", func(f *dicomtest.File) { f.Modality = "" }, dicom.ModalityTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			tt.mutate(&f)
			path := filepath.Join(t.TempDir(), "missing.dcm")
			dicomtest.MustWrite(t, path, f)

			c := dicom.Classify(path, wantSet{"P1": true})
			assert.Equal(t, dicom.SkipMissingTag, c.Skip)
			assert.Contains(t, c.Detail, tt.missing.Name)
		})
	}
}

func TestClassify_UnusableUID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.dcm")
	dicomtest.MustWrite(t, path, dicomtest.File{
		PatientID: "P1", StudyUID: "..", SeriesUID: "1.2.3.10.1", Modality: "CT",
	})

	c := dicom.Classify(path, wantSet{"P1": true})
	assert.Equal(t, dicom.SkipInvalidUID, c.Skip)
}

func TestClassify_UnwantedPatientWinsOverUnusableUID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.dcm")
	dicomtest.MustWrite(t, path, dicomtest.File{
		PatientID: "P3", StudyUID: "1.2.3.10", SeriesUID: "a/b", Modality: "CT",
	})

	c := dicom.Classify(path, wantSet{"P1": true})
	assert.Equal(t, dicom.SkipUnwantedPatient, c.Skip)
}

func TestClassify_MissingFile(t *testing.T) {
	c := dicom.Classify(filepath.Join(t.TempDir(), "gone.dcm"), wantSet{})
	assert.Equal(t, dicom.SkipUnreadable, c.Skip)
}

func TestTagInfo_String(t *testing.T) {
	assert.Equal(t, "PatientID (0010,0020)", dicom.PatientIDTag.String())
	assert.Equal(t, "Modality (0008,0060)", dicom.ModalityTag.String())
}
