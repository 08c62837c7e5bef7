// Package dicomtest writes small DICOM files for tests.
package dicomtest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Explicit VR little endian.
const transferSyntaxUID = "1.2.840.10008.1.2.1"

// Secondary capture image storage.
const sopClassUID = "1.2.840.10008.5.1.4.1.1.7"

// File describes the header of a fixture. Empty fields are left out of the
// written dataset, which is how tests produce files with missing tags.
type File struct {
	PatientID      string
	StudyUID       string
	SeriesUID      string
	Modality       string
	SOPInstanceUID string
}

// Write creates the parent directories and writes f as a DICOM file at path.
func Write(path string, f File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create fixture directory: %w", err)
	}

	sopInstanceUID := f.SOPInstanceUID
	if sopInstanceUID == "" {
		sopInstanceUID = "1.2.826.0.1.3680043.8.498.1"
	}

	elements := []*dicom.Element{
		mustNewElement(tag.MediaStorageSOPClassUID, []string{sopClassUID}),
		mustNewElement(tag.MediaStorageSOPInstanceUID, []string{sopInstanceUID}),
		mustNewElement(tag.TransferSyntaxUID, []string{transferSyntaxUID}),
		mustNewElement(tag.SOPClassUID, []string{sopClassUID}),
		mustNewElement(tag.SOPInstanceUID, []string{sopInstanceUID}),
	}
	if f.Modality != "" {
		elements = append(elements, mustNewElement(tag.Modality, []string{f.Modality}))
	}
	if f.PatientID != "" {
		elements = append(elements, mustNewElement(tag.PatientID, []string{f.PatientID}))
	}
	if f.StudyUID != "" {
		elements = append(elements, mustNewElement(tag.StudyInstanceUID, []string{f.StudyUID}))
	}
	if f.SeriesUID != "" {
		elements = append(elements, mustNewElement(tag.SeriesInstanceUID, []string{f.SeriesUID}))
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	return dicom.Write(out, dicom.Dataset{Elements: elements})
}

// MustWrite is Write for tests; it fails t on error.
func MustWrite(t testing.TB, path string, f File) {
	t.Helper()
	if err := Write(path, f); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
}

func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}
