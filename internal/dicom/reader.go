package dicom

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// ErrNotDICOM is returned when a file lacks the "DICM" marker at offset 128.
var ErrNotDICOM = errors.New("not a DICOM file")

// MissingTagError reports a required element that is absent or empty.
type MissingTagError struct {
	Tag TagInfo
}

func (e *MissingTagError) Error() string {
	return fmt.Sprintf("missing required tag %s", e.Tag)
}

// Metadata holds the grouping keys of a single DICOM file.
type Metadata struct {
	PatientID         string
	StudyInstanceUID  string
	SeriesInstanceUID string
	Modality          string
}

// ReadMetadata parses the header of the file at path (pixel data skipped) and
// extracts the four grouping keys.
func ReadMetadata(path string) (Metadata, error) {
	ok, err := hasDicomMagicBytes(path)
	if err != nil {
		return Metadata{}, err
	}
	if !ok {
		return Metadata{}, ErrNotDICOM
	}

	ds, err := parseHeader(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("could not parse DICOM: %w", err)
	}

	values := make(map[tag.Tag]string, 4)
	for _, t := range RequiredTags() {
		v := getString(&ds, t.Tag)
		if v == "" {
			return Metadata{}, &MissingTagError{Tag: t}
		}
		values[t.Tag] = v
	}

	return Metadata{
		PatientID:         values[tag.PatientID],
		StudyInstanceUID:  values[tag.StudyInstanceUID],
		SeriesInstanceUID: values[tag.SeriesInstanceUID],
		Modality:          values[tag.Modality],
	}, nil
}

// parseHeader turns parser panics into errors; malformed input has been seen
// to panic inside the dicom library rather than return an error.
func parseHeader(path string) (ds dicom.Dataset, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dicom parser panic: %v", r)
		}
	}()

	return dicom.ParseFile(path, nil, dicom.SkipPixelData())
}

// getString returns the first string value of a tag, with DICOM padding
// removed, or "" when the tag is absent or not a string element.
func getString(ds *dicom.Dataset, t tag.Tag) string {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem == nil || elem.Value == nil {
		return ""
	}

	switch v := elem.Value.GetValue().(type) {
	case []string:
		if len(v) > 0 {
			return strings.Trim(v[0], " \x00")
		}
	case string:
		return strings.Trim(v, " \x00")
	}
	return ""
}

// hasDicomMagicBytes checks for the "DICM" marker after the 128 byte preamble.
func hasDicomMagicBytes(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	header := make([]byte, 132)
	if _, err := io.ReadFull(file, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, fmt.Errorf("could not read file: %w", err)
	}

	return string(header[128:132]) == "DICM", nil
}
