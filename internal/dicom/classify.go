package dicom

import (
	"errors"
	"strings"
)

// SkipReason explains why a file was left out of the organized output.
type SkipReason string

const (
	SkipNone            SkipReason = ""
	SkipNotDICOM        SkipReason = "not-dicom"
	SkipUnreadable      SkipReason = "unreadable"
	SkipMissingTag      SkipReason = "missing-tag"
	SkipInvalidUID      SkipReason = "invalid-uid"
	SkipUnwantedPatient SkipReason = "unwanted-patient"
)

// AllSkipReasons returns every non-empty reason in report order.
func AllSkipReasons() []SkipReason {
	return []SkipReason{SkipNotDICOM, SkipUnreadable, SkipMissingTag, SkipInvalidUID, SkipUnwantedPatient}
}

// PatientFilter decides whether a patient belongs to the requested cohort.
type PatientFilter interface {
	Contains(patientID string) bool
}

// Classification is the outcome of inspecting one file. Skip is SkipNone for
// files that should be copied and grouped.
type Classification struct {
	Path string
	Metadata
	Skip   SkipReason
	Detail string
}

// Included reports whether the file passed every check.
func (c Classification) Included() bool {
	return c.Skip == SkipNone
}

// Classify reads the file at path and decides whether it belongs to a wanted
// patient. Problems with the file itself are reported through Skip, never as
// an error.
func Classify(path string, wanted PatientFilter) Classification {
	c := Classification{Path: path}

	meta, err := ReadMetadata(path)
	if err != nil {
		var missing *MissingTagError
		switch {
		case errors.Is(err, ErrNotDICOM):
			c.Skip = SkipNotDICOM
		case errors.As(err, &missing):
			c.Skip = SkipMissingTag
		default:
			c.Skip = SkipUnreadable
		}
		c.Detail = err.Error()
		return c
	}
	c.Metadata = meta

	if !wanted.Contains(meta.PatientID) {
		c.Skip = SkipUnwantedPatient
		c.Detail = "patient " + meta.PatientID
		return c
	}

	// UIDs become directory names.
	for _, uid := range []string{meta.StudyInstanceUID, meta.SeriesInstanceUID} {
		if !isSafePathComponent(uid) {
			c.Skip = SkipInvalidUID
			c.Detail = "unusable UID " + uid
			return c
		}
	}
	return c
}

func isSafePathComponent(s string) bool {
	if s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`)
}
