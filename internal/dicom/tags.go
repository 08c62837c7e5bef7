// Package dicom reads the handful of header elements needed to sort a DICOM
// file into a study/series hierarchy.
package dicom

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// TagInfo pairs a DICOM tag with the name used in logs and skip details.
type TagInfo struct {
	Name string
	Tag  tag.Tag
}

// String returns the name and the (gggg,eeee) form of the tag.
func (t TagInfo) String() string {
	return fmt.Sprintf("%s (%04X,%04X)", t.Name, t.Tag.Group, t.Tag.Element)
}

var (
	PatientIDTag         = TagInfo{Name: "PatientID", Tag: tag.PatientID}
	StudyInstanceUIDTag  = TagInfo{Name: "StudyInstanceUID", Tag: tag.StudyInstanceUID}
	SeriesInstanceUIDTag = TagInfo{Name: "SeriesInstanceUID", Tag: tag.SeriesInstanceUID}
	ModalityTag          = TagInfo{Name: "Modality", Tag: tag.Modality}
)

// RequiredTags returns the tags every included file must carry, in the order
// they are checked.
func RequiredTags() []TagInfo {
	return []TagInfo{PatientIDTag, StudyInstanceUIDTag, SeriesInstanceUIDTag, ModalityTag}
}
