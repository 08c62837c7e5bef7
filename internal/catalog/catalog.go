// Package catalog groups included DICOM files into one record per study.
package catalog

import (
	"sort"
	"strings"
)

// Study is the record kept for one Study Instance UID. Series maps a
// lower-cased modality to the series UID last seen for it.
type Study struct {
	StudyInstanceUID string
	PatientID        string
	Series           map[string]string
}

// SeriesFor returns the series UID recorded for a modality, case-insensitive.
func (s *Study) SeriesFor(modality string) (string, bool) {
	uid, ok := s.Series[strings.ToLower(modality)]
	return uid, ok
}

// Catalog maps Study Instance UID to Study. The zero value is not usable; use New.
type Catalog struct {
	studies map[string]*Study
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{studies: make(map[string]*Study)}
}

// Add records one included file. A later series for the same study and
// modality replaces the earlier one, and PatientID always takes the latest
// value. It reports whether a new study record was created.
func (c *Catalog) Add(patientID, studyUID, seriesUID, modality string) bool {
	study, exists := c.studies[studyUID]
	if !exists {
		study = &Study{
			StudyInstanceUID: studyUID,
			Series:           make(map[string]string),
		}
		c.studies[studyUID] = study
	}
	study.PatientID = patientID
	study.Series[strings.ToLower(modality)] = seriesUID
	return !exists
}

// Len returns the number of studies.
func (c *Catalog) Len() int {
	return len(c.studies)
}

// Study looks up a record by Study Instance UID.
func (c *Catalog) Study(studyUID string) (*Study, bool) {
	s, ok := c.studies[studyUID]
	return s, ok
}

// Studies returns all records sorted by Study Instance UID.
func (c *Catalog) Studies() []*Study {
	out := make([]*Study, 0, len(c.studies))
	for _, s := range c.studies {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StudyInstanceUID < out[j].StudyInstanceUID
	})
	return out
}

// Modalities returns the sorted union of modality keys across all studies.
func (c *Catalog) Modalities() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range c.studies {
		for m := range s.Series {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out
}

// PatientIDs returns the sorted distinct patient IDs across all studies.
func (c *Catalog) PatientIDs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range c.studies {
		if !seen[s.PatientID] {
			seen[s.PatientID] = true
			out = append(out, s.PatientID)
		}
	}
	sort.Strings(out)
	return out
}
