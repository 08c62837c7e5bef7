package organizer

import "github.com/mrsinham/dicomcohort/internal/dicom"

// Stats counts what happened to the files of a run. Seen = Copied + Skipped.
// Directories the walk could not list are counted in UnreadableDirs only.
type Stats struct {
	Seen            int
	Copied          int
	Skipped         int
	SkippedByReason map[dicom.SkipReason]int
	UnreadableDirs  int
}

func newStats() Stats {
	return Stats{SkippedByReason: make(map[dicom.SkipReason]int)}
}

// Unparseable returns the number of files that could not be read as DICOM.
func (s Stats) Unparseable() int {
	return s.SkippedByReason[dicom.SkipNotDICOM] + s.SkippedByReason[dicom.SkipUnreadable]
}

func (s Stats) clone() Stats {
	out := s
	out.SkippedByReason = make(map[dicom.SkipReason]int, len(s.SkippedByReason))
	for k, v := range s.SkippedByReason {
		out.SkippedByReason[k] = v
	}
	return out
}
