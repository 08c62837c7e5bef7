package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrsinham/dicomcohort/internal/catalog"
	"github.com/mrsinham/dicomcohort/internal/dicom"
	"github.com/mrsinham/dicomcohort/internal/organizer"
	"github.com/mrsinham/dicomcohort/internal/patients"
)

const banner = "===================SUMMARY==============================="

// Summary compares the requested patients with the ones actually found.
// Missing holds patients in exactly one of Wanted and Found; in a normal run
// that is Wanted minus Found.
type Summary struct {
	Wanted  patients.Set
	Found   patients.Set
	Missing patients.Set
	Stats   organizer.Stats
}

// NewSummary derives Found from the catalog and computes Missing.
func NewSummary(wanted patients.Set, c *catalog.Catalog, stats organizer.Stats) Summary {
	found := patients.NewSet(c.PatientIDs()...)
	return Summary{
		Wanted:  wanted,
		Found:   found,
		Missing: patients.SymmetricDifference(wanted, found),
		Stats:   stats,
	}
}

// WriteTo renders the summary report.
func (s Summary) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	b.WriteString(banner + "\n")
	fmt.Fprintf(&b, "Total Patients: %d\n", s.Wanted.Len())
	fmt.Fprintf(&b, "Number of Available Patients: %d\n", s.Found.Len())
	fmt.Fprintf(&b, "Number of Missing Patients: %d\n", s.Missing.Len())
	fmt.Fprintf(&b, "Missing Patients: %s\n", s.Missing)
	fmt.Fprintf(&b, "Available Patients: %s\n", s.Found)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Files Seen: %d\n", s.Stats.Seen)
	fmt.Fprintf(&b, "Files Copied: %d\n", s.Stats.Copied)
	fmt.Fprintf(&b, "Files Skipped: %d\n", s.Stats.Skipped)
	for _, reason := range dicom.AllSkipReasons() {
		if n := s.Stats.SkippedByReason[reason]; n > 0 {
			fmt.Fprintf(&b, "  %s: %d\n", reason, n)
		}
	}
	if s.Stats.UnreadableDirs > 0 {
		fmt.Fprintf(&b, "Unreadable Directories: %d\n", s.Stats.UnreadableDirs)
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// WriteSummaryFile writes the summary report to path, replacing the file.
func WriteSummaryFile(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	if _, err := s.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write summary: %w", err)
	}
	return f.Close()
}

// PrintMissing writes the one-line missing patient report.
func PrintMissing(w io.Writer, s Summary) {
	fmt.Fprintf(w, "Missing patients: %s\n", s.Missing)
}
