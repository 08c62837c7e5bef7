// Package organizer walks source trees, copies the files of wanted patients
// into a study/series hierarchy and groups them into a catalog.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mrsinham/dicomcohort/internal/catalog"
	"github.com/mrsinham/dicomcohort/internal/dicom"
	"github.com/mrsinham/dicomcohort/internal/patients"
)

const copyMode = 0644

// Options configures an Organizer.
type Options struct {
	Destination string       // Root of the study/series output tree
	Wanted      patients.Set // Patients whose files are kept
	Logger      *zap.Logger  // Optional; defaults to a no-op logger
}

// Organizer runs one classification and copy pass. It is not safe for
// concurrent use.
type Organizer struct {
	destination string
	wanted      patients.Set
	logger      *zap.Logger
	catalog     *catalog.Catalog
	stats       Stats
}

// New returns an Organizer with an empty catalog.
func New(opts Options) *Organizer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	wanted := opts.Wanted
	if wanted == nil {
		wanted = patients.NewSet()
	}
	return &Organizer{
		destination: opts.Destination,
		wanted:      wanted,
		logger:      logger,
		catalog:     catalog.New(),
		stats:       newStats(),
	}
}

// Catalog returns the grouping built so far.
func (o *Organizer) Catalog() *catalog.Catalog {
	return o.catalog
}

// Stats returns the counters accumulated so far.
func (o *Organizer) Stats() Stats {
	return o.stats.clone()
}

// Run walks every source root in order. Per-file problems are counted and
// skipped; a failure to write into the destination aborts the run. Whatever
// was copied before an error or cancellation stays on disk.
func (o *Organizer) Run(ctx context.Context, sources []string) (Stats, error) {
	if err := os.MkdirAll(o.destination, 0755); err != nil {
		return o.Stats(), fmt.Errorf("create destination directory: %w", err)
	}
	destAbs, err := filepath.Abs(o.destination)
	if err != nil {
		return o.Stats(), fmt.Errorf("resolve destination directory: %w", err)
	}

	for _, src := range sources {
		o.logger.Info("Scanning source", zap.String("path", src))
		if err := o.walk(ctx, src, destAbs); err != nil {
			return o.Stats(), err
		}
	}

	if o.stats.Seen > 0 && o.stats.Unparseable() == o.stats.Seen {
		o.logger.Warn("No readable DICOM file found in sources", zap.Int("files", o.stats.Seen))
	}
	return o.Stats(), nil
}

func (o *Organizer) walk(ctx context.Context, root, destAbs string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if d == nil || path == root {
				return fmt.Errorf("walk %s: %w", path, err)
			}
			if d.IsDir() {
				o.stats.UnreadableDirs++
				o.logger.Warn("Skipping unreadable directory", zap.String("path", path), zap.Error(err))
				return fs.SkipDir
			}
			o.record(dicom.Classification{Path: path, Skip: dicom.SkipUnreadable, Detail: err.Error()})
			return nil
		}

		if d.IsDir() {
			if abs, err := filepath.Abs(path); err == nil && abs == destAbs {
				o.logger.Debug("Skipping destination directory", zap.String("path", path))
				return fs.SkipDir
			}
			return nil
		}

		return o.handle(path)
	})
}

// handle classifies one file and, when included, copies and groups it.
func (o *Organizer) handle(path string) error {
	c := dicom.Classify(path, o.wanted)
	o.record(c)
	if !c.Included() {
		return nil
	}

	seriesDir := filepath.Join(o.destination, c.StudyInstanceUID, c.SeriesInstanceUID)
	if err := os.MkdirAll(seriesDir, 0755); err != nil {
		return fmt.Errorf("create series directory: %w", err)
	}
	dst := filepath.Join(seriesDir, filepath.Base(path))
	if err := copyFile(path, dst); err != nil {
		return fmt.Errorf("copy %s to %s: %w", path, dst, err)
	}
	o.stats.Copied++

	if o.catalog.Add(c.PatientID, c.StudyInstanceUID, c.SeriesInstanceUID, c.Modality) {
		o.logger.Debug("Created study record",
			zap.String("study", c.StudyInstanceUID),
			zap.String("patient", c.PatientID))
	}
	return nil
}

func (o *Organizer) record(c dicom.Classification) {
	o.stats.Seen++
	if c.Included() {
		return
	}
	o.stats.Skipped++
	o.stats.SkippedByReason[c.Skip]++
	o.logger.Debug("Skipping file",
		zap.String("path", c.Path),
		zap.String("reason", string(c.Skip)),
		zap.String("detail", c.Detail))
}

// copyFile copies src to dst, replacing dst if it exists. Copies are always
// created owner-writable so a later run can overwrite them, whatever the mode
// of the source.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, copyMode)
	if errors.Is(err, fs.ErrPermission) {
		// A read-only file left by an earlier copy: replace it.
		if rmErr := os.Remove(dst); rmErr == nil {
			out, err = os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, copyMode)
		}
	}
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
