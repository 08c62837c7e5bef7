package patients

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/csimplestring/go-csv/detector"
	"github.com/gocarina/gocsv"
)

// DefaultColumn is the header of the patient list column holding patient IDs
// unless another one is configured.
const DefaultColumn = "Patient ID"

// ErrMissingColumn is returned when the patient list has no header cell
// matching the patient ID column.
var ErrMissingColumn = errors.New("patient ID column not found in patient list")

var fallbackDelimiters = []rune{',', '\t', ';', '|'}

// patientIDField is the header the configured column is renamed to before
// unmarshalling.
const patientIDField = "dicomcohort:patient-id"

type listRow struct {
	PatientID string `csv:"dicomcohort:patient-id"`
}

// Load reads a delimited patient list (comma, tab, semicolon or pipe,
// detected from the content) and returns the set of the values in column.
// An empty column means DefaultColumn.
func Load(path, column string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patient list: %w", err)
	}
	set, err := Parse(bytes.NewReader(data), column)
	if err != nil {
		return nil, fmt.Errorf("parse patient list %s: %w", path, err)
	}
	return set, nil
}

// Parse reads a patient list from r.
func Parse(r io.Reader, column string) (Set, error) {
	if column == "" {
		column = DefaultColumn
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	delim, err := determineDelimiter(data, column)
	if err != nil {
		return nil, err
	}

	var rows []*listRow
	in := &columnReader{Reader: newReader(data, delim), column: column}
	if err := gocsv.UnmarshalCSV(in, &rows); err != nil {
		return nil, err
	}

	set := make(Set, len(rows))
	for _, row := range rows {
		set.Add(row.PatientID)
	}
	return set, nil
}

// determineDelimiter picks the detected delimiter when it splits the header
// into a cell named column, and otherwise tries the common ones in turn. A
// space inside the column name can fool the detector on single-column lists.
func determineDelimiter(data []byte, column string) (rune, error) {
	var candidates []rune
	for _, d := range detector.New().DetectDelimiter(bytes.NewReader(data), '"') {
		if d != "" {
			candidates = append(candidates, []rune(d)[0])
		}
	}
	candidates = append(candidates, fallbackDelimiters...)

	for _, delim := range candidates {
		header, err := newReader(data, delim).Read()
		if err == io.EOF {
			return 0, fmt.Errorf("%w: %q", ErrMissingColumn, column)
		}
		if err != nil {
			continue
		}
		for _, h := range header {
			if h == column {
				return delim, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrMissingColumn, column)
}

// columnReader renames the first header cell equal to column to
// patientIDField, so one struct tag serves any configured column name.
type columnReader struct {
	*csv.Reader
	column     string
	headerDone bool
}

func (r *columnReader) Read() ([]string, error) {
	record, err := r.Reader.Read()
	if err != nil || r.headerDone {
		return record, err
	}
	r.headerDone = true
	r.renameHeader(record)
	return record, nil
}

func (r *columnReader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

func (r *columnReader) renameHeader(header []string) {
	for i, h := range header {
		if h == r.column {
			header[i] = patientIDField
			return
		}
	}
}

func newReader(data []byte, delim rune) *csv.Reader {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	return r
}
