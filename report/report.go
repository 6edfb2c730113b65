// Package report turns message-report rows into tabular CSV output.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Header sets for the two known report shapes. The stored function decides
// the shape: per-user reports carry three columns, all-user reports four or
// more with the username first.
var (
	headersNarrow = []string{"DATE", "GROUP", "MESSAGES"}
	headersWide   = []string{"USERNAME", "GROUP", "DATE", "MESSAGES"}
)

// Report is a header row plus data rows, ready for serialization.
type Report struct {
	Headers []string
	Rows    [][]string
}

// Build assembles a report from raw rows. The header set is chosen by the
// arity of the first row; an empty input yields a report with no header.
func Build(rows [][]string) Report {
	if len(rows) == 0 {
		return Report{}
	}
	h := headersNarrow
	if len(rows[0]) >= 4 {
		h = headersWide
	}
	return Report{Headers: h, Rows: rows}
}

// Empty reports whether the report carries no data rows.
func (r Report) Empty() bool { return len(r.Rows) == 0 }

// EncodeCSV serializes the report. An empty report yields empty output
// rather than a lone header line.
func (r Report) EncodeCSV() ([]byte, error) {
	if r.Empty() {
		return nil, nil
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if len(r.Headers) > 0 {
		if err := w.Write(r.Headers); err != nil {
			return nil, fmt.Errorf("report: write header: %w", err)
		}
	}
	if err := w.WriteAll(r.Rows); err != nil {
		return nil, fmt.Errorf("report: write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("report: flush: %w", err)
	}
	return buf.Bytes(), nil
}
