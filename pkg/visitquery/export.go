package visitquery

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Format is an export file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat reads a format name, defaulting to CSV when empty.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", ErrValidation, s)
}

// ExportHeader is the first row of every export.
var ExportHeader = []string{"Tarih", "Çiftçi", "Telefon", "Alan", "Adres", "Not", "Öneriler"}

const (
	displayLayout = "02.01.2006 15:04"
	filenameStamp = "20060102-150405"
	exportSheet   = "Ziyaretler"
)

// Artifact is a downloadable export.
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Exporter renders a page of visits as a downloadable file, showing dates
// in its zone.
type Exporter struct {
	loc *time.Location
	now func() time.Time
}

func NewExporter(loc *time.Location) *Exporter {
	if loc == nil {
		loc = time.UTC
	}
	return &Exporter{loc: loc, now: time.Now}
}

// Rows renders page as export rows, header excluded. Dates are shown in the
// exporter's zone; unparseable dates are written as stored.
func (e *Exporter) Rows(page []VisitView) [][]string {
	rows := make([][]string, 0, len(page))
	for i := range page {
		v := &page[i]
		rows = append(rows, []string{
			e.displayDate(v),
			v.FarmerName(),
			v.FarmerPhone(),
			v.FieldType(),
			v.FieldAddress(),
			v.Note,
			v.Recommendations(),
		})
	}
	return rows
}

func (e *Exporter) displayDate(v *VisitView) string {
	if t, ok := v.Instant(); ok {
		return t.In(e.loc).Format(displayLayout)
	}
	return v.Date
}

// Export renders exactly the given page. An empty page yields
// ErrNothingToExport and no artifact.
func (e *Exporter) Export(page []VisitView, f Format) (*Artifact, error) {
	if len(page) == 0 {
		return nil, ErrNothingToExport
	}
	rows := append([][]string{ExportHeader}, e.Rows(page)...)
	base := "ziyaretler-" + e.now().In(e.loc).Format(filenameStamp)

	switch f {
	case FormatCSV:
		var buf bytes.Buffer
		if err := writeCSV(&buf, rows); err != nil {
			return nil, fmt.Errorf("write csv: %w", err)
		}
		return &Artifact{Filename: base + ".csv", ContentType: "text/csv; charset=utf-8", Body: buf.Bytes()}, nil
	case FormatXLSX:
		body, err := writeXLSX(rows)
		if err != nil {
			return nil, fmt.Errorf("write xlsx: %w", err)
		}
		return &Artifact{
			Filename:    base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Body:        body,
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown export format %q", ErrValidation, f)
}

// writeCSV quotes every cell, doubling embedded quotes, and ends each row
// with CRLF.
func writeCSV(w io.Writer, rows [][]string) error {
	var b strings.Builder
	for _, row := range rows {
		b.Reset()
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteString("\r\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeXLSX(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(row))
		for j, s := range row {
			values[j] = s
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
