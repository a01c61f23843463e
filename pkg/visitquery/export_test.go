package visitquery

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tarlatakip/entities"
)

func fixedExporter() *Exporter {
	e := NewExporter(istanbul)
	e.now = func() time.Time { return time.Date(2024, 5, 2, 7, 30, 0, 0, time.UTC) }
	return e
}

func exportPage() []VisitView {
	v := visit("f1", "a", "v1", "2024-05-01T08:00:00.000Z", `"acil" ilaç`, "r1", "r2")
	return viewsOf(v)
}

func TestExportCSV(t *testing.T) {
	a, err := fixedExporter().Export(exportPage(), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "ziyaretler-20240502-103000.csv", a.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", a.ContentType)
	want := `"Tarih","Çiftçi","Telefon","Alan","Adres","Not","Öneriler"` + "\r\n" +
		`"01.05.2024 11:00","Çiğdem Yılmaz","0532 111 22 33","Buğday","Konya Ereğli","""acil"" ilaç","Bakır, Üre"` + "\r\n"
	assert.Equal(t, want, string(a.Body))
}

func TestExportFallbacks(t *testing.T) {
	v := VisitView{Visit: entities.Visit{FarmerID: "f9", FieldID: "g9", Date: "dün"}}
	rows := fixedExporter().Rows([]VisitView{v})
	assert.Equal(t, [][]string{{"dün", "f9", "", "g9", "", "", ""}}, rows)
}

func TestExportEmptyPage(t *testing.T) {
	a, err := fixedExporter().Export(nil, FormatCSV)
	assert.Nil(t, a)
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestExportXLSX(t *testing.T) {
	a, err := fixedExporter().Export(exportPage(), FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "ziyaretler-20240502-103000.xlsx", a.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(a.Body))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ExportHeader, rows[0])
	assert.Equal(t, "Bakır, Üre", rows[1][6])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	f, err = ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrValidation)
}
