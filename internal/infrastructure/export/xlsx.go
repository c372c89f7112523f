package export

import (
	"io"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/eventi/backend/internal/domain/event"
	"github.com/xuri/excelize/v2"
)

// SheetName is the title of the report worksheet
const SheetName = "Eventi Report"

// Column width bounds, in characters
const (
	minColumnWidth = 10
	maxColumnWidth = 40
)

// ReportHeaders are the column titles of the Excel report, in order
var ReportHeaders = []string{
	"ID",
	"Titolo",
	"Categoria",
	"Data Inizio",
	"Data Fine",
	"Paese",
	"Città",
	"Settore",
	"Tipologia",
	"Descrizione",
	"Pubblico",
	"Creato Da",
	"Data Creazione",
	"Ultimo Aggiornamento",
}

const descrizioneColumn = 10

// XLSXRenderer writes the Excel report
type XLSXRenderer struct {
	loc *time.Location
}

var _ Renderer = (*XLSXRenderer)(nil)

// NewXLSXRenderer creates a renderer that prints timestamps in loc
func NewXLSXRenderer(loc *time.Location) *XLSXRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &XLSXRenderer{loc: loc}
}

// Filename returns report_YYYYmmdd_HHMMSS.xlsx
func (r *XLSXRenderer) Filename(t time.Time) string {
	return "report_" + t.Format("20060102_150405") + ".xlsx"
}

// ContentType returns the Excel MIME type
func (r *XLSXRenderer) ContentType() string {
	return ContentTypeXLSX
}

// Row returns the display values of one event in header order
func (r *XLSXRenderer) Row(e *event.Event) []any {
	return []any{
		e.ID,
		e.Titolo,
		e.Categoria.Display(),
		formatDate(&e.DataInizio),
		formatDate(e.DataFine),
		e.Paese.Display(),
		e.Citta,
		e.SettoreNome(),
		e.Tipologia,
		e.Descrizione,
		yesNo(e.Public),
		e.CreatedByName,
		formatTimestamp(e.CreatedAt, r.loc),
		formatTimestamp(e.UpdatedAt, r.loc),
	}
}

// Render writes the workbook to w
func (r *XLSXRenderer) Render(w io.Writer, events []event.Event, _ time.Time) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = NewRenderError(ErrCodeRenderFailed, "failed to close workbook", closeErr)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return NewRenderError(ErrCodeRenderFailed, "failed to name worksheet", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4682B4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return NewRenderError(ErrCodeRenderFailed, "failed to create header style", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true},
	})
	if err != nil {
		return NewRenderError(ErrCodeRenderFailed, "failed to create wrap style", err)
	}

	widths := make([]int, len(ReportHeaders))
	for i, header := range ReportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return NewRenderError(ErrCodeRenderFailed, "failed to write header", err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return NewRenderError(ErrCodeRenderFailed, "failed to style header", err)
		}
		widths[i] = utf8.RuneCountInString(header)
	}

	for rowIdx := range events {
		values := r.Row(&events[rowIdx])
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return NewRenderError(ErrCodeRenderFailed, "failed to write cell "+cell, err)
			}
			if colIdx+1 == descrizioneColumn {
				if err := f.SetCellStyle(SheetName, cell, cell, wrapStyle); err != nil {
					return NewRenderError(ErrCodeRenderFailed, "failed to style cell "+cell, err)
				}
			}
			if n := displayLength(value); n > widths[colIdx] {
				widths[colIdx] = n
			}
		}
	}

	for i, longest := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, ColumnWidth(longest, i+1 == descrizioneColumn)); err != nil {
			return NewRenderError(ErrCodeRenderFailed, "failed to size column "+col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return NewRenderError(ErrCodeRenderFailed, "failed to write workbook", err)
	}
	return nil
}

// ColumnWidth clamps the longest value plus padding to the width bounds.
// The description column always takes the maximum width.
func ColumnWidth(longest int, descrizione bool) float64 {
	if descrizione {
		return maxColumnWidth
	}
	return float64(min(max(minColumnWidth, longest+2), maxColumnWidth))
}

func displayLength(value any) int {
	switch v := value.(type) {
	case string:
		return utf8.RuneCountInString(v)
	case int64:
		return len(strconv.FormatInt(v, 10))
	default:
		return 0
	}
}
