package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf/v2"
)

const (
	sheetMargin  = 36.0
	sheetColumns = 4
	sheetCell    = 110.0
	sheetIcon    = 96.0
	sheetCaption = 14.0
)

// ContactSheet lays out every successful result on A4 pages with its file
// name underneath, for reviewing a batch before it is shipped.
func ContactSheet(w io.Writer, title string, results []Result) error {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(sheetMargin, sheetMargin, sheetMargin)
	pdf.SetAutoPageBreak(false, 0)
	_, pageH := pdf.GetPageSize()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	x0, y0 := sheetMargin, sheetMargin+28
	col := 0
	y := y0

	newPage := func() {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(30, 30, 30)
		pdf.SetXY(sheetMargin, sheetMargin)
		pdf.CellFormat(0, 16, title, "", 0, "L", false, 0, "")
		col, y = 0, y0
	}
	newPage()

	placed := 0
	for i, r := range results {
		if !r.OK() {
			continue
		}
		if y+sheetCell+sheetCaption > pageH-sheetMargin {
			newPage()
		}
		name := fmt.Sprintf("icon%d", i)
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(r.PNG))
		x := x0 + float64(col)*(sheetCell+8)

		// grey backdrop shows the transparent areas
		pdf.SetFillColor(225, 228, 232)
		pdf.Rect(x, y, sheetCell, sheetCell, "F")
		pdf.ImageOptions(name, x+(sheetCell-sheetIcon)/2, y+(sheetCell-sheetIcon)/2, sheetIcon, sheetIcon, false, opts, 0, "")

		pdf.SetFont("Helvetica", "", 7)
		pdf.SetXY(x, y+sheetCell+2)
		pdf.CellFormat(sheetCell, 10, r.Job.Filename, "", 0, "C", false, 0, "")

		placed++
		col++
		if col == sheetColumns {
			col = 0
			y += sheetCell + sheetCaption + 10
		}
	}
	if placed == 0 {
		return ErrNothingRendered
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("building contact sheet: %w", err)
	}
	return pdf.Output(w)
}
