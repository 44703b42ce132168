package vendorwatch

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf"
)

// ErrNoData indicates there is nothing to chart for the requested period.
var ErrNoData = errors.New("no data available")

// RenderTrendChart draws a bar chart of average removal percentage per
// product into a PDF at outPath.
func RenderTrendChart(rows []Row, outPath string) error {
	if len(rows) == 0 {
		return ErrNoData
	}

	type agg struct {
		sum   float64
		count int
	}
	byProduct := map[string]*agg{}
	for _, r := range rows {
		a := byProduct[r.Product]
		if a == nil {
			a = &agg{}
			byProduct[r.Product] = a
		}
		a.sum += r.RemovalPercent
		a.count++
	}
	names := make([]string, 0, len(byProduct))
	for name := range byProduct {
		names = append(names, name)
	}
	sort.Strings(names)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Monthly PFAS Removal %", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)

	const (
		chartLeft   = 25.0
		chartBottom = 170.0
		chartHeight = 130.0
		chartWidth  = 240.0
	)

	// y axis with gridlines every 20%
	pdf.SetDrawColor(120, 120, 120)
	pdf.Line(chartLeft, chartBottom-chartHeight, chartLeft, chartBottom)
	pdf.Line(chartLeft, chartBottom, chartLeft+chartWidth, chartBottom)
	for pct := 0; pct <= 100; pct += 20 {
		y := chartBottom - chartHeight*float64(pct)/100.0
		pdf.SetDrawColor(220, 220, 220)
		pdf.Line(chartLeft, y, chartLeft+chartWidth, y)
		pdf.SetXY(chartLeft-15, y-2)
		pdf.CellFormat(13, 4, fmt.Sprintf("%d%%", pct), "", 0, "R", false, 0, "")
	}

	slot := chartWidth / float64(len(names))
	barWidth := slot * 0.6
	pdf.SetFillColor(70, 130, 180)
	for i, name := range names {
		a := byProduct[name]
		avg := a.sum / float64(a.count)
		if avg < 0 {
			avg = 0
		}
		if avg > 100 {
			avg = 100
		}
		h := chartHeight * avg / 100.0
		x := chartLeft + float64(i)*slot + (slot-barWidth)/2
		pdf.Rect(x, chartBottom-h, barWidth, h, "F")
		pdf.SetXY(x-5, chartBottom+2)
		pdf.CellFormat(barWidth+10, 4, name, "", 0, "C", false, 0, "")
		pdf.SetXY(x-5, chartBottom-h-6)
		pdf.CellFormat(barWidth+10, 4, fmt.Sprintf("%.1f%%", avg), "", 0, "C", false, 0, "")
	}

	return pdf.OutputFileAndClose(outPath)
}
