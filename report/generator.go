// Package report lays out the downloadable ROI report.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"roicalc/models"
)

// Report section headings and copy
const (
	Title          = "Invoice Automation ROI Report"
	SummaryHeading = "Projected Savings Summary"
	ResultsHeading = "Key Results"
	Disclaimer     = "This is a simulated report for demonstration purposes only."
)

const (
	chartImageName = "savings-chart"
	pageMarginMM   = 18.0
	chartWidthMM   = 174.0
	chartHeightMM  = 78.0
	lineHeightMM   = 7.0
	sectionGapMM   = 8.0
)

// ErrIncompleteReport is returned when there are no results to lay out
var ErrIncompleteReport = errors.New("report requires inputs and results")

// Generator composes ROI reports as PDF documents
type Generator struct {
	chartStyle ChartStyle
	now        func() time.Time
	compress   bool
}

// NewGenerator creates a report generator
func NewGenerator() *Generator {
	return &Generator{
		chartStyle: DefaultChartStyle,
		now:        time.Now,
		compress:   true,
	}
}

// Compose lays out the whole report. The returned document only needs to be written out,
// so every layout failure is reported here.
func (g *Generator) Compose(inputs models.MetricsInput, results models.ResultsRecord) (io.WriterTo, error) {
	if results.IsEmpty() {
		return nil, ErrIncompleteReport
	}

	chart, err := RenderSavingsChart(inputs, results, g.chartStyle)
	if err != nil {
		return nil, fmt.Errorf("failed to render savings chart: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(g.compress)
	pdf.SetCreationDate(g.now())
	pdf.SetTitle(Title, false)
	pdf.SetAuthor("ROI Calculator", false)
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.SetAutoPageBreak(true, pageMarginMM)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 5, Disclaimer, "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(0, 12, Title, "", 1, "C", false, 0, "")
	pdf.Ln(sectionGapMM)

	writeSummary(pdf, inputs)
	pdf.Ln(sectionGapMM)

	writeResults(pdf, results)
	pdf.Ln(sectionGapMM)

	pdf.RegisterImageOptionsReader(chartImageName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(chart))
	pdf.ImageOptions(chartImageName, pageMarginMM, pdf.GetY(), chartWidthMM, chartHeightMM, true,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.Close()
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to lay out report: %w", err)
	}

	return &Document{pdf: pdf}, nil
}

func writeSummary(pdf *fpdf.Fpdf, inputs models.MetricsInput) {
	heading(pdf, SummaryHeading)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, lineHeightMM, "This report is based on the following inputs:", "", 1, "L", false, 0, "")

	rows := [][2]string{
		{"Monthly Invoice Volume", FormatCount(inputs.MonthlyInvoiceVolume)},
		{"AP Staff", FormatCount(inputs.APStaffCount)},
		{"Time Horizon", FormatCount(inputs.TimeHorizonMonths) + " months"},
		{"Implementation Cost", FormatCurrency(decimalString(inputs.OneTimeImplementationCost))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.CellFormat(8, 6, "-", "", 0, "R", false, 0, "")
		pdf.CellFormat(60, 6, row[0]+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
}

func writeResults(pdf *fpdf.Fpdf, results models.ResultsRecord) {
	heading(pdf, ResultsHeading)

	rows := [][2]string{
		{"Monthly Savings", FormatCurrency(results.MonthlySavings)},
		{"Payback Period", FormatMonths(results.PaybackMonths)},
		{"Net Savings (Cumulative)", FormatCurrency(results.NetSavings)},
		{"Total ROI", FormatPercent(results.ROIPercentage)},
	}

	for _, row := range rows {
		pdf.SetFont("Helvetica", "", 14)
		pdf.CellFormat(70, 9, row[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 9, row[1], "", 1, "L", false, 0, "")
	}
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(0, 10, text, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pageMarginMM, pdf.GetY(), 210-pageMarginMM, pdf.GetY())
	pdf.Ln(2)
}

func decimalString(v float64) string {
	return fmt.Sprintf("%.2f", finiteOrZero(v))
}

// Document is a fully laid out report
type Document struct {
	pdf *fpdf.Fpdf
}

// WriteTo writes the PDF bytes to w. The document is drained by the first call.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := d.pdf.Output(cw)
	return cw.n, err
}

// countingWriter tracks how many bytes reached the underlying writer
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
