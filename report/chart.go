package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/shopspring/decimal"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"roicalc/models"
)

// ChartStyle defines the size and palette of the savings chart
type ChartStyle struct {
	Width        int
	Height       int
	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64
	MaxBars      int
	PositiveRGB  [3]float64
	NegativeRGB  [3]float64
	MarkerRGB    [3]float64
}

// DefaultChartStyle is the style used in reports
var DefaultChartStyle = ChartStyle{
	Width:        800,
	Height:       360,
	MarginLeft:   80,
	MarginRight:  20,
	MarginTop:    40,
	MarginBottom: 40,
	MaxBars:      60,
	PositiveRGB:  [3]float64{0.18, 0.55, 0.34},
	NegativeRGB:  [3]float64{0.80, 0.27, 0.25},
	MarkerRGB:    [3]float64{0.17, 0.35, 0.63},
}

// NetPosition is the cumulative savings less the implementation cost at the end of a month
type NetPosition struct {
	Month int
	Value float64
}

// NetPositions returns the net position for month 0 through the end of the horizon.
// Long horizons are sampled down to at most maxPoints entries; the last month is always kept.
func NetPositions(inputs models.MetricsInput, results models.ResultsRecord, maxPoints int) []NetPosition {
	monthly, err := decimal.NewFromString(results.MonthlySavings)
	if err != nil {
		monthly = decimal.Zero
	}
	implementation := decimal.NewFromFloat(finiteOrZero(inputs.OneTimeImplementationCost))

	horizon := int(math.Floor(finiteOrZero(inputs.TimeHorizonMonths)))
	if horizon < 1 {
		horizon = 1
	}

	step := 1
	if maxPoints > 1 && horizon+1 > maxPoints {
		step = int(math.Ceil(float64(horizon) / float64(maxPoints-1)))
	}

	positions := make([]NetPosition, 0, horizon/step+2)
	for m := 0; m <= horizon; m += step {
		positions = append(positions, netPositionAt(monthly, implementation, m))
	}
	if positions[len(positions)-1].Month != horizon {
		positions = append(positions, netPositionAt(monthly, implementation, horizon))
	}
	return positions
}

func netPositionAt(monthly, implementation decimal.Decimal, month int) NetPosition {
	v, _ := monthly.Mul(decimal.NewFromInt(int64(month))).Sub(implementation).Float64()
	return NetPosition{Month: month, Value: v}
}

// RenderSavingsChart draws the cumulative net position as a PNG bar chart with the payback month marked
func RenderSavingsChart(inputs models.MetricsInput, results models.ResultsRecord, style ChartStyle) ([]byte, error) {
	positions := NetPositions(inputs, results, style.MaxBars)

	dc := gg.NewContext(style.Width, style.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	labelFace, err := loadFont(goregular.TTF, 11)
	if err != nil {
		return nil, err
	}
	titleFace, err := loadFont(gobold.TTF, 14)
	if err != nil {
		return nil, err
	}

	plotW := float64(style.Width) - style.MarginLeft - style.MarginRight
	plotH := float64(style.Height) - style.MarginTop - style.MarginBottom

	minV, maxV := 0.0, 0.0
	for _, p := range positions {
		minV = math.Min(minV, p.Value)
		maxV = math.Max(maxV, p.Value)
	}
	if maxV == minV {
		maxV = minV + 1
	}
	yFor := func(v float64) float64 {
		return style.MarginTop + (maxV-v)/(maxV-minV)*plotH
	}
	lastMonth := float64(positions[len(positions)-1].Month)
	xFor := func(month float64) float64 {
		return style.MarginLeft + month/lastMonth*plotW
	}

	dc.SetFontFace(titleFace)
	dc.SetRGB(0.15, 0.15, 0.15)
	dc.DrawStringAnchored("Cumulative net position by month", float64(style.Width)/2, style.MarginTop/2, 0.5, 0.5)

	// Bars
	barW := plotW / float64(len(positions)) * 0.7
	zeroY := yFor(0)
	for _, p := range positions {
		color := style.PositiveRGB
		if p.Value < 0 {
			color = style.NegativeRGB
		}
		dc.SetRGB(color[0], color[1], color[2])

		x := xFor(float64(p.Month)) - barW/2
		top := math.Min(yFor(p.Value), zeroY)
		height := math.Abs(yFor(p.Value) - zeroY)
		dc.DrawRectangle(x, top, barW, math.Max(height, 0.5))
		dc.Fill()
	}

	// Zero line and axes
	dc.SetRGB(0.3, 0.3, 0.3)
	dc.SetLineWidth(1)
	dc.DrawLine(style.MarginLeft, zeroY, style.MarginLeft+plotW, zeroY)
	dc.DrawLine(style.MarginLeft, style.MarginTop, style.MarginLeft, style.MarginTop+plotH)
	dc.Stroke()

	dc.SetFontFace(labelFace)
	for _, v := range []float64{maxV, 0, minV} {
		if v != 0 && math.Abs(yFor(v)-zeroY) < 14 {
			continue
		}
		dc.DrawStringAnchored(compactCurrency(v), style.MarginLeft-8, yFor(v), 1, 0.5)
	}
	baseline := style.MarginTop + plotH + 16
	dc.DrawStringAnchored("Month 0", xFor(0), baseline, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("Month %d", int(lastMonth)), xFor(lastMonth), baseline, 1, 0.5)

	// Payback marker
	if payback, err := decimal.NewFromString(results.PaybackMonths); err == nil {
		months, _ := payback.Float64()
		if months > 0 && months <= lastMonth {
			x := xFor(months)
			dc.SetRGB(style.MarkerRGB[0], style.MarkerRGB[1], style.MarkerRGB[2])
			dc.SetLineWidth(2)
			dc.SetDash(6, 4)
			dc.DrawLine(x, style.MarginTop, x, style.MarginTop+plotH)
			dc.Stroke()
			dc.SetDash()
			dc.DrawStringAnchored(fmt.Sprintf("Payback %s", FormatMonths(results.PaybackMonths)), x+6, style.MarginTop+8, 0, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

// compactCurrency abbreviates axis labels, e.g. "$1.2M"
func compactCurrency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%s$%.1fB", sign, v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%s$%.1fM", sign, v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%s$%.0fK", sign, v/1e3)
	default:
		return fmt.Sprintf("%s$%.0f", sign, v)
	}
}

func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
