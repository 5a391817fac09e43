package report

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"roicalc/models"
)

var printer = message.NewPrinter(language.English)

// UnboundedROILabel is shown instead of a percentage when there was no implementation cost
const UnboundedROILabel = "Unlimited (no implementation cost)"

// FormatCurrency renders a decimal string as US dollars with two decimals, e.g. "$1,177,600.00".
// Values that do not parse are returned unchanged.
func FormatCurrency(value string) string {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return value
	}
	return signed(d, "$"+formatGrouped(d.Abs(), 2))
}

// FormatPercent renders a decimal string as a percentage with two decimals, e.g. "2,355.20%"
func FormatPercent(value string) string {
	if value == models.ROIUnbounded {
		return UnboundedROILabel
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return value
	}
	return signed(d, formatGrouped(d.Abs(), 2)+"%")
}

// FormatMonths renders a payback period, e.g. "1.5 months"
func FormatMonths(value string) string {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return value
	}
	if d.Equal(decimal.NewFromInt(1)) {
		return "1.0 month"
	}
	return d.StringFixed(1) + " months"
}

// FormatCount renders a plain quantity with thousands separators and no trailing zeros
func FormatCount(v float64) string {
	d := decimal.NewFromFloat(v)
	return signed(d, formatGrouped(d.Abs(), -1))
}

// formatGrouped groups thousands. A negative scale keeps only significant decimals.
func formatGrouped(d decimal.Decimal, scale int) string {
	f, _ := d.Float64()
	if scale < 0 {
		return printer.Sprint(number.Decimal(f, number.MaxFractionDigits(4)))
	}
	return printer.Sprint(number.Decimal(f, number.Scale(scale)))
}

func signed(d decimal.Decimal, body string) string {
	if d.IsNegative() {
		return "-" + body
	}
	return body
}
