package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"roicalc/models"
	"roicalc/simulation"
)

// metricField binds a wire key, and the legacy snake_case key older clients send, to an input field
type metricField struct {
	key    string
	legacy string
	set    func(*models.MetricsInput, float64)
}

var metricFields = []metricField{
	{"monthlyInvoiceVolume", "monthly_invoice_volume", func(in *models.MetricsInput, v float64) { in.MonthlyInvoiceVolume = v }},
	{"apStaffCount", "num_ap_staff", func(in *models.MetricsInput, v float64) { in.APStaffCount = v }},
	{"avgHoursPerInvoice", "avg_hours_per_invoice", func(in *models.MetricsInput, v float64) { in.AvgHoursPerInvoice = v }},
	{"hourlyWage", "hourly_wage", func(in *models.MetricsInput, v float64) { in.HourlyWage = v }},
	{"manualErrorRatePercent", "error_rate_manual", func(in *models.MetricsInput, v float64) { in.ManualErrorRatePercent = v }},
	{"errorCost", "error_cost", func(in *models.MetricsInput, v float64) { in.ErrorCost = v }},
	{"timeHorizonMonths", "time_horizon_months", func(in *models.MetricsInput, v float64) { in.TimeHorizonMonths = v }},
	{"oneTimeImplementationCost", "one_time_implementation_cost", func(in *models.MetricsInput, v float64) { in.OneTimeImplementationCost = v }},
}

// CoerceMetrics turns a loosely typed payload into MetricsInput.
//
// Missing, null, malformed and non-finite values become zero. Numeric strings
// are parsed. Negative values are rejected.
func CoerceMetrics(raw map[string]any) (models.MetricsInput, error) {
	var in models.MetricsInput
	for _, f := range metricFields {
		value, ok := raw[f.key]
		if !ok {
			value = raw[f.legacy]
		}
		v := toFloat(value)
		if v < 0 {
			return models.MetricsInput{}, validationError("%s must not be negative", f.key)
		}
		f.set(&in, v)
	}
	return in, nil
}

// ShouldShortCircuit reports whether inputs are too degenerate to simulate
func ShouldShortCircuit(in models.MetricsInput) bool {
	return !(in.MonthlyInvoiceVolume > 0) || !(in.APStaffCount > 0)
}

func toFloat(value any) float64 {
	var v float64
	switch t := value.(type) {
	case float64:
		v = t
	case float32:
		v = float64(t)
	case int:
		v = float64(t)
	case int64:
		v = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		v = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		v = parsed
	default:
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// resultField binds a wire key, its legacy snake_case form, a results figure and its precision
type resultField struct {
	key       string
	legacy    string
	places    int32
	unbounded bool
	set       func(*models.ResultsRecord, string)
}

var resultFields = []resultField{
	{"monthlySavings", "monthly_savings", simulation.CurrencyPlaces, false, func(r *models.ResultsRecord, v string) { r.MonthlySavings = v }},
	{"cumulativeSavings", "cumulative_savings", simulation.CurrencyPlaces, false, func(r *models.ResultsRecord, v string) { r.CumulativeSavings = v }},
	{"netSavings", "net_savings", simulation.CurrencyPlaces, false, func(r *models.ResultsRecord, v string) { r.NetSavings = v }},
	{"paybackMonths", "payback_months", simulation.PaybackPlaces, false, func(r *models.ResultsRecord, v string) { r.PaybackMonths = v }},
	{"roiPercentage", "roi_percentage", simulation.PercentPlaces, true, func(r *models.ResultsRecord, v string) { r.ROIPercentage = v }},
}

// CoerceResults validates a client-supplied results payload and normalises
// every figure to the precision the engine produces.
func CoerceResults(raw map[string]any) (models.ResultsRecord, error) {
	var results models.ResultsRecord
	for _, f := range resultFields {
		value, ok := raw[f.key]
		if !ok || value == nil {
			value, ok = raw[f.legacy]
		}
		if !ok || value == nil {
			return models.ResultsRecord{}, validationError("results.%s is required", f.key)
		}

		if s, isString := value.(string); isString && f.unbounded && strings.TrimSpace(s) == models.ROIUnbounded {
			f.set(&results, models.ROIUnbounded)
			continue
		}

		d, err := toDecimal(value)
		if err != nil {
			return models.ResultsRecord{}, validationError("results.%s is not a number", f.key)
		}
		f.set(&results, d.StringFixed(f.places))
	}
	return results, nil
}

func toDecimal(value any) (decimal.Decimal, error) {
	switch t := value.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, strconv.ErrRange
		}
		return decimal.NewFromFloat(t), nil
	case json.Number:
		return decimal.NewFromString(t.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(t))
	default:
		return decimal.Zero, strconv.ErrSyntax
	}
}
