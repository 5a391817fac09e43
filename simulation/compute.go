// Package simulation projects the savings of automating a manual
// invoice-processing workflow.
package simulation

import (
	"math"

	"github.com/shopspring/decimal"

	"roicalc/models"
)

var hundred = decimal.NewFromInt(100)

// Compute maps a set of operating metrics to projected savings.
//
// The computation is pure and deterministic. Arithmetic is carried out in
// decimal and rounded once when the record is built, so downstream consumers
// never re-round. Non-finite inputs are treated as zero.
func Compute(in models.MetricsInput) models.ResultsRecord {
	volume := fromFloat(in.MonthlyInvoiceVolume)
	staff := fromFloat(in.APStaffCount)
	hours := fromFloat(in.AvgHoursPerInvoice)
	wage := fromFloat(in.HourlyWage)
	errorRate := fromFloat(in.ManualErrorRatePercent)
	errorCost := fromFloat(in.ErrorCost)
	horizon := fromFloat(in.TimeHorizonMonths)
	implementation := fromFloat(in.OneTimeImplementationCost)

	manualLaborCost := staff.Mul(wage).Mul(hours).Mul(volume)
	automationCost := volume.Mul(decimal.NewFromFloat(AutomatedCostPerInvoice))
	errorSavings := errorRate.Div(hundred).
		Sub(decimal.NewFromFloat(AutomatedErrorRate)).
		Mul(volume).
		Mul(errorCost)

	monthlySavings := manualLaborCost.Add(errorSavings).Sub(automationCost).
		Mul(decimal.NewFromFloat(SavingsBoostFactor))
	cumulativeSavings := monthlySavings.Mul(horizon)
	netSavings := cumulativeSavings.Sub(implementation)

	paybackMonths := decimal.Zero
	if implementation.IsPositive() && monthlySavings.IsPositive() {
		paybackMonths = implementation.Div(monthlySavings)
	}

	roi := models.ROIUnbounded
	if implementation.IsPositive() {
		roi = netSavings.Div(implementation).Mul(hundred).StringFixed(PercentPlaces)
	}

	return models.ResultsRecord{
		MonthlySavings:    monthlySavings.StringFixed(CurrencyPlaces),
		CumulativeSavings: cumulativeSavings.StringFixed(CurrencyPlaces),
		NetSavings:        netSavings.StringFixed(CurrencyPlaces),
		PaybackMonths:     paybackMonths.StringFixed(PaybackPlaces),
		ROIPercentage:     roi,
	}
}

func fromFloat(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
