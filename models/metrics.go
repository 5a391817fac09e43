package models

// MetricsInput holds the operating metrics of a manual invoice-processing workflow
type MetricsInput struct {
	MonthlyInvoiceVolume      float64 `json:"monthlyInvoiceVolume"`
	APStaffCount              float64 `json:"apStaffCount"`
	AvgHoursPerInvoice        float64 `json:"avgHoursPerInvoice"`
	HourlyWage                float64 `json:"hourlyWage"`
	ManualErrorRatePercent    float64 `json:"manualErrorRatePercent"`
	ErrorCost                 float64 `json:"errorCost"`
	TimeHorizonMonths         float64 `json:"timeHorizonMonths"`
	OneTimeImplementationCost float64 `json:"oneTimeImplementationCost"`
}

// ROIUnbounded is reported in place of a percentage when there is no implementation cost
const ROIUnbounded = "Infinity"

// ResultsRecord holds projected savings derived from a MetricsInput.
// Figures are fixed-precision decimal strings: currency and ROI carry two
// decimals, payback carries one.
type ResultsRecord struct {
	MonthlySavings    string `json:"monthlySavings"`
	CumulativeSavings string `json:"cumulativeSavings"`
	NetSavings        string `json:"netSavings"`
	PaybackMonths     string `json:"paybackMonths"`
	ROIPercentage     string `json:"roiPercentage"`
}

// EmptyResults is returned when the inputs are too degenerate to simulate
func EmptyResults() ResultsRecord {
	return ResultsRecord{
		MonthlySavings:    "0.00",
		CumulativeSavings: "0.00",
		NetSavings:        "0.00",
		PaybackMonths:     "0.0",
		ROIPercentage:     "0.00",
	}
}

// IsEmpty reports whether no figure is set at all
func (r ResultsRecord) IsEmpty() bool {
	return r == ResultsRecord{}
}

// HasUnboundedROI reports whether the ROI is the unbounded sentinel
func (r ResultsRecord) HasUnboundedROI() bool {
	return r.ROIPercentage == ROIUnbounded
}
