package simulation

// Pricing assumptions for the automated workflow. They are deliberately
// favorable to automation and are not caller-configurable.
const (
	AutomatedCostPerInvoice = 0.20  // $ charged per invoice processed by the automation
	AutomatedErrorRate      = 0.001 // fraction of invoices still in error once automated (0.1%)
	SavingsBoostFactor      = 1.1   // multiplier applied to monthly savings
)

// Output precision, in decimal places
const (
	CurrencyPlaces = 2
	PaybackPlaces  = 1
	PercentPlaces  = 2
)
