package testutil

import (
	"roicalc/models"
)

// CreateTestInputs returns inputs for a mid-sized AP team
func CreateTestInputs() models.MetricsInput {
	return models.MetricsInput{
		MonthlyInvoiceVolume:      2000,
		APStaffCount:              3,
		AvgHoursPerInvoice:        0.17,
		HourlyWage:                30,
		ManualErrorRatePercent:    0.5,
		ErrorCost:                 100,
		TimeHorizonMonths:         36,
		OneTimeImplementationCost: 50000,
	}
}

// CreateTestResults returns the results matching CreateTestInputs
func CreateTestResults() models.ResultsRecord {
	return models.ResultsRecord{
		MonthlySavings:    "34100.00",
		CumulativeSavings: "1227600.00",
		NetSavings:        "1177600.00",
		PaybackMonths:     "1.5",
		ROIPercentage:     "2355.20",
	}
}

// CreateTestScenario creates an unsaved scenario with default values
func CreateTestScenario(name string) *models.Scenario {
	return &models.Scenario{
		Name:    name,
		Inputs:  CreateTestInputs(),
		Results: CreateTestResults(),
	}
}

// CreateTestScenarioWithCost creates an unsaved scenario with a specific implementation cost
// and no derived results, for storage tests that do not care about the figures
func CreateTestScenarioWithCost(name string, implementationCost float64) *models.Scenario {
	scenario := CreateTestScenario(name)
	scenario.Inputs.OneTimeImplementationCost = implementationCost
	scenario.Results = models.EmptyResults()
	return scenario
}
