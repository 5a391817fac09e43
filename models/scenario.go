package models

import (
	"time"
)

// Scenario is a named snapshot of simulation inputs and the results they produced
type Scenario struct {
	ID        int64         `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Inputs    MetricsInput  `db:"inputs" json:"inputs"`
	Results   ResultsRecord `db:"results" json:"results"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt"`
}

// ScenarioSummary is the listing projection of a Scenario
type ScenarioSummary struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
