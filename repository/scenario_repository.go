package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"roicalc/database"
	"roicalc/models"
)

// ScenarioRepository implements the ScenarioRepository interface
type ScenarioRepository struct {
	q queryable
}

// NewScenarioRepository creates a new scenario repository
func NewScenarioRepository(db *database.DB) *ScenarioRepository {
	return &ScenarioRepository{q: db}
}

// Create stores a scenario and returns it with its assigned id and creation time
func (r *ScenarioRepository) Create(ctx context.Context, name string, inputs models.MetricsInput, results models.ResultsRecord) (*models.Scenario, error) {
	inputsJSON, err := models.MarshalVersioned(inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scenario inputs: %w", err)
	}

	resultsJSON, err := models.MarshalVersioned(results)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scenario results: %w", err)
	}

	query := `
		INSERT INTO scenarios (name, inputs, results)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	scenario := &models.Scenario{
		Name:    name,
		Inputs:  inputs,
		Results: results,
	}

	err = r.q.QueryRow(ctx, query, name, inputsJSON, resultsJSON).Scan(&scenario.ID, &scenario.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario %q: %w", name, err)
	}

	return scenario, nil
}

// List returns summaries of all scenarios, newest first
func (r *ScenarioRepository) List(ctx context.Context) ([]*models.ScenarioSummary, error) {
	query := `
		SELECT id, name
		FROM scenarios
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	summaries := []*models.ScenarioSummary{}
	for rows.Next() {
		var summary models.ScenarioSummary
		if err := rows.Scan(&summary.ID, &summary.Name); err != nil {
			return nil, fmt.Errorf("failed to scan scenario summary: %w", err)
		}
		summaries = append(summaries, &summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scenario rows: %w", err)
	}

	return summaries, nil
}

// GetByID returns the scenario with the given id, or nil if none exists
func (r *ScenarioRepository) GetByID(ctx context.Context, id int64) (*models.Scenario, error) {
	query := `
		SELECT id, name, inputs, results, created_at
		FROM scenarios
		WHERE id = $1
	`

	var scenario models.Scenario
	var inputsJSON, resultsJSON []byte

	err := r.q.QueryRow(ctx, query, id).Scan(
		&scenario.ID,
		&scenario.Name,
		&inputsJSON,
		&resultsJSON,
		&scenario.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario %d: %w", id, err)
	}

	if _, err := models.UnmarshalVersioned(inputsJSON, &scenario.Inputs); err != nil {
		return nil, fmt.Errorf("failed to decode inputs of scenario %d: %w", id, err)
	}
	if _, err := models.UnmarshalVersioned(resultsJSON, &scenario.Results); err != nil {
		return nil, fmt.Errorf("failed to decode results of scenario %d: %w", id, err)
	}

	return &scenario, nil
}

// Delete removes the scenario with the given id and returns the number of rows removed
func (r *ScenarioRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete scenario %d: %w", id, err)
	}
	return tag.RowsAffected(), nil
}
