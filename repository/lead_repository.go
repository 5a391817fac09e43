package repository

import (
	"context"
	"fmt"

	"roicalc/database"
	"roicalc/models"
)

// LeadRepository implements the LeadRepository interface
type LeadRepository struct {
	q queryable
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *database.DB) *LeadRepository {
	return &LeadRepository{q: db}
}

// Create appends an email address to the lead log
func (r *LeadRepository) Create(ctx context.Context, email string) (*models.Lead, error) {
	query := `
		INSERT INTO leads (email)
		VALUES ($1)
		RETURNING id, created_at
	`

	lead := &models.Lead{Email: email}
	if err := r.q.QueryRow(ctx, query, email).Scan(&lead.ID, &lead.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	return lead, nil
}
