package models

import (
	"time"
)

// Lead is an email address captured when a report is requested
type Lead struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
