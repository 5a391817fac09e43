package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructDatabaseURL(t *testing.T) {
	tests := []struct {
		name         string
		baseURL      string
		databaseName string
		expected     string
	}{
		{
			name:     "no database name keeps url",
			baseURL:  "postgres://u:p@localhost:5432/app",
			expected: "postgres://u:p@localhost:5432/app",
		},
		{
			name:         "appends name and sslmode",
			baseURL:      "postgres://u:p@localhost:5432/",
			databaseName: "roicalc",
			expected:     "postgres://u:p@localhost:5432/roicalc?sslmode=disable",
		},
		{
			name:         "keeps existing query parameters",
			baseURL:      "postgres://u:p@localhost:5432?connect_timeout=5",
			databaseName: "roicalc",
			expected:     "postgres://u:p@localhost:5432/roicalc?connect_timeout=5&sslmode=disable",
		},
		{
			name:         "respects explicit sslmode",
			baseURL:      "postgres://u:p@localhost:5432?sslmode=require",
			databaseName: "roicalc",
			expected:     "postgres://u:p@localhost:5432/roicalc?sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConstructDatabaseURL(tt.baseURL, tt.databaseName))
		})
	}
}
