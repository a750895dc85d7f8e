package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatusFromLegacy(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"complete", JobStatusCompleted},
		{"booked", JobStatusAssigned},
		{"publish", JobStatusOpen},
		{"", JobStatusOpen},
		{"draft", JobStatusOpen},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JobStatusFromLegacy(tt.value), "value %q", tt.value)
	}
}

func TestParseDayRate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
		valid bool
	}{
		{"plain integer", "3500", "3500", true},
		{"decimal", "450.50", "450.5", true},
		{"currency symbol and space", "R 3500", "3500", true},
		{"thousands separator", "R 3,500.00", "3500", true},
		{"unit suffix", "R3500/day", "3500", true},
		{"empty", "", "", false},
		{"prose", "negotiable", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDayRate(tt.value)
			require.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.Equal(t, tt.want, got.Decimal.String())
			}
		})
	}
}
