package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDOB(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", "None"},
		{"eight digits", "19800115", "1980-01-15"},
		{"wrong length passes through", "1980", "1980"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDOB(tt.input))
		})
	}
}
