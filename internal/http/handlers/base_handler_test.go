package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"3f2b1c9e-8d7a-4e6f-9a1b-2c3d4e5f6a7b", true},
		{"trip123", true},
		{"", false},
		{"a/b", false},
		{"trip id", false},
		{string(make([]byte, 65)), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isValidID(tt.id), tt.id)
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Paris-Spring-Break.ics", fileName("Paris: Spring Break!", ".ics"))
	assert.Equal(t, "trip.xlsx", fileName("  ??  ", ".xlsx"))
	assert.Equal(t, "Kyoto_2025.ics", fileName("Kyoto_2025", ".ics"))
	assert.Equal(t, "Sao-Paulo-Cafes.xlsx", fileName("São Paulo Cafés", ".xlsx"))
}
