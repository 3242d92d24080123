package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBloodTypeFilter(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"O+", "O+"},
		{" o- ", "O-"},
		{"O ", "O+"},
		{"AB ", "AB+"},
		{"ab+", "AB+"},
		{"O", "O"},
		{"Z ", "Z"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeBloodTypeFilter(tt.raw), "raw %q", tt.raw)
	}
}
