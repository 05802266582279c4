package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFlexibleBool(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want bool
	}{
		{"native true", true, true},
		{"native false", false, false},
		{"string true", "true", true},
		{"string false", "false", false},
		{"string mixed case", "TRUE", true},
		{"string padded", " true ", true},
		{"garbage string", "yes", false},
		{"number", float64(1), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFlexibleBool(tt.in))
		})
	}
}
