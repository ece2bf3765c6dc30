package errors

import (
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "data/points.csv", false},
		{"valid absolute", "/tmp/points.csv", false},
		{"valid dash", "out-labels.csv", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 600), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRunID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "7f9c24e5-1fbc-4a3b-9d2e-0a1b2c3d4e5f", false},
		{"valid uppercase", "7F9C24E5-1FBC-4A3B-9D2E-0A1B2C3D4E5F", false},

		{"empty", "", true},
		{"not a uuid", "run-42", true},
		{"truncated", "7f9c24e5-1fbc-4a3b-9d2e", true},
		{"traversal", "../../etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRunID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRunID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSearchRange(t *testing.T) {
	tests := []struct {
		name       string
		smin, smax float64
		wantErr    bool
	}{
		{"valid range", 1e-4, 1.0, false},
		{"auto ceiling", 1e-4, 0, false},
		{"equal bounds", 0.5, 0.5, false},

		{"negative min", -1, 1, true},
		{"negative max", 1e-4, -0.5, true},
		{"inverted", 1.0, 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSearchRange(tt.smin, tt.smax)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSearchRange(%g, %g) error = %v, wantErr %v", tt.smin, tt.smax, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGrowth(t *testing.T) {
	tests := []struct {
		name    string
		growth  float64
		wantErr bool
	}{
		{"typical", 1.2, false},
		{"aggressive", 2, false},

		{"one", 1, true},
		{"below one", 0.9, true},
		{"zero", 0, true},
		{"negative", -1.2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGrowth(tt.growth)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGrowth(%g) error = %v, wantErr %v", tt.growth, err, tt.wantErr)
			}
		})
	}
}
