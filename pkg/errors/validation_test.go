package errors

import (
	"strings"
	"testing"
)

func TestValidateElementID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"default container", "background-container", false},
		{"underscore", "bg_layer", false},
		{"single letter", "a", false},

		{"empty", "", true},
		{"too long", "a" + strings.Repeat("b", 64), true},
		{"leading digit", "1container", true},
		{"space", "background container", true},
		{"quote", `bg"onload`, true},
		{"selector chars", "bg>svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateElementID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateElementID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("ValidateElementID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}

func TestValidateAttributeValue(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"hex color", "#fbbf24", false},
		{"named color", "rebeccapurple", false},
		{"path data", "M 50 20 L 150 20 Z", false},

		{"empty", "", true},
		{"double quote", `#fff" onclick="x`, true},
		{"single quote", "#fff'", true},
		{"angle bracket", "<script>", true},
		{"ampersand", "a&b", true},
		{"newline", "M 0 0\nL 1 1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttributeValue(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAttributeValue(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
