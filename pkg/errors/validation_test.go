package errors

import (
	"strings"
	"testing"
)

func TestValidateTaskID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "A", false},
		{"valid with dash", "design-review", false},
		{"valid numeric", "12", false},
		{"valid unicode", "ω", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"space", "foo bar", true},
		{"tab", "foo\tbar", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTaskID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTaskID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTask) {
				t.Errorf("ValidateTaskID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidTask)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "tasks.txt", false},
		{"valid nested", "projects/house.toml", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../secret.txt", true},
		{"backslash", "dir\\file.txt", true},
		{"control char", "file\x01.txt", true},
		{"too long", strings.Repeat("a", 600), true},
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
