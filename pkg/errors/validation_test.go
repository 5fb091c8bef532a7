package errors

import (
	"strings"
	"testing"
)

func TestValidateEntrypoint(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"readme", "README.md", false},
		{"nested", "docs/guide/index.md", false},
		{"upper ext", "NOTES.MD", false},
		{"parent dir", "../other/README.md", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxPathLength) + ".md", true},
		{"null byte", "foo\x00.md", true},
		{"newline", "foo\n.md", true},
		{"not markdown", "README.txt", true},
		{"no ext", "README", true},
		{"dotfile", ".md", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntrypoint(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEntrypoint(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !IsUsage(err) {
				t.Errorf("ValidateEntrypoint(%q) should be a usage error, got code %q", tt.input, GetCode(err))
			}
		})
	}
}

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"glob", "*.draft.md", false},
		{"negation", "!important.draft.md", false},
		{"directory", "vendor/", false},
		{"double star", "**/tmp/**", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"bare bang", "!", true},
		{"comment", "# drafts", true},
		{"control", "a\x01b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePattern(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePattern(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateConcurrency(t *testing.T) {
	for _, n := range []int{1, 10, 100} {
		if err := ValidateConcurrency(n); err != nil {
			t.Errorf("ValidateConcurrency(%d) = %v, want nil", n, err)
		}
	}
	for _, n := range []int{0, -1, 101} {
		err := ValidateConcurrency(n)
		if err == nil {
			t.Errorf("ValidateConcurrency(%d) = nil, want error", n)
			continue
		}
		if !Is(err, ErrCodeInvalidConfig) {
			t.Errorf("ValidateConcurrency(%d) code = %q, want %q", n, GetCode(err), ErrCodeInvalidConfig)
		}
	}
}
