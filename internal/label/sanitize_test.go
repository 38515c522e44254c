package label

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeKeyPart(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		wantChanged bool
	}{
		{
			name:        "plain identifier passes through",
			input:       "user42",
			want:        "user42",
			wantChanged: false,
		},
		{
			name:        "email keeps shape but loses dots",
			input:       "alice@example.com",
			want:        "alice@example_com",
			wantChanged: true,
		},
		{
			name:        "path traversal is neutralized",
			input:       "../../etc/passwd",
			want:        "______etc_passwd",
			wantChanged: true,
		},
		{
			name:        "backslashes are neutralized",
			input:       `..\..\secrets`,
			want:        "______secrets",
			wantChanged: true,
		},
		{
			name:        "percent encoding is decoded first",
			input:       "alice%2Fsmith",
			want:        "alice_smith",
			wantChanged: true,
		},
		{
			name:        "invalid percent encoding falls back to raw",
			input:       "100%",
			want:        "100_",
			wantChanged: true,
		},
		{
			name:        "nul byte is neutralized",
			input:       "user\x00name",
			want:        "user_name",
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := SanitizeKeyPart(tt.input)
			if err != nil {
				t.Fatalf("SanitizeKeyPart(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("SanitizeKeyPart(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if changed != tt.wantChanged {
				t.Errorf("SanitizeKeyPart(%q) changed = %v, want %v", tt.input, changed, tt.wantChanged)
			}
			if strings.ContainsAny(got, "/\\.%") {
				t.Errorf("SanitizeKeyPart(%q) = %q still contains key-structure characters", tt.input, got)
			}
		})
	}
}

func TestSanitizeKeyPart_Idempotent(t *testing.T) {
	inputs := []string{
		"user42",
		"alice@example.com",
		"../../etc/passwd",
		"alice%2Fsmith",
		"100%",
		"sample_with_underscore_123",
	}

	for _, input := range inputs {
		once, _, err := SanitizeKeyPart(input)
		if err != nil {
			t.Fatalf("SanitizeKeyPart(%q) error = %v", input, err)
		}
		twice, changed, err := SanitizeKeyPart(once)
		if err != nil {
			t.Fatalf("SanitizeKeyPart(%q) error = %v", once, err)
		}
		if twice != once {
			t.Errorf("sanitize not idempotent for %q: %q != %q", input, twice, once)
		}
		if changed {
			t.Errorf("second sanitize of %q reported a change", input)
		}
	}
}

func TestSanitizeKeyPart_RejectsEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		_, _, err := SanitizeKeyPart(input)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("SanitizeKeyPart(%q) error = %v, want ErrInvalidInput", input, err)
		}
	}
}
