package otp

import (
	"regexp"
	"testing"
)

func TestNumeric_Generate(t *testing.T) {
	tests := []struct {
		name   string
		digits int
		want   *regexp.Regexp
	}{
		{name: "default", digits: 0, want: regexp.MustCompile(`^[0-9]{4}$`)},
		{name: "six", digits: 6, want: regexp.MustCompile(`^[0-9]{6}$`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			g := NewNumeric(tt.digits)

			// Act & Assert
			for range 50 {
				code, err := g.Generate()
				if err != nil {
					t.Fatalf("Generate() error = %v", err)
				}
				if !tt.want.MatchString(code) {
					t.Fatalf("Generate() = %q, want %s", code, tt.want)
				}
			}
		})
	}
}

func TestNumeric_Varies(t *testing.T) {
	g := NewNumeric(4)
	seen := map[string]struct{}{}

	for range 200 {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		seen[code] = struct{}{}
	}

	if len(seen) < 50 {
		t.Fatalf("only %d distinct codes out of 200", len(seen))
	}
}
