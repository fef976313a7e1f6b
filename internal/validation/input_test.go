package validation

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"a.b+c@sub.example.org", true},
		{"", false},
		{"userexample.com", false},
		{"@example.com", false},
		{"user@", false},
		{"user@example", false},
		{"user@example.", false},
		{"user@@example.com", false},
		{"us er@example.com", false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestIsValidPublicationYear(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{2024, true},
		{1000, true},
		{9999, true},
		{999, false},
		{10000, false},
		{0, false},
		{-1, false},
	}

	for _, tt := range tests {
		if got := IsValidPublicationYear(tt.year); got != tt.want {
			t.Errorf("IsValidPublicationYear(%d) = %v, want %v", tt.year, got, tt.want)
		}
	}
}
