package login

import "testing"

func TestValidMobile(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"valid leading 9", "9876543210", true},
		{"valid leading 6", "6000000000", true},
		{"leading 5 rejected", "5876543210", false},
		{"too short", "987654321", false},
		{"too long", "98765432100", false},
		{"letters rejected", "98765abc10", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidMobile(tt.in); got != tt.want {
				t.Errorf("ValidMobile(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidOTP(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"valid", "123456", true},
		{"leading zeros ok", "000123", true},
		{"too short", "12345", false},
		{"too long", "1234567", false},
		{"letters rejected", "12a456", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidOTP(tt.in); got != tt.want {
				t.Errorf("ValidOTP(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
