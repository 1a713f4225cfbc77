package utils

import (
	"testing"
	"time"
)

func TestJWT(t *testing.T) {
	secret := "supersecret"
	userID := "8d0f6a4e-1c2b-4f57-9d1e-3b8a2c7e5f10"
	role := "authenticated"

	token, err := GenerateToken(userID, role, secret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("Expected UserID %s, got %s", userID, claims.UserID)
	}

	if claims.Role != role {
		t.Errorf("Expected Role %s, got %s", role, claims.Role)
	}

	_, err = ValidateToken(token, "wrongsecret")
	if err == nil {
		t.Errorf("Expected error with wrong secret")
	}
}

func TestToJalali(t *testing.T) {
	tests := []struct {
		date             time.Time
		year, month, day int
	}{
		{date: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), year: 1403, month: 1, day: 1},
		{date: time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC), year: 1404, month: 1, day: 1},
		{date: time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC), year: 1402, month: 12, day: 29},
	}

	for _, tt := range tests {
		y, m, d := ToJalali(tt.date)
		if y != tt.year || m != tt.month || d != tt.day {
			t.Errorf("ToJalali(%s) = %d/%d/%d, want %d/%d/%d", tt.date.Format(time.DateOnly), y, m, d, tt.year, tt.month, tt.day)
		}
	}
}

func TestFormatPersianDate(t *testing.T) {
	got := FormatPersianDate(time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC))
	if got != "۱۴۰۳/۱/۱" {
		t.Fatalf("Expected ۱۴۰۳/۱/۱, got %s", got)
	}
}
