package auth

import (
	"testing"
	"time"

	"lexfirm-backend/internal/models"
)

const testSecret = "test-secret-test-secret-test-secret!"

func testUser() *models.User {
	lawyerID := uint(7)
	return &models.User{
		ID:       42,
		Email:    "a@firm.test",
		Role:     models.RoleLawyer,
		LawyerID: &lawyerID,
	}
}

func TestGenerateAndParse(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(testSecret, testUser(), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken(testSecret, tok)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id mismatch: got %d want 42", claims.UserID)
	}
	if claims.Role != models.RoleLawyer {
		t.Fatalf("role mismatch: got %q", claims.Role)
	}
	if claims.LawyerID == nil || *claims.LawyerID != 7 {
		t.Fatalf("lawyer id mismatch: got %v", claims.LawyerID)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti claim")
	}
}

func TestParseExpiredToken(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(testSecret, testUser(), -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	if _, err := ParseToken(testSecret, tok); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(testSecret, testUser(), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	if _, err := ParseToken("another-secret-another-secret-secret", tok); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseToken(testSecret, "not.a.jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
