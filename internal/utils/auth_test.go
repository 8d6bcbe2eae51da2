package utils

import (
	"testing"
)

func TestPasswordHashing(t *testing.T) {
	password := "secret123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == password {
		t.Error("Hash should not match plaintext password")
	}
	if len(hash) == 0 {
		t.Error("Hash should not be empty")
	}

	if !CheckPasswordHash(password, hash) {
		t.Error("Password should match hash")
	}

	if CheckPasswordHash("wrongpassword", hash) {
		t.Error("Wrong password should not match hash")
	}
}

func TestJWT(t *testing.T) {
	secret := "test-secret-key-12345"

	token, err := GenerateToken("uuid-1234", "test@example.com", secret)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if token == "" {
		t.Error("Token should not be empty")
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims.SellerID != "uuid-1234" {
		t.Errorf("Expected seller id uuid-1234, got %s", claims.SellerID)
	}
	if claims.Email != "test@example.com" {
		t.Errorf("Expected email test@example.com, got %s", claims.Email)
	}

	if _, err := ValidateToken(token, "wrong-secret"); err == nil {
		t.Error("Validation should fail with the wrong secret")
	}

	if _, err := ValidateToken("not-a-token", secret); err == nil {
		t.Error("Validation should fail for a malformed token")
	}
}
