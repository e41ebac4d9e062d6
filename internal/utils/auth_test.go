package utils

import (
	"testing"

	"github.com/flowline-app/flowmsgo/internal/config"
	"github.com/flowline-app/flowmsgo/internal/models"
)

func TestPasswordHashing(t *testing.T) {
	password := "1234567"

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
	cfg := &config.Config{
		JWTSecret: "test-secret-key-12345",
	}

	user := &models.UserAccount{
		ID:       "uuid-1234",
		Username: "superadmin",
		Role:     models.RoleSuperAdmin,
	}

	accessToken, refreshToken, err := GenerateTokens(user, cfg)
	if err != nil {
		t.Fatalf("Failed to generate tokens: %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Error("Tokens should not be empty")
	}

	claims, err := ValidateToken(accessToken, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if claims["id"] != user.ID {
		t.Errorf("Expected user ID %s, got %v", user.ID, claims["id"])
	}
	if claims["username"] != user.Username {
		t.Errorf("Expected username %s, got %v", user.Username, claims["username"])
	}
	if claims["role"] != user.Role {
		t.Errorf("Expected role %s, got %v", user.Role, claims["role"])
	}

	if _, err := ValidateToken(accessToken, "wrong-key"); err == nil {
		t.Error("Validation should fail with wrong key")
	}
}

func TestRefreshToken(t *testing.T) {
	cfg := &config.Config{
		JWTSecret: "test-secret-key-12345",
	}
	user := &models.UserAccount{
		ID:       "uuid-1234",
		Username: "superadmin",
		Role:     models.RoleSuperAdmin,
	}

	_, refreshToken, err := GenerateTokens(user, cfg)
	if err != nil {
		t.Fatalf("Failed to generate tokens: %v", err)
	}

	// The refresh exchange validates the token and resolves the account by
	// the id claim, so that claim must be present and typed as a string.
	claims, err := ValidateToken(refreshToken, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to validate refresh token: %v", err)
	}
	id, ok := claims["id"].(string)
	if !ok || id != user.ID {
		t.Errorf("Expected id claim %s, got %v", user.ID, claims["id"])
	}

	if _, err := ValidateToken(refreshToken, "wrong-key"); err == nil {
		t.Error("Validation should fail with wrong key")
	}
}
