package jwtutil

import (
	"testing"

	"chalan-service/pkg/config"
)

func TestGenerateAndValidateToken(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 168})

	token, err := GenerateToken(42, "admin", "root", true)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "admin" || claims.Role != "root" || !claims.IsRoot {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "key-one", ExpirationHours: 1})
	token, err := GenerateToken(1, "user", "add-only", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	Initialize(&config.JWTConfig{SigningKey: "key-two", ExpirationHours: 1})
	if _, err := ValidateToken(token); err == nil {
		t.Fatal("expected validation failure with a different signing key")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: -1})
	token, err := GenerateToken(1, "user", "edit", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ValidateToken(token); err == nil {
		t.Fatal("expected validation failure for expired token")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Fatal("expected validation failure for malformed token")
	}
}
