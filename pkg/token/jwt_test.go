package token

import "testing"

func TestGenerateAndVerifyToken(t *testing.T) {
	m := NewJWTManager("test-secret", 1)

	tok, err := m.GenerateToken(7, "admin", "ADMIN")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.VerifyToken(tok)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.AdminID != 7 || claims.Username != "admin" || claims.Role != "ADMIN" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyTokenRejectsForeignSecret(t *testing.T) {
	tok, err := NewJWTManager("secret-a", 1).GenerateToken(1, "admin", "ADMIN")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewJWTManager("secret-b", 1).VerifyToken(tok); err == nil {
		t.Fatalf("expected verification error for token signed with another secret")
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	if _, err := NewJWTManager("s", 1).VerifyToken("not-a-jwt"); err == nil {
		t.Fatalf("expected error")
	}
}
