package security

import (
	"testing"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ParseToken(token, TokenTypeAccess)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("UserID = %d, want 42", claims.UserID)
	}
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	token, err := GenerateRefreshToken(7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	if _, err := ParseToken(token, TokenTypeAccess); err == nil {
		t.Fatal("expected refresh token to be rejected for access use")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("not-a-jwt", TokenTypeAccess); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestHashRefreshTokenStable(t *testing.T) {
	a := HashRefreshToken("token-a")
	if a != HashRefreshToken("token-a") {
		t.Fatal("hash should be deterministic")
	}
	if a == HashRefreshToken("token-b") {
		t.Fatal("different tokens should not collide")
	}
	if len(a) != 64 {
		t.Fatalf("hex sha256 length = %d, want 64", len(a))
	}
}
