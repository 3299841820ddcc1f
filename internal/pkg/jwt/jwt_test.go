package jwt

import (
	"testing"
	"time"
)

func TestSignParseRoundTrip(t *testing.T) {
	token, err := Sign("web", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Surface != "web" {
		t.Errorf("surface = %q, want web", claims.Surface)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := Sign("web", -time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := Parse(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("not.a.token"); err == nil {
		t.Error("malformed token accepted")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := Sign("web", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	SetSecret("a-different-secret")
	defer SetSecret(defaultSecret)

	if _, err := Parse(token); err == nil {
		t.Error("token signed with the old secret accepted")
	}
}
