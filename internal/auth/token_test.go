package auth

import (
	"errors"
	"testing"
	"time"

	"smarttest-quiz-service/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue("u1", "ana@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "ana@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestVerifyFailures(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	if _, err := issuer.Verify(""); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected missing token, got %v", err)
	}
	if _, err := issuer.Verify("not.a.token"); err != domain.ErrInvalidToken {
		t.Fatalf("expected the bare invalid token error, got %v", err)
	}

	other := NewTokenIssuer("other-secret", time.Hour)
	token, _ := other.Issue("u1", "a@b.c")
	if _, err := issuer.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected invalid signature error, got %v", err)
	}

	past := time.Now().Add(-48 * time.Hour)
	stale := NewTokenIssuer("secret", 24*time.Hour)
	stale.now = func() time.Time { return past }
	token, _ = stale.Issue("u1", "a@b.c")
	if _, err := issuer.Verify(token); !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("expected expired token, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "hunter22") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("expected mismatch")
	}
}
