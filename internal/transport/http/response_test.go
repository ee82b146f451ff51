package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"smarttest-quiz-service/internal/domain"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: %q", domain.ErrUnknownSubject, "x"), http.StatusBadRequest},
		{domain.ErrInvalidSubmission, http.StatusBadRequest},
		{domain.ErrDuplicateEmail, http.StatusBadRequest},
		{domain.ErrMissingToken, http.StatusUnauthorized},
		{fmt.Errorf("%w: bad signature", domain.ErrInvalidToken), http.StatusForbidden},
		{domain.ErrExpiredToken, http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{errors.New("db exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, got)
		}
	}
}

func TestBearerToken(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	if bearerToken(r) != "" {
		t.Fatalf("expected empty token")
	}
	r.Header.Set("Authorization", "bearer abc.def")
	if got := bearerToken(r); got != "abc.def" {
		t.Fatalf("unexpected token %q", got)
	}
	r.Header.Set("Authorization", "Basic zzz")
	if bearerToken(r) != "" {
		t.Fatalf("basic auth must not count as bearer")
	}
}
