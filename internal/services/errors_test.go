package services_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"leadradar/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternal, "llm", "complete", "request failed", base)
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"llm", "complete", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.Validation("bad"), http.StatusBadRequest},
		{services.Wrap(services.ErrNotFound, "store", "get", "missing", nil), http.StatusNotFound},
		{services.Wrap(services.ErrUnauthorized, "auth", "login", "bad credentials", nil), http.StatusUnauthorized},
		{errors.New("disk on fire"), http.StatusInternalServerError},
		{nil, http.StatusOK},
	}
	for _, tc := range cases {
		if got := services.HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestPublicMessageStripsMarker(t *testing.T) {
	if got := services.PublicMessage(services.Validation("keywords must be a list")); got != "keywords must be a list" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := services.PublicMessage(errors.New("plain")); got != "plain" {
		t.Fatalf("unexpected message: %q", got)
	}
}
