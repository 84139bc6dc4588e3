package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Unauthorized("no"), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{Internal("boom", errors.New("db down")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFound("post not found")), http.StatusNotFound},
	}
	for _, tc := range cases {
		if got := CodeOf(tc.err); got != tc.want {
			t.Fatalf("CodeOf(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestInternalKeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Internal("Server error", cause)
	if err.Error() != "Server error" {
		t.Fatalf("message leaked cause: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be unwrappable")
	}
}
