package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"email exists", &ErrEmailAlreadyExists{Email: "a@b.com"}, http.StatusConflict},
		{"username exists", &ErrUsernameAlreadyExists{Username: "alice"}, http.StatusConflict},
		{"conflict", &ErrConflict{Message: "already applied"}, http.StatusConflict},
		{"invalid credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"password mismatch", &ErrPasswordMismatch{}, http.StatusUnauthorized},
		{"account not found", &ErrAccountNotFound{}, http.StatusNotFound},
		{"not found", &ErrNotFound{Resource: "job"}, http.StatusNotFound},
		{"validation", &ErrValidation{Field: "email", Message: "bad"}, http.StatusBadRequest},
		{"weak password", &ErrWeakPassword{}, http.StatusBadRequest},
		{"forbidden", &ErrForbidden{}, http.StatusForbidden},
		{"not eligible", &ErrNotEligible{Reasons: []string{"deadline_passed"}}, http.StatusForbidden},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
