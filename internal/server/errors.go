// Package server provides the HTTP REST API for the placement platform.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrEmailAlreadyExists indicates the email is already registered for the role.
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrUsernameAlreadyExists indicates the username is taken for the role.
type ErrUsernameAlreadyExists struct {
	Username string
}

func (e *ErrUsernameAlreadyExists) Error() string {
	return fmt.Sprintf("username already taken: %s", e.Username)
}

// ErrInvalidCredentials indicates invalid login credentials.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrAccountNotFound indicates the account was not found.
type ErrAccountNotFound struct {
	ID uuid.UUID
}

func (e *ErrAccountNotFound) Error() string {
	return fmt.Sprintf("account not found: %s", e.ID)
}

// ErrPasswordMismatch indicates the current password is incorrect.
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrWeakPassword indicates the password fails the strength policy.
type ErrWeakPassword struct{}

func (e *ErrWeakPassword) Error() string {
	return "password must be at least 8 characters and include an uppercase letter, a lowercase letter and a digit"
}

// ErrValidation indicates a request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrForbidden indicates the caller may not perform the operation.
type ErrForbidden struct {
	Message string
}

func (e *ErrForbidden) Error() string {
	if e.Message == "" {
		return "forbidden"
	}
	return e.Message
}

// ErrNotFound indicates a missing resource of any kind.
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ErrConflict indicates a state conflict, such as applying twice to a job.
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// ErrNotEligible indicates the student does not meet the job's criteria.
type ErrNotEligible struct {
	Reasons []string
}

func (e *ErrNotEligible) Error() string {
	return "not eligible for this job"
}

// HTTPStatus maps a service error to its HTTP status code.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists, *ErrUsernameAlreadyExists, *ErrConflict:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrPasswordMismatch:
		return http.StatusUnauthorized
	case *ErrAccountNotFound, *ErrNotFound:
		return http.StatusNotFound
	case *ErrValidation, *ErrWeakPassword:
		return http.StatusBadRequest
	case *ErrForbidden, *ErrNotEligible:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
