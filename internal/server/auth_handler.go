package server

import (
	"net/http"

	"github.com/careerbridge/careerbridge/internal/db"
	"github.com/careerbridge/careerbridge/internal/server/middleware"
)

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the payload for account login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest is the payload for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// AuthResponse carries the account and its access token.
type AuthResponse struct {
	Account *Account `json:"account"`
	Token   string   `json:"token"`
}

func pathRole(r *http.Request) (string, bool) {
	role := r.PathValue("role")
	return role, role == db.RoleStudent || role == db.RoleRecruiter
}

// handleRegister creates a student or recruiter account, per the {role}
// path segment, and returns a token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	role, ok := pathRole(r)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "unknown role")
		return
	}

	var req RegisterRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	account, err := s.accounts.Register(r.Context(), role, req.Username, req.Email, req.Password)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.audit(r, "register", account.Email, "%s account registered", role)

	token, err := s.jwtService.GenerateToken(account.ID, account.Role, account.IsAdmin)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	s.jsonResponse(w, http.StatusCreated, AuthResponse{Account: account, Token: token})
}

// handleLogin authenticates an account and returns a token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	role, ok := pathRole(r)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "unknown role")
		return
	}

	var req LoginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	account, err := s.accounts.Login(r.Context(), role, req.Email, req.Password)
	if err != nil {
		if _, bad := err.(*ErrInvalidCredentials); bad {
			s.audit(r, "login_failed", req.Email, "failed %s login", role)
		}
		s.serviceError(w, err)
		return
	}

	s.audit(r, "login", account.Email, "%s logged in", role)

	token, err := s.jwtService.GenerateToken(account.ID, account.Role, account.IsAdmin)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	s.jsonResponse(w, http.StatusOK, AuthResponse{Account: account, Token: token})
}

// handleChangePassword updates the authenticated account's password.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ChangePasswordRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if err := s.accounts.ChangePassword(r.Context(), identity.Role, identity.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}
