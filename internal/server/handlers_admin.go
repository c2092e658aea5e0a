package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/careerbridge/careerbridge/internal/db"
	"github.com/careerbridge/careerbridge/internal/server/middleware"
	"github.com/careerbridge/careerbridge/internal/sms"
)

// AdminStatsResponse is the admin dashboard payload.
type AdminStatsResponse struct {
	db.PlatformStats
	StatusBreakdown map[string]int `json:"status_breakdown"`
}

// handleAdminStats gathers the platform counts concurrently.
func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	var resp AdminStatsResponse

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		resp.Students, err = s.db.CountStudents(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Recruiters, err = s.db.CountRecruiters(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Jobs, err = s.db.CountJobs(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Applications, err = s.db.CountApplications(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Interviews, err = s.db.CountInterviews(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Selected, err = s.db.CountSelected(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Admins, err = s.db.CountAdmins(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.LoginsToday, err = s.db.CountLoginsToday(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.NeverLoggedIn, err = s.db.CountNeverLoggedIn(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.RecentRegistrations, err = s.db.CountRecentRegistrations(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.StatusBreakdown, err = s.db.ApplicationStatusBreakdown(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleAdminListUsers lists accounts, optionally filtered by ?role=.
func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role != "" && role != db.RoleStudent && role != db.RoleRecruiter {
		s.serviceError(w, &ErrValidation{Field: "role", Message: "must be student or recruiter"})
		return
	}
	accounts, err := s.db.ListAccounts(r.Context(), role)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if accounts == nil {
		accounts = []*db.AccountSummary{}
	}
	s.jsonResponse(w, http.StatusOK, accounts)
}

// pathAccount parses the {role}/{id} path segments.
func (s *Server) pathAccount(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	role := r.PathValue("role")
	if role != db.RoleStudent && role != db.RoleRecruiter {
		s.serviceError(w, &ErrValidation{Field: "role", Message: "must be student or recruiter"})
		return "", uuid.Nil, false
	}
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return "", uuid.Nil, false
	}
	return role, id, true
}

// AdminUpdateUserRequest changes an account's identity fields. Password is
// optional; when present it replaces the stored hash without requiring the
// current password.
type AdminUpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// handleAdminUpdateUser updates an account's username, email and phone, and
// optionally resets its password.
func (s *Server) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	role, id, ok := s.pathAccount(w, r)
	if !ok {
		return
	}
	var req AdminUpdateUserRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Phone != "" && !sms.ValidIndianMobile(req.Phone) {
		s.serviceError(w, &ErrValidation{Field: "phone", Message: "must be a 10-digit mobile number starting with 6-9"})
		return
	}

	updated, err := s.db.UpdateAccountIdentity(r.Context(), role, id, req.Username, strings.ToLower(req.Email), strings.TrimSpace(req.Phone))
	if err != nil {
		if db.ViolatedConstraint(err) != "" {
			s.serviceError(w, &ErrConflict{Message: "username, email or phone already in use"})
			return
		}
		s.serviceError(w, err)
		return
	}
	if !updated {
		s.serviceError(w, &ErrAccountNotFound{ID: id})
		return
	}

	if req.Password != "" {
		hash, err := s.accounts.HashNewPassword(req.Password)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		if _, err := s.db.SetAccountPassword(r.Context(), role, id, hash); err != nil {
			s.serviceError(w, err)
			return
		}
	}

	s.audit(r, "admin_user_updated", req.Email, "%s account %s updated", role, id)
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleAdminDeleteUser removes an account. Admins cannot delete themselves.
func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	role, id, ok := s.pathAccount(w, r)
	if !ok {
		return
	}
	if id == identity.UserID {
		s.serviceError(w, &ErrConflict{Message: "cannot delete your own account"})
		return
	}
	deleted, err := s.db.DeleteAccount(r.Context(), role, id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if !deleted {
		s.serviceError(w, &ErrAccountNotFound{ID: id})
		return
	}
	s.audit(r, "admin_user_deleted", "", "%s account %s deleted", role, id)
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AdminSetAdminRequest grants or revokes admin rights.
type AdminSetAdminRequest struct {
	IsAdmin *bool `json:"is_admin" validate:"required"`
}

// handleAdminSetAdmin toggles the admin flag on an account. Admins cannot
// revoke their own access.
func (s *Server) handleAdminSetAdmin(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	role, id, ok := s.pathAccount(w, r)
	if !ok {
		return
	}
	var req AdminSetAdminRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if id == identity.UserID && !*req.IsAdmin {
		s.serviceError(w, &ErrConflict{Message: "cannot revoke your own admin access"})
		return
	}
	updated, err := s.db.SetAccountAdmin(r.Context(), role, id, *req.IsAdmin)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if !updated {
		s.serviceError(w, &ErrAccountNotFound{ID: id})
		return
	}
	action := "revoked"
	if *req.IsAdmin {
		action = "granted"
	}
	s.audit(r, "admin_rights_changed", "", "admin rights %s for %s account %s", action, role, id)
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleAdminAudit lists audit events, optionally filtered by ?type=.
func (s *Server) handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	eventType := r.URL.Query().Get("type")
	limit := queryInt(r, "limit", 100, 500)
	events, err := s.db.ListAuditEvents(r.Context(), eventType, limit)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if events == nil {
		events = []*db.AuditEvent{}
	}
	s.jsonResponse(w, http.StatusOK, events)
}

// handleAdminActivity returns the per-day audit event counts.
func (s *Server) handleAdminActivity(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7, 90)
	series, err := s.db.AuditActivitySeries(r.Context(), days)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"days": days, "activity": series})
}
