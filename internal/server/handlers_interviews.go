package server

import (
	"net/http"
	"time"

	"github.com/careerbridge/careerbridge/internal/db"
	"github.com/careerbridge/careerbridge/internal/server/middleware"
)

// ScheduleInterviewRequest sets up an interview for an application.
type ScheduleInterviewRequest struct {
	ScheduledAt   string `json:"scheduled_at" validate:"required"`
	Location      string `json:"location" validate:"required,max=200"`
	InterviewType string `json:"interview_type" validate:"required,oneof=Technical HR Managerial Other"`
	Details       string `json:"details" validate:"max=2000"`
	// ForSelected schedules a follow-up round for an already Selected
	// candidate without changing the application status.
	ForSelected bool `json:"for_selected"`
}

// handleScheduleInterview books an interview for an application on one of
// the caller's jobs. The application moves to Interview Scheduled.
func (s *Server) handleScheduleInterview(w http.ResponseWriter, r *http.Request) {
	app, identity, ok := s.accessibleApplication(w, r)
	if !ok {
		return
	}
	if identity.Role != db.RoleRecruiter && !identity.IsAdmin {
		s.serviceError(w, &ErrForbidden{Message: "only recruiters schedule interviews"})
		return
	}

	var req ScheduleInterviewRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		s.serviceError(w, &ErrValidation{Field: "scheduled_at", Message: "must be an RFC 3339 timestamp"})
		return
	}
	if scheduledAt.Before(time.Now()) {
		s.serviceError(w, &ErrValidation{Field: "scheduled_at", Message: "must be in the future"})
		return
	}

	if req.ForSelected {
		if app.Status != db.StatusSelected {
			s.serviceError(w, &ErrConflict{Message: "application is not Selected"})
			return
		}
	} else {
		if app.Status != db.StatusApplied && app.Status != db.StatusShortlisted {
			s.serviceError(w, &ErrConflict{Message: "application is not awaiting an interview"})
			return
		}
		if app.InterviewID != nil {
			s.serviceError(w, &ErrConflict{Message: "interview already scheduled"})
			return
		}
	}

	id, err := s.db.CreateInterview(r.Context(), &db.InterviewInput{
		ApplicationID: app.ID,
		RecruiterID:   identity.UserID,
		ScheduledAt:   scheduledAt,
		Location:      req.Location,
		InterviewType: req.InterviewType,
		Details:       req.Details,
		KeepStatus:    req.ForSelected,
	}, app.JobID, app.StudentID)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.audit(r, "interview_scheduled", "", "interview for %q scheduled at %s", app.JobTitle, scheduledAt.Format(time.RFC3339))
	s.notifier.InterviewScheduled(r.Context(), app, scheduledAt, req.Location)

	created, err := s.db.GetInterview(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

// handleListInterviews lists the caller's interviews, soonest first.
func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	switch identity.Role {
	case db.RoleStudent:
		interviews, err := s.db.ListInterviewsByStudent(r.Context(), identity.UserID)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		if interviews == nil {
			interviews = []*db.Interview{}
		}
		s.jsonResponse(w, http.StatusOK, interviews)
	case db.RoleRecruiter:
		interviews, err := s.db.ListInterviewsByRecruiter(r.Context(), identity.UserID)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		// Selected candidates ride along so the recruiter can book
		// follow-up rounds from the same screen.
		selected, err := s.db.ListSelectedByRecruiter(r.Context(), identity.UserID)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		if interviews == nil {
			interviews = []*db.Interview{}
		}
		if selected == nil {
			selected = []*db.Application{}
		}
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"interviews":          interviews,
			"selected_candidates": selected,
		})
	default:
		s.serviceError(w, &ErrForbidden{Message: "unknown role"})
		return
	}
}

// accessibleInterview loads an interview the caller participates in.
func (s *Server) accessibleInterview(w http.ResponseWriter, r *http.Request) (*db.Interview, *middleware.Identity, bool) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return nil, nil, false
	}
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return nil, nil, false
	}
	iv, err := s.db.GetInterview(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return nil, nil, false
	}
	if iv == nil {
		s.serviceError(w, &ErrNotFound{Resource: "interview"})
		return nil, nil, false
	}
	if identity.IsAdmin || iv.StudentID == identity.UserID || iv.RecruiterID == identity.UserID {
		return iv, identity, true
	}
	s.serviceError(w, &ErrForbidden{Message: "not your interview"})
	return nil, nil, false
}

// handleGetInterview returns one interview.
func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	iv, _, ok := s.accessibleInterview(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, iv)
}

// InterviewResultRequest records the outcome of a completed interview.
type InterviewResultRequest struct {
	Result   string `json:"result" validate:"required,oneof=Pass Fail"`
	Feedback string `json:"feedback" validate:"max=2000"`
}

// handleInterviewResult records Pass or Fail. Pass selects the candidate,
// Fail rejects the application.
func (s *Server) handleInterviewResult(w http.ResponseWriter, r *http.Request) {
	iv, identity, ok := s.accessibleInterview(w, r)
	if !ok {
		return
	}
	if iv.RecruiterID != identity.UserID && !identity.IsAdmin {
		s.serviceError(w, &ErrForbidden{Message: "only the scheduling recruiter records results"})
		return
	}
	if iv.Status != db.InterviewScheduled {
		s.serviceError(w, &ErrConflict{Message: "interview already completed or cancelled"})
		return
	}

	var req InterviewResultRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if err := s.db.CompleteInterview(r.Context(), iv.ID, req.Result, req.Feedback, identity.UserID); err != nil {
		s.serviceError(w, err)
		return
	}

	status := db.StatusRejected
	if req.Result == db.ResultPass {
		status = db.StatusSelected
	}
	if app, err := s.db.GetApplication(r.Context(), iv.ApplicationID); err == nil && app != nil {
		s.notifier.ApplicationStatusChanged(r.Context(), app, status)
	}
	s.audit(r, "interview_completed", "", "interview for %q recorded as %s", iv.JobTitle, req.Result)

	updated, err := s.db.GetInterview(r.Context(), iv.ID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}
