package server

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/careerbridge/careerbridge/internal/db"
	"github.com/careerbridge/careerbridge/internal/eligibility"
	"github.com/careerbridge/careerbridge/internal/resume"
	"github.com/careerbridge/careerbridge/internal/server/middleware"
)

// handleApply submits the student's application to a job. The profile must
// be complete, a resume on file, and the eligibility criteria met.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	jobID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	job, err := s.db.GetJob(r.Context(), jobID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if job == nil {
		s.serviceError(w, &ErrNotFound{Resource: "job"})
		return
	}

	student, err := s.db.GetStudent(r.Context(), identity.UserID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if student == nil {
		s.serviceError(w, &ErrAccountNotFound{ID: identity.UserID})
		return
	}
	if !student.ProfileComplete {
		s.serviceError(w, &ErrConflict{Message: "complete your profile before applying"})
		return
	}
	if student.ResumeKey == "" {
		s.serviceError(w, &ErrForbidden{Message: "upload a resume before applying"})
		return
	}

	result := eligibility.Check(student, job, time.Now())
	if !result.Eligible {
		s.serviceError(w, &ErrNotEligible{Reasons: result.Reasons})
		return
	}

	existing, err := s.db.GetApplicationByJobAndStudent(r.Context(), jobID, student.ID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if existing != nil {
		s.serviceError(w, &ErrConflict{Message: "you have already applied to this job"})
		return
	}

	var cgpa float64
	if student.CGPA != nil {
		cgpa = *student.CGPA
	}
	app := &db.Application{
		JobID:         jobID,
		StudentID:     student.ID,
		StudentName:   student.FullName,
		StudentEmail:  student.Email,
		StudentPhone:  student.Phone,
		StudentCGPA:   cgpa,
		StudentBranch: student.Branch,
		JobTitle:      job.Title,
		CompanyName:   job.CompanyName,
	}
	id, err := s.db.CreateApplication(r.Context(), app)
	if err != nil {
		// Unique constraint covers the apply race.
		if db.ViolatedConstraint(err) != "" {
			s.serviceError(w, &ErrConflict{Message: "you have already applied to this job"})
			return
		}
		s.serviceError(w, err)
		return
	}

	s.audit(r, "application", student.Email, "applied to %q at %s", job.Title, job.CompanyName)

	if recruiter, err := s.db.GetRecruiter(r.Context(), job.RecruiterID); err == nil && recruiter != nil {
		app.ID = id
		s.notifier.ApplicationReceived(r.Context(), recruiter, app)
	}

	created, err := s.db.GetApplication(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

// handleMyApplications lists the student's applications.
func (s *Server) handleMyApplications(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	apps, err := s.db.ListApplicationsByStudent(r.Context(), identity.UserID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if apps == nil {
		apps = []*db.Application{}
	}
	s.jsonResponse(w, http.StatusOK, apps)
}

// ApplicationView decorates an application with the resume file type and,
// on the detail endpoint, the job posting.
type ApplicationView struct {
	*db.Application
	ResumeType string  `json:"resume_type,omitempty"`
	Job        *db.Job `json:"job,omitempty"`
}

// resumeType reports the resume file type by extension, e.g. "pdf".
func resumeType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return strings.TrimPrefix(ext, ".")
}

// handleJobApplications lists applications on a job the caller owns, each
// with the applicant's resume file type.
func (s *Server) handleJobApplications(w http.ResponseWriter, r *http.Request) {
	job, _, ok := s.ownedJob(w, r)
	if !ok {
		return
	}
	apps, err := s.db.ListApplicationsByJob(r.Context(), job.ID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	views := make([]*ApplicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, &ApplicationView{Application: app, ResumeType: resumeType(app.ResumeFilename)})
	}
	s.jsonResponse(w, http.StatusOK, views)
}

// accessibleApplication loads an application and verifies the caller is the
// student, the recruiter who owns the job, or an admin.
func (s *Server) accessibleApplication(w http.ResponseWriter, r *http.Request) (*db.Application, *middleware.Identity, bool) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return nil, nil, false
	}
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return nil, nil, false
	}
	app, err := s.db.GetApplication(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return nil, nil, false
	}
	if app == nil {
		s.serviceError(w, &ErrNotFound{Resource: "application"})
		return nil, nil, false
	}

	if identity.IsAdmin || app.StudentID == identity.UserID {
		return app, identity, true
	}
	if identity.Role == db.RoleRecruiter {
		job, err := s.db.GetJob(r.Context(), app.JobID)
		if err != nil {
			s.serviceError(w, err)
			return nil, nil, false
		}
		if job != nil && job.RecruiterID == identity.UserID {
			return app, identity, true
		}
	}
	s.serviceError(w, &ErrForbidden{Message: "not your application"})
	return nil, nil, false
}

// handleGetApplication returns one application joined with its job and the
// applicant's resume file type.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, _, ok := s.accessibleApplication(w, r)
	if !ok {
		return
	}
	job, err := s.db.GetJob(r.Context(), app.JobID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, &ApplicationView{
		Application: app,
		ResumeType:  resumeType(app.ResumeFilename),
		Job:         job,
	})
}

// UpdateStatusRequest moves an application through its lifecycle.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Shortlisted Rejected"`
}

// handleUpdateApplicationStatus shortlists or rejects an application.
// Interview Scheduled, Selected and Rejected-after-interview come from the
// interview endpoints instead.
func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	app, identity, ok := s.accessibleApplication(w, r)
	if !ok {
		return
	}
	if identity.Role != db.RoleRecruiter && !identity.IsAdmin {
		s.serviceError(w, &ErrForbidden{Message: "only recruiters update application status"})
		return
	}

	var req UpdateStatusRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if app.Status == db.StatusSelected || app.Status == db.StatusRejected {
		s.serviceError(w, &ErrConflict{Message: "application already finalized"})
		return
	}

	if err := s.db.UpdateApplicationStatus(r.Context(), app.ID, req.Status, identity.UserID); err != nil {
		s.serviceError(w, err)
		return
	}

	s.notifier.ApplicationStatusChanged(r.Context(), app, req.Status)

	updated, err := s.db.GetApplication(r.Context(), app.ID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleResumeAnalysis runs the AI summary of the applicant's resume
// against the job posting.
func (s *Server) handleResumeAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "resume analysis is not configured")
		return
	}

	app, _, ok := s.accessibleApplication(w, r)
	if !ok {
		return
	}

	student, err := s.db.GetStudent(r.Context(), app.StudentID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if student == nil || student.ResumeKey == "" {
		s.serviceError(w, &ErrNotFound{Resource: "resume"})
		return
	}
	job, err := s.db.GetJob(r.Context(), app.JobID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if job == nil {
		s.serviceError(w, &ErrNotFound{Resource: "job"})
		return
	}

	data, err := s.store.Get(r.Context(), student.ResumeKey)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	text, err := resume.ExtractText(student.ResumeFilename, data)
	if err != nil {
		if errors.Is(err, resume.ErrUnsupportedFormat) {
			s.errorResponse(w, http.StatusBadRequest, "resume format does not support text extraction")
			return
		}
		s.serviceError(w, err)
		return
	}

	analysis, err := s.analyzer.Analyze(r.Context(), text, &resume.JobContext{
		Title:            job.Title,
		CompanyName:      job.CompanyName,
		Description:      job.Description,
		MinCGPA:          job.MinCGPA,
		EligibleBranches: job.EligibleBranches,
	})
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "resume analysis failed")
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}
