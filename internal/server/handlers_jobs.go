package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/careerbridge/careerbridge/internal/db"
	"github.com/careerbridge/careerbridge/internal/eligibility"
	"github.com/careerbridge/careerbridge/internal/ingest"
	"github.com/careerbridge/careerbridge/internal/server/middleware"
)

// JobRequest is the payload for creating or updating a job posting.
type JobRequest struct {
	Title               string   `json:"title" validate:"required,max=200"`
	Description         string   `json:"description" validate:"required,max=20000"`
	CompanyName         string   `json:"company_name" validate:"required,max=200"`
	Location            string   `json:"location" validate:"required,max=200"`
	JobType             string   `json:"job_type" validate:"required,oneof=Full-time Part-time Internship Contract"`
	SalaryRange         string   `json:"salary_range" validate:"max=100"`
	MinCGPA             float64  `json:"min_cgpa" validate:"min=0,max=10"`
	EligibleBranches    []string `json:"eligible_branches" validate:"dive,max=100"`
	ApplicationDeadline string   `json:"application_deadline" validate:"required"`
}

// JobView is a job plus the student-specific eligibility verdict.
type JobView struct {
	*db.Job
	Eligibility *eligibility.Result `json:"eligibility,omitempty"`
	HasApplied  bool                `json:"has_applied,omitempty"`
}

func (s *Server) parseJobInput(w http.ResponseWriter, req *JobRequest) (*db.JobInput, bool) {
	deadline, err := time.Parse("2006-01-02", req.ApplicationDeadline)
	if err != nil {
		s.serviceError(w, &ErrValidation{Field: "application_deadline", Message: "must be YYYY-MM-DD"})
		return nil, false
	}
	branches := req.EligibleBranches
	if branches == nil {
		branches = []string{}
	}
	return &db.JobInput{
		Title:               req.Title,
		Description:         req.Description,
		CompanyName:         req.CompanyName,
		Location:            req.Location,
		JobType:             req.JobType,
		SalaryRange:         req.SalaryRange,
		MinCGPA:             req.MinCGPA,
		EligibleBranches:    branches,
		ApplicationDeadline: deadline,
	}, true
}

// handleListJobs returns all postings, optionally filtered. Student callers
// get a per-job eligibility verdict alongside each posting.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &db.JobFilters{
		Search:   q.Get("search"),
		Location: q.Get("location"),
		JobType:  q.Get("job_type"),
		Company:  q.Get("company"),
		Branch:   q.Get("branch"),
	}
	if v := q.Get("min_cgpa"); v != "" {
		cgpa, err := strconv.ParseFloat(v, 64)
		if err != nil || cgpa < 0 || cgpa > 10 {
			s.serviceError(w, &ErrValidation{Field: "min_cgpa", Message: "must be a number between 0 and 10"})
			return
		}
		filters.MaxMinCGPA = &cgpa
	}

	jobs, err := s.db.ListJobs(r.Context(), filters)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	var student *db.Student
	if identity, err := middleware.GetIdentity(r); err == nil && identity.Role == db.RoleStudent {
		student, err = s.db.GetStudent(r.Context(), identity.UserID)
		if err != nil {
			s.serviceError(w, err)
			return
		}
	}

	now := time.Now()
	views := make([]*JobView, 0, len(jobs))
	for _, job := range jobs {
		view := &JobView{Job: job}
		if student != nil {
			result := eligibility.Check(student, job, now)
			view.Eligibility = &result
		}
		views = append(views, view)
	}
	s.jsonResponse(w, http.StatusOK, views)
}

// handleJobOptions returns the distinct filter values for job listings.
func (s *Server) handleJobOptions(w http.ResponseWriter, r *http.Request) {
	options, err := s.db.JobFilterValues(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, options)
}

// handleGetJob returns one posting. For students the response carries the
// eligibility verdict and whether they already applied.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	job, err := s.db.GetJob(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if job == nil {
		s.serviceError(w, &ErrNotFound{Resource: "job"})
		return
	}

	view := &JobView{Job: job}
	identity, err := middleware.GetIdentity(r)
	if err == nil && identity.Role == db.RoleStudent {
		student, err := s.db.GetStudent(r.Context(), identity.UserID)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		if student != nil {
			result := eligibility.Check(student, job, time.Now())
			view.Eligibility = &result

			app, err := s.db.GetApplicationByJobAndStudent(r.Context(), job.ID, student.ID)
			if err != nil {
				s.serviceError(w, err)
				return
			}
			view.HasApplied = app != nil
		}
	}
	s.jsonResponse(w, http.StatusOK, view)
}

// handleCreateJob posts a new job for the authenticated recruiter.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	recruiter, err := s.db.GetRecruiter(r.Context(), identity.UserID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if recruiter == nil {
		s.serviceError(w, &ErrAccountNotFound{ID: identity.UserID})
		return
	}
	if !recruiter.ProfileComplete {
		s.serviceError(w, &ErrForbidden{Message: "complete your profile before posting jobs"})
		return
	}

	var req JobRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	input, ok := s.parseJobInput(w, &req)
	if !ok {
		return
	}

	id, err := s.db.CreateJob(r.Context(), recruiter.ID, recruiter.FullName, input)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.audit(r, "job_posted", recruiter.Email, "job %q posted", req.Title)

	job, err := s.db.GetJob(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, job)
}

// ownedJob loads a job and checks the caller owns it (or is admin).
func (s *Server) ownedJob(w http.ResponseWriter, r *http.Request) (*db.Job, *middleware.Identity, bool) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return nil, nil, false
	}
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return nil, nil, false
	}
	job, err := s.db.GetJob(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return nil, nil, false
	}
	if job == nil {
		s.serviceError(w, &ErrNotFound{Resource: "job"})
		return nil, nil, false
	}
	if job.RecruiterID != identity.UserID && !identity.IsAdmin {
		s.serviceError(w, &ErrForbidden{Message: "you do not own this job"})
		return nil, nil, false
	}
	return job, identity, true
}

// handleUpdateJob rewrites a posting owned by the caller.
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	job, _, ok := s.ownedJob(w, r)
	if !ok {
		return
	}

	var req JobRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	input, ok := s.parseJobInput(w, &req)
	if !ok {
		return
	}

	if err := s.db.UpdateJob(r.Context(), job.ID, input); err != nil {
		s.serviceError(w, err)
		return
	}

	updated, err := s.db.GetJob(r.Context(), job.ID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteJob removes a posting owned by the caller.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	job, _, ok := s.ownedJob(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteJob(r.Context(), job.ID); err != nil {
		s.serviceError(w, err)
		return
	}
	s.audit(r, "job_deleted", "", "job %q deleted", job.Title)
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "job deleted"})
}

// handleMyJobs lists the recruiter's own postings with application counts.
func (s *Server) handleMyJobs(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	jobs, err := s.db.ListJobsByRecruiter(r.Context(), identity.UserID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if jobs == nil {
		jobs = []*db.Job{}
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}

// ImportJobRequest asks the server to scrape a posting from a URL.
type ImportJobRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// handleImportJob fetches an external posting and returns a prefilled
// draft. The recruiter reviews and submits it through POST /jobs.
func (s *Server) handleImportJob(w http.ResponseWriter, r *http.Request) {
	var req ImportJobRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	posting, err := ingest.FetchPosting(r.Context(), req.URL)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, posting)
}
