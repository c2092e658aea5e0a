package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerbridge/careerbridge/internal/db"
	"github.com/careerbridge/careerbridge/internal/server/middleware"
)

// stubDB is an in-memory Database for handler tests. Methods the test does
// not exercise fall through to the embedded nil interface and panic.
type stubDB struct {
	Database
	students     map[uuid.UUID]*db.Student
	recruiters   map[uuid.UUID]*db.Recruiter
	jobs         map[uuid.UUID]*db.Job
	applications map[uuid.UUID]*db.Application
	interviews   map[uuid.UUID]*db.Interview
}

func newStubDB() *stubDB {
	return &stubDB{
		students:     make(map[uuid.UUID]*db.Student),
		recruiters:   make(map[uuid.UUID]*db.Recruiter),
		jobs:         make(map[uuid.UUID]*db.Job),
		applications: make(map[uuid.UUID]*db.Application),
		interviews:   make(map[uuid.UUID]*db.Interview),
	}
}

func (d *stubDB) RecordAuditEvent(_ context.Context, _, _, _, _ string) error { return nil }

func (d *stubDB) GetStudent(_ context.Context, id uuid.UUID) (*db.Student, error) {
	return d.students[id], nil
}

func (d *stubDB) GetRecruiter(_ context.Context, id uuid.UUID) (*db.Recruiter, error) {
	return d.recruiters[id], nil
}

func (d *stubDB) GetJob(_ context.Context, id uuid.UUID) (*db.Job, error) {
	return d.jobs[id], nil
}

func (d *stubDB) GetApplication(_ context.Context, id uuid.UUID) (*db.Application, error) {
	return d.applications[id], nil
}

func (d *stubDB) GetApplicationByJobAndStudent(_ context.Context, jobID, studentID uuid.UUID) (*db.Application, error) {
	for _, a := range d.applications {
		if a.JobID == jobID && a.StudentID == studentID {
			return a, nil
		}
	}
	return nil, nil
}

func (d *stubDB) CreateApplication(_ context.Context, a *db.Application) (uuid.UUID, error) {
	a.ID = uuid.New()
	a.Status = db.StatusApplied
	a.CreatedAt = time.Now()
	d.applications[a.ID] = a
	return a.ID, nil
}

func (d *stubDB) ListApplicationsByJob(_ context.Context, jobID uuid.UUID) ([]*db.Application, error) {
	var apps []*db.Application
	for _, a := range d.applications {
		if a.JobID == jobID {
			apps = append(apps, a)
		}
	}
	return apps, nil
}

func (d *stubDB) UpdateApplicationStatus(_ context.Context, id uuid.UUID, status string, _ uuid.UUID) error {
	d.applications[id].Status = status
	return nil
}

func (d *stubDB) CreateInterview(_ context.Context, in *db.InterviewInput, jobID, studentID uuid.UUID) (uuid.UUID, error) {
	id := uuid.New()
	d.interviews[id] = &db.Interview{
		ID:            id,
		ApplicationID: in.ApplicationID,
		JobID:         jobID,
		StudentID:     studentID,
		RecruiterID:   in.RecruiterID,
		ScheduledAt:   in.ScheduledAt,
		Location:      in.Location,
		InterviewType: in.InterviewType,
		Status:        db.InterviewScheduled,
	}
	app := d.applications[in.ApplicationID]
	app.InterviewID = &id
	if !in.KeepStatus {
		app.Status = db.StatusInterviewScheduled
	}
	return id, nil
}

func (d *stubDB) GetInterview(_ context.Context, id uuid.UUID) (*db.Interview, error) {
	return d.interviews[id], nil
}

func (d *stubDB) CompleteInterview(_ context.Context, id uuid.UUID, result, feedback string, _ uuid.UUID) error {
	iv := d.interviews[id]
	iv.Status = db.InterviewCompleted
	iv.Result = &result
	iv.Feedback = &feedback
	status := db.StatusRejected
	if result == db.ResultPass {
		status = db.StatusSelected
	}
	d.applications[iv.ApplicationID].Status = status
	return nil
}

func (d *stubDB) SetAccountAdmin(_ context.Context, role string, id uuid.UUID, isAdmin bool) (bool, error) {
	if role == db.RoleStudent {
		if st, ok := d.students[id]; ok {
			st.IsAdmin = isAdmin
			return true, nil
		}
		return false, nil
	}
	if rec, ok := d.recruiters[id]; ok {
		rec.IsAdmin = isAdmin
		return true, nil
	}
	return false, nil
}

func (d *stubDB) DeleteAccount(_ context.Context, role string, id uuid.UUID) (bool, error) {
	if role == db.RoleStudent {
		if _, ok := d.students[id]; ok {
			delete(d.students, id)
			return true, nil
		}
		return false, nil
	}
	if _, ok := d.recruiters[id]; ok {
		delete(d.recruiters, id)
		return true, nil
	}
	return false, nil
}

// stubNotifier records lifecycle events.
type stubNotifier struct {
	received      int
	statusChanges []string
	scheduled     int
}

func (n *stubNotifier) ApplicationReceived(_ context.Context, _ *db.Recruiter, _ *db.Application) {
	n.received++
}

func (n *stubNotifier) ApplicationStatusChanged(_ context.Context, _ *db.Application, status string) {
	n.statusChanges = append(n.statusChanges, status)
}

func (n *stubNotifier) InterviewScheduled(_ context.Context, _ *db.Application, _ time.Time, _ string) {
	n.scheduled++
}

func newLifecycleServer(d *stubDB, n *stubNotifier) *Server {
	return &Server{db: d, notifier: n, validator: validator.New()}
}

func authedRequest(method, target string, body any, identity *middleware.Identity) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	return req.WithContext(middleware.WithIdentity(req.Context(), identity))
}

func seedRecruiter(d *stubDB) *db.Recruiter {
	rec := &db.Recruiter{ID: uuid.New(), Username: "acmehr", Email: "hr@acme.com", CompanyName: "Acme"}
	d.recruiters[rec.ID] = rec
	return rec
}

func seedStudent(d *stubDB) *db.Student {
	cgpa := 8.2
	st := &db.Student{
		ID:              uuid.New(),
		Username:        "priya",
		Email:           "priya@example.com",
		FullName:        "Priya Sharma",
		Branch:          "CSE",
		CGPA:            &cgpa,
		ProfileComplete: true,
		ResumeKey:       "resumes/abc.pdf",
		ResumeFilename:  "priya_resume.pdf",
	}
	d.students[st.ID] = st
	return st
}

func seedJob(d *stubDB, recruiterID uuid.UUID) *db.Job {
	job := &db.Job{
		ID:                  uuid.New(),
		RecruiterID:         recruiterID,
		Title:               "Backend Engineer",
		CompanyName:         "Acme",
		MinCGPA:             7.0,
		EligibleBranches:    []string{"CSE"},
		ApplicationDeadline: time.Now().Add(48 * time.Hour),
	}
	d.jobs[job.ID] = job
	return job
}

func seedApplication(d *stubDB, job *db.Job, student *db.Student, status string) *db.Application {
	app := &db.Application{
		ID:             uuid.New(),
		JobID:          job.ID,
		StudentID:      student.ID,
		StudentName:    student.FullName,
		StudentEmail:   student.Email,
		JobTitle:       job.Title,
		CompanyName:    job.CompanyName,
		Status:         status,
		ResumeFilename: student.ResumeFilename,
		CreatedAt:      time.Now(),
	}
	d.applications[app.ID] = app
	return app
}

func applyRequest(job *db.Job, student *db.Student) *http.Request {
	req := authedRequest(http.MethodPost, "/jobs/"+job.ID.String()+"/apply", nil,
		&middleware.Identity{UserID: student.ID, Role: db.RoleStudent})
	req.SetPathValue("id", job.ID.String())
	return req
}

func TestApplyCreatesApplication(t *testing.T) {
	d := newStubDB()
	n := &stubNotifier{}
	s := newLifecycleServer(d, n)
	recruiter := seedRecruiter(d)
	student := seedStudent(d)
	job := seedJob(d, recruiter.ID)

	w := httptest.NewRecorder()
	s.handleApply(w, applyRequest(job, student))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created db.Application
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, db.StatusApplied, created.Status)
	assert.Equal(t, student.FullName, created.StudentName)
	assert.Equal(t, 1, n.received)
}

func TestApplyTwiceConflicts(t *testing.T) {
	d := newStubDB()
	s := newLifecycleServer(d, &stubNotifier{})
	recruiter := seedRecruiter(d)
	student := seedStudent(d)
	job := seedJob(d, recruiter.ID)

	w := httptest.NewRecorder()
	s.handleApply(w, applyRequest(job, student))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	s.handleApply(w, applyRequest(job, student))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already applied")
}

func TestApplyAfterDeadlineForbidden(t *testing.T) {
	d := newStubDB()
	s := newLifecycleServer(d, &stubNotifier{})
	recruiter := seedRecruiter(d)
	student := seedStudent(d)
	job := seedJob(d, recruiter.ID)
	job.ApplicationDeadline = time.Now().Add(-48 * time.Hour)

	w := httptest.NewRecorder()
	s.handleApply(w, applyRequest(job, student))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "deadline_passed")
}

func TestApplyIncompleteProfileConflicts(t *testing.T) {
	d := newStubDB()
	s := newLifecycleServer(d, &stubNotifier{})
	recruiter := seedRecruiter(d)
	student := seedStudent(d)
	student.ProfileComplete = false
	job := seedJob(d, recruiter.ID)

	w := httptest.NewRecorder()
	s.handleApply(w, applyRequest(job, student))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "complete your profile")
}

func TestJobApplicationsReportResumeType(t *testing.T) {
	d := newStubDB()
	s := newLifecycleServer(d, &stubNotifier{})
	recruiter := seedRecruiter(d)
	student := seedStudent(d)
	job := seedJob(d, recruiter.ID)
	seedApplication(d, job, student, db.StatusApplied)

	req := authedRequest(http.MethodGet, "/jobs/"+job.ID.String()+"/applications", nil,
		&middleware.Identity{UserID: recruiter.ID, Role: db.RoleRecruiter})
	req.SetPathValue("id", job.ID.String())
	w := httptest.NewRecorder()
	s.handleJobApplications(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var views []*ApplicationView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&views))
	require.Len(t, views, 1)
	assert.Equal(t, "pdf", views[0].ResumeType)
}

func TestGetApplicationIncludesJobAndResumeType(t *testing.T) {
	d := newStubDB()
	s := newLifecycleServer(d, &stubNotifier{})
	recruiter := seedRecruiter(d)
	student := seedStudent(d)
	job := seedJob(d, recruiter.ID)
	app := seedApplication(d, job, student, db.StatusApplied)

	req := authedRequest(http.MethodGet, "/applications/"+app.ID.String(), nil,
		&middleware.Identity{UserID: recruiter.ID, Role: db.RoleRecruiter})
	req.SetPathValue("id", app.ID.String())
	w := httptest.NewRecorder()
	s.handleGetApplication(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view ApplicationView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	assert.Equal(t, "pdf", view.ResumeType)
	require.NotNil(t, view.Job)
	assert.Equal(t, job.Title, view.Job.Title)
}

func TestUpdateStatusOnFinalizedApplicationConflicts(t *testing.T) {
	d := newStubDB()
	s := newLifecycleServer(d, &stubNotifier{})
	recruiter := seedRecruiter(d)
	student := seedStudent(d)
	job := seedJob(d, recruiter.ID)
	app := seedApplication(d, job, student, db.StatusSelected)

	req := authedRequest(http.MethodPut, "/applications/"+app.ID.String()+"/status",
		UpdateStatusRequest{Status: db.StatusShortlisted},
		&middleware.Identity{UserID: recruiter.ID, Role: db.RoleRecruiter})
	req.SetPathValue("id", app.ID.String())
	w := httptest.NewRecorder()
	s.handleUpdateApplicationStatus(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, db.StatusSelected, app.Status)
}

func TestShortlistNotifiesStudent(t *testing.T) {
	d := newStubDB()
	n := &stubNotifier{}
	s := newLifecycleServer(d, n)
	recruiter := seedRecruiter(d)
	student := seedStudent(d)
	job := seedJob(d, recruiter.ID)
	app := seedApplication(d, job, student, db.StatusApplied)

	req := authedRequest(http.MethodPut, "/applications/"+app.ID.String()+"/status",
		UpdateStatusRequest{Status: db.StatusShortlisted},
		&middleware.Identity{UserID: recruiter.ID, Role: db.RoleRecruiter})
	req.SetPathValue("id", app.ID.String())
	w := httptest.NewRecorder()
	s.handleUpdateApplicationStatus(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, db.StatusShortlisted, app.Status)
	assert.Equal(t, []string{db.StatusShortlisted}, n.statusChanges)
}
