package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerbridge/careerbridge/internal/db"
	"github.com/careerbridge/careerbridge/internal/server/middleware"
)

func scheduleRequest(app *db.Application, recruiter *db.Recruiter, body ScheduleInterviewRequest) *http.Request {
	req := authedRequest(http.MethodPost, "/applications/"+app.ID.String()+"/interviews", body,
		&middleware.Identity{UserID: recruiter.ID, Role: db.RoleRecruiter})
	req.SetPathValue("id", app.ID.String())
	return req
}

func TestScheduleInterviewMovesApplication(t *testing.T) {
	d := newStubDB()
	n := &stubNotifier{}
	s := newLifecycleServer(d, n)
	recruiter := seedRecruiter(d)
	student := seedStudent(d)
	job := seedJob(d, recruiter.ID)
	app := seedApplication(d, job, student, db.StatusShortlisted)

	w := httptest.NewRecorder()
	s.handleScheduleInterview(w, scheduleRequest(app, recruiter, ScheduleInterviewRequest{
		ScheduledAt:   time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		Location:      "Acme HQ, Pune",
		InterviewType: "Technical",
	}))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created db.Interview
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, db.InterviewScheduled, created.Status)
	assert.Equal(t, db.StatusInterviewScheduled, app.Status)
	require.NotNil(t, app.InterviewID)
	assert.Equal(t, created.ID, *app.InterviewID)
	assert.Equal(t, 1, n.scheduled)
}

func TestScheduleFollowUpKeepsSelectedStatus(t *testing.T) {
	d := newStubDB()
	s := newLifecycleServer(d, &stubNotifier{})
	recruiter := seedRecruiter(d)
	student := seedStudent(d)
	job := seedJob(d, recruiter.ID)
	app := seedApplication(d, job, student, db.StatusSelected)

	w := httptest.NewRecorder()
	s.handleScheduleInterview(w, scheduleRequest(app, recruiter, ScheduleInterviewRequest{
		ScheduledAt:   time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		Location:      "Video call",
		InterviewType: "HR",
		ForSelected:   true,
	}))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, db.StatusSelected, app.Status)
	assert.NotNil(t, app.InterviewID)
}

func TestScheduleFollowUpRequiresSelected(t *testing.T) {
	d := newStubDB()
	s := newLifecycleServer(d, &stubNotifier{})
	recruiter := seedRecruiter(d)
	student := seedStudent(d)
	job := seedJob(d, recruiter.ID)
	app := seedApplication(d, job, student, db.StatusApplied)

	w := httptest.NewRecorder()
	s.handleScheduleInterview(w, scheduleRequest(app, recruiter, ScheduleInterviewRequest{
		ScheduledAt:   time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		Location:      "Video call",
		InterviewType: "HR",
		ForSelected:   true,
	}))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInterviewResultPassSelectsCandidate(t *testing.T) {
	d := newStubDB()
	n := &stubNotifier{}
	s := newLifecycleServer(d, n)
	recruiter := seedRecruiter(d)
	student := seedStudent(d)
	job := seedJob(d, recruiter.ID)
	app := seedApplication(d, job, student, db.StatusInterviewScheduled)

	ivID, err := d.CreateInterview(context.Background(), &db.InterviewInput{
		ApplicationID: app.ID,
		RecruiterID:   recruiter.ID,
		ScheduledAt:   time.Now().Add(time.Hour),
		Location:      "Acme HQ",
		InterviewType: "Technical",
		KeepStatus:    true,
	}, job.ID, student.ID)
	require.NoError(t, err)

	req := authedRequest(http.MethodPut, "/interviews/"+ivID.String()+"/result",
		InterviewResultRequest{Result: db.ResultPass, Feedback: "strong fundamentals"},
		&middleware.Identity{UserID: recruiter.ID, Role: db.RoleRecruiter})
	req.SetPathValue("id", ivID.String())
	w := httptest.NewRecorder()
	s.handleInterviewResult(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, db.StatusSelected, app.Status)
	assert.Equal(t, db.InterviewCompleted, d.interviews[ivID].Status)
	assert.Equal(t, []string{db.StatusSelected}, n.statusChanges)
}

func TestInterviewResultRejectsFinishedInterviews(t *testing.T) {
	for _, status := range []string{db.InterviewCompleted, db.InterviewCancelled} {
		t.Run(status, func(t *testing.T) {
			d := newStubDB()
			s := newLifecycleServer(d, &stubNotifier{})
			recruiter := seedRecruiter(d)
			student := seedStudent(d)
			job := seedJob(d, recruiter.ID)
			app := seedApplication(d, job, student, db.StatusInterviewScheduled)

			ivID, err := d.CreateInterview(context.Background(), &db.InterviewInput{
				ApplicationID: app.ID,
				RecruiterID:   recruiter.ID,
				ScheduledAt:   time.Now().Add(time.Hour),
				KeepStatus:    true,
			}, job.ID, student.ID)
			require.NoError(t, err)
			d.interviews[ivID].Status = status

			req := authedRequest(http.MethodPut, "/interviews/"+ivID.String()+"/result",
				InterviewResultRequest{Result: db.ResultPass},
				&middleware.Identity{UserID: recruiter.ID, Role: db.RoleRecruiter})
			req.SetPathValue("id", ivID.String())
			w := httptest.NewRecorder()
			s.handleInterviewResult(w, req)

			assert.Equal(t, http.StatusConflict, w.Code)
			assert.Equal(t, db.StatusInterviewScheduled, app.Status)
		})
	}
}
