package server

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge/internal/db"
)

// Database is the persistence surface the handlers use. *db.DB implements
// it; tests substitute in-memory stubs.
type Database interface {
	Close()

	GetStudent(ctx context.Context, id uuid.UUID) (*db.Student, error)
	UpdateStudentProfile(ctx context.Context, u *db.StudentProfileUpdate) error
	SetStudentResume(ctx context.Context, id uuid.UUID, key, filename string) error
	SetStudentPhoto(ctx context.Context, id uuid.UUID, key string) error
	StudentPhoneTaken(ctx context.Context, selfID uuid.UUID, phone string) (bool, error)

	GetRecruiter(ctx context.Context, id uuid.UUID) (*db.Recruiter, error)
	UpdateRecruiterProfile(ctx context.Context, u *db.RecruiterProfileUpdate) error
	SetRecruiterPhoto(ctx context.Context, id uuid.UUID, key string) error
	RecruiterPhoneTaken(ctx context.Context, selfID uuid.UUID, phone string) (bool, error)

	CreateJob(ctx context.Context, recruiterID uuid.UUID, recruiterName string, in *db.JobInput) (uuid.UUID, error)
	GetJob(ctx context.Context, id uuid.UUID) (*db.Job, error)
	ListJobs(ctx context.Context, f *db.JobFilters) ([]*db.Job, error)
	ListJobsByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]*db.Job, error)
	UpdateJob(ctx context.Context, id uuid.UUID, in *db.JobInput) error
	DeleteJob(ctx context.Context, id uuid.UUID) error
	JobFilterValues(ctx context.Context) (*db.JobFilterOptions, error)

	CreateApplication(ctx context.Context, a *db.Application) (uuid.UUID, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*db.Application, error)
	GetApplicationByJobAndStudent(ctx context.Context, jobID, studentID uuid.UUID) (*db.Application, error)
	ListApplicationsByStudent(ctx context.Context, studentID uuid.UUID) ([]*db.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]*db.Application, error)
	ListSelectedByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]*db.Application, error)
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string, updatedBy uuid.UUID) error

	CreateInterview(ctx context.Context, in *db.InterviewInput, jobID, studentID uuid.UUID) (uuid.UUID, error)
	GetInterview(ctx context.Context, id uuid.UUID) (*db.Interview, error)
	ListInterviewsByStudent(ctx context.Context, studentID uuid.UUID) ([]*db.Interview, error)
	ListInterviewsByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]*db.Interview, error)
	CompleteInterview(ctx context.Context, id uuid.UUID, result, feedback string, completedBy uuid.UUID) error

	ListNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]*db.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int, error)
	MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) error

	ListAccounts(ctx context.Context, role string) ([]*db.AccountSummary, error)
	UpdateAccountIdentity(ctx context.Context, role string, id uuid.UUID, username, email, phone string) (bool, error)
	SetAccountPassword(ctx context.Context, role string, id uuid.UUID, passwordHash string) (bool, error)
	SetAccountAdmin(ctx context.Context, role string, id uuid.UUID, isAdmin bool) (bool, error)
	DeleteAccount(ctx context.Context, role string, id uuid.UUID) (bool, error)

	RecordAuditEvent(ctx context.Context, eventType, message, userEmail, ip string) error
	ListAuditEvents(ctx context.Context, eventType string, limit int) ([]*db.AuditEvent, error)
	AuditActivitySeries(ctx context.Context, days int) (map[string]int, error)

	CountStudents(ctx context.Context) (int, error)
	CountRecruiters(ctx context.Context) (int, error)
	CountJobs(ctx context.Context) (int, error)
	CountApplications(ctx context.Context) (int, error)
	CountInterviews(ctx context.Context) (int, error)
	CountSelected(ctx context.Context) (int, error)
	CountAdmins(ctx context.Context) (int, error)
	CountLoginsToday(ctx context.Context) (int, error)
	CountNeverLoggedIn(ctx context.Context) (int, error)
	CountRecentRegistrations(ctx context.Context) (int, error)
	ApplicationStatusBreakdown(ctx context.Context) (map[string]int, error)
}

// Notifications is the slice of the notifier the handlers call.
type Notifications interface {
	ApplicationReceived(ctx context.Context, recruiter *db.Recruiter, app *db.Application)
	ApplicationStatusChanged(ctx context.Context, app *db.Application, status string)
	InterviewScheduled(ctx context.Context, app *db.Application, scheduledAt time.Time, location string)
}
