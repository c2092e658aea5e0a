package db

import (
	"time"

	"github.com/google/uuid"
)

// Application is a student's application to a job. Student and job fields
// are denormalized at apply time so listings do not need joins.
type Application struct {
	ID              uuid.UUID  `json:"id"`
	JobID           uuid.UUID  `json:"job_id"`
	StudentID       uuid.UUID  `json:"student_id"`
	StudentName     string     `json:"student_name"`
	StudentEmail    string     `json:"student_email"`
	StudentPhone    string     `json:"student_phone,omitempty"`
	StudentCGPA     float64    `json:"student_cgpa"`
	StudentBranch   string     `json:"student_branch,omitempty"`
	JobTitle        string     `json:"job_title"`
	CompanyName     string     `json:"company_name"`
	Status          string     `json:"status"`
	StatusUpdatedAt *time.Time `json:"status_updated_at,omitempty"`
	StatusUpdatedBy *uuid.UUID `json:"-"`
	InterviewID     *uuid.UUID `json:"interview_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	// ResumeFilename is joined from the student row so recruiter views
	// can report the resume file type.
	ResumeFilename string `json:"resume_filename,omitempty"`
}

// Interview is a scheduled interview for an application.
type Interview struct {
	ID            uuid.UUID  `json:"id"`
	ApplicationID uuid.UUID  `json:"application_id"`
	JobID         uuid.UUID  `json:"job_id"`
	StudentID     uuid.UUID  `json:"student_id"`
	RecruiterID   uuid.UUID  `json:"recruiter_id"`
	ScheduledAt   time.Time  `json:"scheduled_at"`
	Location      string     `json:"location"`
	InterviewType string     `json:"interview_type"`
	Details       string     `json:"details,omitempty"`
	Status        string     `json:"status"`
	Result        *string    `json:"result,omitempty"`
	Feedback      *string    `json:"feedback,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CompletedBy   *uuid.UUID `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`

	// Populated by listings for display alongside the interview.
	StudentName string `json:"student_name,omitempty"`
	JobTitle    string `json:"job_title,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

// InterviewInput carries an interview schedule request.
type InterviewInput struct {
	ApplicationID uuid.UUID
	RecruiterID   uuid.UUID
	ScheduledAt   time.Time
	Location      string
	InterviewType string
	Details       string
	// KeepStatus leaves the application status untouched, for follow-up
	// rounds with Selected candidates.
	KeepStatus bool
}
