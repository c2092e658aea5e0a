package db

import (
	"time"

	"github.com/google/uuid"
)

// Account roles. Students and recruiters live in separate tables; the role
// names double as JWT claims and URL path segments.
const (
	RoleStudent   = "student"
	RoleRecruiter = "recruiter"
)

// Application lifecycle statuses.
const (
	StatusApplied            = "Applied"
	StatusShortlisted        = "Shortlisted"
	StatusInterviewScheduled = "Interview Scheduled"
	StatusSelected           = "Selected"
	StatusRejected           = "Rejected"
)

// Interview statuses and results.
const (
	InterviewScheduled = "Scheduled"
	InterviewCompleted = "Completed"
	InterviewCancelled = "Cancelled"

	ResultPass = "Pass"
	ResultFail = "Fail"
)

// Notification is an in-app notification row for a student or recruiter.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserRole  string    `json:"user_role"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditEvent is an administrative audit log entry.
type AuditEvent struct {
	ID        uuid.UUID `json:"id"`
	EventType string    `json:"event_type"`
	Message   string    `json:"message"`
	UserEmail string    `json:"user_email,omitempty"`
	IP        string    `json:"ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
