// Package notify fans application lifecycle events out to in-app
// notifications and SMS.
package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge/internal/db"
	"github.com/careerbridge/careerbridge/internal/sms"
)

// Store persists in-app notifications.
type Store interface {
	CreateNotification(ctx context.Context, userID uuid.UUID, userRole, title, message string) error
}

// Notifier writes in-app notifications and, when a phone number is on
// file, sends a matching SMS. SMS failures are logged and never surface to
// the caller; the in-app notification is the source of truth.
type Notifier struct {
	store  Store
	sender sms.Sender
}

// New builds a Notifier.
func New(store Store, sender sms.Sender) *Notifier {
	return &Notifier{store: store, sender: sender}
}

func (n *Notifier) deliver(ctx context.Context, userID uuid.UUID, role, phone, title, message string) {
	if err := n.store.CreateNotification(ctx, userID, role, title, message); err != nil {
		log.Printf("Failed to store notification for %s: %v", userID, err)
	}
	if phone == "" {
		return
	}
	to, err := sms.NormalizeE164(phone)
	if err != nil {
		log.Printf("Skipping SMS for %s: %v", userID, err)
		return
	}
	// Twilio round-trips stay off the request path.
	go func() {
		if err := n.sender.Send(to, "CareerBridge: "+message); err != nil {
			log.Printf("Failed to send SMS to %s: %v", userID, err)
		}
	}()
}

// ApplicationStatusChanged notifies the student that a recruiter moved
// their application.
func (n *Notifier) ApplicationStatusChanged(ctx context.Context, app *db.Application, status string) {
	var message string
	switch status {
	case db.StatusShortlisted:
		message = fmt.Sprintf("Congratulations! You have been shortlisted for %s at %s.", app.JobTitle, app.CompanyName)
	case db.StatusSelected:
		message = fmt.Sprintf("Congratulations! You have been selected for %s at %s.", app.JobTitle, app.CompanyName)
	case db.StatusRejected:
		message = fmt.Sprintf("Update on your application for %s at %s: you were not selected this time.", app.JobTitle, app.CompanyName)
	default:
		message = fmt.Sprintf("Your application for %s at %s is now %s.", app.JobTitle, app.CompanyName, status)
	}
	n.deliver(ctx, app.StudentID, db.RoleStudent, app.StudentPhone, "Application Update", message)
}

// InterviewScheduled notifies the student of a new interview.
func (n *Notifier) InterviewScheduled(ctx context.Context, app *db.Application, scheduledAt time.Time, location string) {
	message := fmt.Sprintf("Interview scheduled for %s at %s on %s, location: %s.",
		app.JobTitle, app.CompanyName, scheduledAt.Format("02 Jan 2006 15:04"), location)
	n.deliver(ctx, app.StudentID, db.RoleStudent, app.StudentPhone, "Interview Scheduled", message)
}

// ApplicationReceived notifies the recruiter that a student applied.
func (n *Notifier) ApplicationReceived(ctx context.Context, recruiter *db.Recruiter, app *db.Application) {
	message := fmt.Sprintf("%s applied for %s.", app.StudentName, app.JobTitle)
	n.deliver(ctx, recruiter.ID, db.RoleRecruiter, recruiter.Phone, "New Application", message)
}
