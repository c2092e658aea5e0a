package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const interviewColumns = `i.id, i.application_id, i.job_id, i.student_id,
	i.recruiter_id, i.scheduled_at, i.location, i.interview_type, i.details,
	i.status, i.result, i.feedback, i.completed_at, i.completed_by, i.created_at,
	a.student_name, a.job_title, a.company_name`

func scanInterview(row pgx.Row) (*Interview, error) {
	var iv Interview
	err := row.Scan(&iv.ID, &iv.ApplicationID, &iv.JobID, &iv.StudentID,
		&iv.RecruiterID, &iv.ScheduledAt, &iv.Location, &iv.InterviewType, &iv.Details,
		&iv.Status, &iv.Result, &iv.Feedback, &iv.CompletedAt, &iv.CompletedBy, &iv.CreatedAt,
		&iv.StudentName, &iv.JobTitle, &iv.CompanyName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &iv, nil
}

// CreateInterview schedules an interview for an application, moves the
// application to Interview Scheduled and links the two, all in one
// transaction. When KeepStatus is set the application status is left alone
// and only the interview link is written, used for follow-up rounds with
// already Selected candidates.
func (db *DB) CreateInterview(ctx context.Context, in *InterviewInput, jobID, studentID uuid.UUID) (uuid.UUID, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO interviews (application_id, job_id, student_id, recruiter_id,
			scheduled_at, location, interview_type, details, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		in.ApplicationID, jobID, studentID, in.RecruiterID,
		in.ScheduledAt, in.Location, in.InterviewType, in.Details,
		InterviewScheduled,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create interview: %w", err)
	}

	if in.KeepStatus {
		_, err = tx.Exec(ctx,
			`UPDATE applications SET interview_id = $2 WHERE id = $1`,
			in.ApplicationID, id)
	} else {
		_, err = tx.Exec(ctx,
			`UPDATE applications SET status = $2, status_updated_at = NOW(),
				status_updated_by = $3, interview_id = $4
			 WHERE id = $1`,
			in.ApplicationID, StatusInterviewScheduled, in.RecruiterID, id)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to link interview to application: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// GetInterview retrieves an interview by ID. Returns nil if not found.
func (db *DB) GetInterview(ctx context.Context, id uuid.UUID) (*Interview, error) {
	iv, err := scanInterview(db.pool.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews i
		 JOIN applications a ON a.id = i.application_id
		 WHERE i.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return iv, nil
}

func (db *DB) listInterviews(ctx context.Context, where string, args ...any) ([]*Interview, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+interviewColumns+` FROM interviews i
		 JOIN applications a ON a.id = i.application_id
		 WHERE `+where+` ORDER BY i.scheduled_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	var out []*Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interviews: %w", err)
	}
	return out, nil
}

// ListInterviewsByStudent returns the student's interviews ordered by time.
func (db *DB) ListInterviewsByStudent(ctx context.Context, studentID uuid.UUID) ([]*Interview, error) {
	return db.listInterviews(ctx, "i.student_id = $1", studentID)
}

// ListInterviewsByRecruiter returns the recruiter's interviews ordered by time.
func (db *DB) ListInterviewsByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]*Interview, error) {
	return db.listInterviews(ctx, "i.recruiter_id = $1", recruiterID)
}

// CompleteInterview records the result and feedback and moves the linked
// application to its final status. A Pass result selects the candidate,
// anything else rejects.
func (db *DB) CompleteInterview(ctx context.Context, id uuid.UUID, result, feedback string, completedBy uuid.UUID) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var applicationID uuid.UUID
	err = tx.QueryRow(ctx,
		`UPDATE interviews SET status = $2, result = $3, feedback = $4,
			completed_at = NOW(), completed_by = $5
		 WHERE id = $1
		 RETURNING application_id`,
		id, InterviewCompleted, result, feedback, completedBy,
	).Scan(&applicationID)
	if err != nil {
		return fmt.Errorf("failed to complete interview: %w", err)
	}

	status := StatusRejected
	if result == ResultPass {
		status = StatusSelected
	}
	_, err = tx.Exec(ctx,
		`UPDATE applications SET status = $2, status_updated_at = NOW(), status_updated_by = $3
		 WHERE id = $1`,
		applicationID, status, completedBy)
	if err != nil {
		return fmt.Errorf("failed to finalize application: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
