package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const applicationColumns = `a.id, a.job_id, a.student_id, a.student_name, a.student_email,
	a.student_phone, a.student_cgpa, a.student_branch, a.job_title, a.company_name,
	a.status, a.status_updated_at, a.status_updated_by, a.interview_id, a.created_at,
	COALESCE(s.resume_filename, '')`

// applicationFrom joins the applicant so views can report the resume file
// type without a second query.
const applicationFrom = ` FROM applications a LEFT JOIN students s ON s.id = a.student_id`

func scanApplication(row pgx.Row) (*Application, error) {
	var a Application
	err := row.Scan(&a.ID, &a.JobID, &a.StudentID, &a.StudentName, &a.StudentEmail,
		&a.StudentPhone, &a.StudentCGPA, &a.StudentBranch, &a.JobTitle, &a.CompanyName,
		&a.Status, &a.StatusUpdatedAt, &a.StatusUpdatedBy, &a.InterviewID, &a.CreatedAt,
		&a.ResumeFilename)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// CreateApplication records a student's application, snapshotting the
// student and job fields used by listings. The unique constraint on
// (job_id, student_id) rejects duplicates.
func (db *DB) CreateApplication(ctx context.Context, a *Application) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO applications (job_id, student_id, student_name, student_email,
			student_phone, student_cgpa, student_branch, job_title, company_name, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		a.JobID, a.StudentID, a.StudentName, a.StudentEmail,
		a.StudentPhone, a.StudentCGPA, a.StudentBranch, a.JobTitle, a.CompanyName,
		StatusApplied,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create application: %w", err)
	}
	return id, nil
}

// GetApplication retrieves an application by ID. Returns nil if not found.
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+applicationFrom+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// GetApplicationByJobAndStudent looks up a student's application to a job.
// Returns nil if the student has not applied.
func (db *DB) GetApplicationByJobAndStudent(ctx context.Context, jobID, studentID uuid.UUID) (*Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+applicationFrom+`
		 WHERE a.job_id = $1 AND a.student_id = $2`, jobID, studentID))
	if err != nil {
		return nil, fmt.Errorf("failed to get application by job and student: %w", err)
	}
	return a, nil
}

func (db *DB) listApplications(ctx context.Context, where string, args ...any) ([]*Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+applicationFrom+`
		 WHERE `+where+` ORDER BY a.created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return apps, nil
}

// ListApplicationsByStudent returns the student's applications, newest first.
func (db *DB) ListApplicationsByStudent(ctx context.Context, studentID uuid.UUID) ([]*Application, error) {
	return db.listApplications(ctx, "a.student_id = $1", studentID)
}

// ListApplicationsByJob returns a job's applications, newest first.
func (db *DB) ListApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]*Application, error) {
	return db.listApplications(ctx, "a.job_id = $1", jobID)
}

// ListSelectedByRecruiter returns Selected applications across all of the
// recruiter's jobs, for scheduling follow-up interview rounds.
func (db *DB) ListSelectedByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]*Application, error) {
	return db.listApplications(ctx,
		"a.status = $1 AND a.job_id IN (SELECT id FROM jobs WHERE recruiter_id = $2)",
		StatusSelected, recruiterID)
}

// UpdateApplicationStatus moves an application to a new status and records
// who moved it.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string, updatedBy uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE applications SET status = $2, status_updated_at = NOW(), status_updated_by = $3
		 WHERE id = $1`,
		id, status, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return nil
}
