package db

import (
	"context"
	"fmt"
)

// PlatformStats are the headline counts for the admin dashboard.
type PlatformStats struct {
	Students            int `json:"students"`
	Recruiters          int `json:"recruiters"`
	Admins              int `json:"admins"`
	Jobs                int `json:"jobs"`
	Applications        int `json:"applications"`
	Interviews          int `json:"interviews"`
	Selected            int `json:"selected"`
	LoginsToday         int `json:"logins_today"`
	NeverLoggedIn       int `json:"never_logged_in"`
	RecentRegistrations int `json:"recent_registrations"`
}

func (db *DB) countRows(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}

// CountStudents returns the number of student accounts.
func (db *DB) CountStudents(ctx context.Context) (int, error) {
	return db.countRows(ctx, `SELECT COUNT(*) FROM students`)
}

// CountRecruiters returns the number of recruiter accounts.
func (db *DB) CountRecruiters(ctx context.Context) (int, error) {
	return db.countRows(ctx, `SELECT COUNT(*) FROM recruiters`)
}

// CountJobs returns the number of job postings.
func (db *DB) CountJobs(ctx context.Context) (int, error) {
	return db.countRows(ctx, `SELECT COUNT(*) FROM jobs`)
}

// CountApplications returns the number of applications.
func (db *DB) CountApplications(ctx context.Context) (int, error) {
	return db.countRows(ctx, `SELECT COUNT(*) FROM applications`)
}

// CountInterviews returns the number of interviews.
func (db *DB) CountInterviews(ctx context.Context) (int, error) {
	return db.countRows(ctx, `SELECT COUNT(*) FROM interviews`)
}

// CountSelected returns the number of applications that ended in selection.
func (db *DB) CountSelected(ctx context.Context) (int, error) {
	return db.countRows(ctx, `SELECT COUNT(*) FROM applications WHERE status = $1`, StatusSelected)
}

// CountAdmins returns the number of accounts holding admin rights.
func (db *DB) CountAdmins(ctx context.Context) (int, error) {
	return db.countRows(ctx, `
		SELECT (SELECT COUNT(*) FROM students WHERE is_admin)
		     + (SELECT COUNT(*) FROM recruiters WHERE is_admin)`)
}

// CountLoginsToday counts successful logins since midnight, from the audit
// trail.
func (db *DB) CountLoginsToday(ctx context.Context) (int, error) {
	return db.countRows(ctx,
		`SELECT COUNT(*) FROM audit_events
		 WHERE event_type = 'login' AND created_at >= date_trunc('day', NOW())`)
}

// CountNeverLoggedIn counts accounts that registered but never signed in.
func (db *DB) CountNeverLoggedIn(ctx context.Context) (int, error) {
	return db.countRows(ctx, `
		SELECT (SELECT COUNT(*) FROM students WHERE last_login IS NULL)
		     + (SELECT COUNT(*) FROM recruiters WHERE last_login IS NULL)`)
}

// CountRecentRegistrations counts accounts created in the last seven days.
func (db *DB) CountRecentRegistrations(ctx context.Context) (int, error) {
	return db.countRows(ctx, `
		SELECT (SELECT COUNT(*) FROM students WHERE created_at >= NOW() - INTERVAL '7 days')
		     + (SELECT COUNT(*) FROM recruiters WHERE created_at >= NOW() - INTERVAL '7 days')`)
}

// ApplicationStatusBreakdown counts applications per status.
func (db *DB) ApplicationStatusBreakdown(ctx context.Context) (map[string]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to query status breakdown: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status row: %w", err)
		}
		out[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status rows: %w", err)
	}
	return out, nil
}
