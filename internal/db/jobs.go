package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, recruiter_id, recruiter_name, title, description,
	company_name, location, job_type, salary_range, min_cgpa,
	eligible_branches, application_deadline, created_at, updated_at`

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.RecruiterID, &j.RecruiterName, &j.Title, &j.Description,
		&j.CompanyName, &j.Location, &j.JobType, &j.SalaryRange, &j.MinCGPA,
		&j.EligibleBranches, &j.ApplicationDeadline, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &j, nil
}

// CreateJob posts a new job for the recruiter and returns its ID.
func (db *DB) CreateJob(ctx context.Context, recruiterID uuid.UUID, recruiterName string, in *JobInput) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (recruiter_id, recruiter_name, title, description,
			company_name, location, job_type, salary_range, min_cgpa,
			eligible_branches, application_deadline)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		recruiterID, recruiterName, in.Title, in.Description,
		in.CompanyName, in.Location, in.JobType, in.SalaryRange, in.MinCGPA,
		in.EligibleBranches, in.ApplicationDeadline,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job: %w", err)
	}
	return id, nil
}

// GetJob retrieves a job by ID. Returns nil if not found.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	j, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// jobListQuery builds the filtered listing query. Text filters match
// case-insensitive substrings, as users type partial company and location
// names.
func jobListQuery(f *JobFilters) (string, []any) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f != nil {
		if f.Search != "" {
			p := arg("%" + f.Search + "%")
			conds = append(conds, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s OR company_name ILIKE %s)", p, p, p))
		}
		if f.Location != "" {
			conds = append(conds, "location ILIKE "+arg("%"+f.Location+"%"))
		}
		if f.JobType != "" {
			conds = append(conds, "job_type = "+arg(f.JobType))
		}
		if f.Company != "" {
			conds = append(conds, "company_name ILIKE "+arg("%"+f.Company+"%"))
		}
		if f.Branch != "" {
			// An empty branch list means the job is open to every branch.
			conds = append(conds, fmt.Sprintf("(cardinality(eligible_branches) = 0 OR %s = ANY(eligible_branches))", arg(f.Branch)))
		}
		if f.MaxMinCGPA != nil {
			conds = append(conds, "min_cgpa <= "+arg(*f.MaxMinCGPA))
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	return query, args
}

// ListJobs returns jobs matching the filters, newest first.
func (db *DB) ListJobs(ctx context.Context, f *JobFilters) ([]*Job, error) {
	query, args := jobListQuery(f)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// ListJobsByRecruiter returns the recruiter's jobs with application counts,
// newest first.
func (db *DB) ListJobsByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]*Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT j.id, j.recruiter_id, j.recruiter_name, j.title, j.description,
			j.company_name, j.location, j.job_type, j.salary_range, j.min_cgpa,
			j.eligible_branches, j.application_deadline, j.created_at, j.updated_at,
			COUNT(a.id)
		 FROM jobs j
		 LEFT JOIN applications a ON a.job_id = j.id
		 WHERE j.recruiter_id = $1
		 GROUP BY j.id
		 ORDER BY j.created_at DESC`,
		recruiterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recruiter jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		var j Job
		err := rows.Scan(&j.ID, &j.RecruiterID, &j.RecruiterName, &j.Title, &j.Description,
			&j.CompanyName, &j.Location, &j.JobType, &j.SalaryRange, &j.MinCGPA,
			&j.EligibleBranches, &j.ApplicationDeadline, &j.CreatedAt, &j.UpdatedAt,
			&j.ApplicationCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recruiter job: %w", err)
		}
		jobs = append(jobs, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recruiter jobs: %w", err)
	}
	return jobs, nil
}

// UpdateJob rewrites a job posting. Denormalized copies of the title and
// company on applications are refreshed in the same transaction.
func (db *DB) UpdateJob(ctx context.Context, id uuid.UUID, in *JobInput) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE jobs SET title = $2, description = $3, company_name = $4,
			location = $5, job_type = $6, salary_range = $7, min_cgpa = $8,
			eligible_branches = $9, application_deadline = $10, updated_at = NOW()
		 WHERE id = $1`,
		id, in.Title, in.Description, in.CompanyName,
		in.Location, in.JobType, in.SalaryRange, in.MinCGPA,
		in.EligibleBranches, in.ApplicationDeadline)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE applications SET job_title = $2, company_name = $3 WHERE job_id = $1`,
		id, in.Title, in.CompanyName)
	if err != nil {
		return fmt.Errorf("failed to refresh job applications: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteJob removes a job. Applications and interviews cascade.
func (db *DB) DeleteJob(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

// JobFilterValues returns the distinct locations, job types and companies
// across all postings, for populating listing filters.
func (db *DB) JobFilterValues(ctx context.Context) (*JobFilterOptions, error) {
	distinct := func(column string) ([]string, error) {
		rows, err := db.pool.Query(ctx,
			`SELECT DISTINCT `+column+` FROM jobs WHERE `+column+` <> '' ORDER BY 1`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var out []string
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, rows.Err()
	}

	opts := &JobFilterOptions{}
	var err error
	if opts.Locations, err = distinct("location"); err != nil {
		return nil, fmt.Errorf("failed to list job locations: %w", err)
	}
	if opts.JobTypes, err = distinct("job_type"); err != nil {
		return nil, fmt.Errorf("failed to list job types: %w", err)
	}
	if opts.Companies, err = distinct("company_name"); err != nil {
		return nil, fmt.Errorf("failed to list job companies: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT unnest(eligible_branches) FROM jobs ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to list job branches: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("failed to scan job branch: %w", err)
		}
		opts.Branches = append(opts.Branches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job branches: %w", err)
	}
	return opts, nil
}
