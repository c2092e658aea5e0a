package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const recruiterColumns = `id, username, email, password_hash, full_name,
	COALESCE(phone, ''), company_name, company_website, linkedin_url,
	industry, designation, COALESCE(photo_key, ''), photo_updated_at,
	profile_complete, is_admin, last_login, created_at, updated_at`

func scanRecruiter(row pgx.Row) (*Recruiter, error) {
	var r Recruiter
	err := row.Scan(&r.ID, &r.Username, &r.Email, &r.PasswordHash, &r.FullName,
		&r.Phone, &r.CompanyName, &r.CompanyWebsite, &r.LinkedInURL,
		&r.Industry, &r.Designation, &r.PhotoKey, &r.PhotoUpdatedAt,
		&r.ProfileComplete, &r.IsAdmin, &r.LastLogin, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

// CreateRecruiter inserts a new recruiter account and returns its ID, along
// with whether it became the platform's first administrator.
func (db *DB) CreateRecruiter(ctx context.Context, username, email, passwordHash string) (uuid.UUID, bool, error) {
	return db.createAccount(ctx, "recruiters", username, email, passwordHash)
}

// GetRecruiter retrieves a recruiter by ID. Returns nil if not found.
func (db *DB) GetRecruiter(ctx context.Context, id uuid.UUID) (*Recruiter, error) {
	r, err := scanRecruiter(db.pool.QueryRow(ctx,
		`SELECT `+recruiterColumns+` FROM recruiters WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get recruiter: %w", err)
	}
	return r, nil
}

// GetRecruiterByEmail retrieves a recruiter by email. Returns nil if not found.
func (db *DB) GetRecruiterByEmail(ctx context.Context, email string) (*Recruiter, error) {
	r, err := scanRecruiter(db.pool.QueryRow(ctx,
		`SELECT `+recruiterColumns+` FROM recruiters WHERE email = $1`, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get recruiter by email: %w", err)
	}
	return r, nil
}

// UpdateRecruiterProfile writes the full profile and marks it complete.
// Jobs posted by the recruiter keep a denormalized recruiter_name, so it is
// refreshed in the same transaction.
func (db *DB) UpdateRecruiterProfile(ctx context.Context, u *RecruiterProfileUpdate) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE recruiters SET
			full_name = $2, phone = $3, company_name = $4, company_website = $5,
			linkedin_url = $6, industry = $7, designation = $8,
			profile_complete = TRUE, updated_at = NOW()
		 WHERE id = $1`,
		u.ID, u.FullName, u.Phone, u.CompanyName, u.CompanyWebsite,
		u.LinkedInURL, u.Industry, u.Designation)
	if err != nil {
		return fmt.Errorf("failed to update recruiter profile: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE jobs SET recruiter_name = $2, company_name = $3, updated_at = NOW()
		 WHERE recruiter_id = $1`,
		u.ID, u.FullName, u.CompanyName)
	if err != nil {
		return fmt.Errorf("failed to refresh recruiter jobs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetRecruiterPhoto records a newly stored profile photo for the recruiter.
func (db *DB) SetRecruiterPhoto(ctx context.Context, id uuid.UUID, key string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE recruiters SET photo_key = $2, photo_updated_at = NOW(), updated_at = NOW()
		 WHERE id = $1`,
		id, key)
	if err != nil {
		return fmt.Errorf("failed to set recruiter photo: %w", err)
	}
	return nil
}

// RecruiterPhoneTaken reports whether another recruiter already registered
// the phone number.
func (db *DB) RecruiterPhoneTaken(ctx context.Context, selfID uuid.UUID, phone string) (bool, error) {
	var taken bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM recruiters WHERE phone = $1 AND id <> $2)`,
		phone, selfID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check recruiter phone: %w", err)
	}
	return taken, nil
}

// TouchRecruiterLogin stamps last_login for a successful login.
func (db *DB) TouchRecruiterLogin(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE recruiters SET last_login = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to touch recruiter login: %w", err)
	}
	return nil
}

// UpdateRecruiterPassword replaces the stored password hash.
func (db *DB) UpdateRecruiterPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE recruiters SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update recruiter password: %w", err)
	}
	return nil
}

