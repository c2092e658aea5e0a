package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Serializes first-account registration so exactly one account can win the
// bootstrap admin flag.
const firstAdminLockKey = 8217460331

func (db *DB) createAccount(ctx context.Context, table, username, email, passwordHash string) (uuid.UUID, bool, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, firstAdminLockKey); err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to acquire registration lock: %w", err)
	}

	var total int
	err = tx.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM students) + (SELECT COUNT(*) FROM recruiters)`,
	).Scan(&total)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to count accounts: %w", err)
	}
	isAdmin := total == 0

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO `+table+` (username, email, password_hash, is_admin)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		username, email, passwordHash, isAdmin,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to create account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to commit registration: %w", err)
	}
	return id, isAdmin, nil
}

// ListAccounts returns a combined admin view of students and recruiters,
// newest first. role narrows to one table; empty returns both.
func (db *DB) ListAccounts(ctx context.Context, role string) ([]*AccountSummary, error) {
	query := `
		SELECT id, 'student' AS role, username, email, COALESCE(phone, ''),
			'' AS company_name, is_admin, profile_complete, last_login, created_at
		FROM students`
	switch role {
	case RoleStudent:
		// students only
	case RoleRecruiter:
		query = ""
	default:
		query += `
		UNION ALL`
	}
	if role != RoleStudent {
		query += `
		SELECT id, 'recruiter' AS role, username, email, COALESCE(phone, ''),
			company_name, is_admin, profile_complete, last_login, created_at
		FROM recruiters`
	}
	query += `
		ORDER BY created_at DESC`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var out []*AccountSummary
	for rows.Next() {
		var a AccountSummary
		err := rows.Scan(&a.ID, &a.Role, &a.Username, &a.Email, &a.Phone,
			&a.CompanyName, &a.IsAdmin, &a.ProfileComplete, &a.LastLogin, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return out, nil
}

func accountTable(role string) (string, error) {
	switch role {
	case RoleStudent:
		return "students", nil
	case RoleRecruiter:
		return "recruiters", nil
	default:
		return "", fmt.Errorf("unknown account role %q", role)
	}
}

// SetAccountAdmin grants or revokes admin on an account. Returns false if
// the account does not exist.
func (db *DB) SetAccountAdmin(ctx context.Context, role string, id uuid.UUID, isAdmin bool) (bool, error) {
	table, err := accountTable(role)
	if err != nil {
		return false, err
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE `+table+` SET is_admin = $2, updated_at = NOW() WHERE id = $1`,
		id, isAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to set account admin: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateAccountIdentity rewrites an account's username, email and phone from
// the admin console. An empty phone clears the stored number. Returns false
// if the account does not exist.
func (db *DB) UpdateAccountIdentity(ctx context.Context, role string, id uuid.UUID, username, email, phone string) (bool, error) {
	table, err := accountTable(role)
	if err != nil {
		return false, err
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE `+table+` SET username = $2, email = $3, phone = NULLIF($4, ''), updated_at = NOW()
		 WHERE id = $1`,
		id, username, email, phone)
	if err != nil {
		return false, fmt.Errorf("failed to update account identity: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetAccountPassword stores a new password hash for an account from the
// admin console. Returns false if the account does not exist.
func (db *DB) SetAccountPassword(ctx context.Context, role string, id uuid.UUID, passwordHash string) (bool, error) {
	table, err := accountTable(role)
	if err != nil {
		return false, err
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE `+table+` SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return false, fmt.Errorf("failed to set account password: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteAccount removes an account. Jobs, applications and interviews
// referencing it cascade. Returns false if the account does not exist.
func (db *DB) DeleteAccount(ctx context.Context, role string, id uuid.UUID) (bool, error) {
	table, err := accountTable(role)
	if err != nil {
		return false, err
	}
	tag, err := db.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete account: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
