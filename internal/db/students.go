package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const studentColumns = `id, username, email, password_hash, full_name,
	COALESCE(phone, ''), dob, gender, address, college, branch, degree,
	current_year, graduation_year, cgpa, tenth_marks, twelfth_marks, backlogs,
	technical_skills, soft_skills, certifications,
	COALESCE(resume_key, ''), COALESCE(resume_filename, ''), resume_updated_at,
	COALESCE(photo_key, ''), photo_updated_at,
	profile_complete, is_admin, last_login, created_at, updated_at`

func scanStudent(row pgx.Row) (*Student, error) {
	var s Student
	err := row.Scan(&s.ID, &s.Username, &s.Email, &s.PasswordHash, &s.FullName,
		&s.Phone, &s.DOB, &s.Gender, &s.Address, &s.College, &s.Branch, &s.Degree,
		&s.CurrentYear, &s.GraduationYear, &s.CGPA, &s.TenthMarks, &s.TwelfthMarks, &s.Backlogs,
		&s.TechnicalSkills, &s.SoftSkills, &s.Certifications,
		&s.ResumeKey, &s.ResumeFilename, &s.ResumeUpdatedAt,
		&s.PhotoKey, &s.PhotoUpdatedAt,
		&s.ProfileComplete, &s.IsAdmin, &s.LastLogin, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// CreateStudent inserts a new student account and returns its ID, along
// with whether it became the platform's first administrator.
func (db *DB) CreateStudent(ctx context.Context, username, email, passwordHash string) (uuid.UUID, bool, error) {
	return db.createAccount(ctx, "students", username, email, passwordHash)
}

// GetStudent retrieves a student by ID. Returns nil if not found.
func (db *DB) GetStudent(ctx context.Context, id uuid.UUID) (*Student, error) {
	s, err := scanStudent(db.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return s, nil
}

// GetStudentByEmail retrieves a student by email. Returns nil if not found.
func (db *DB) GetStudentByEmail(ctx context.Context, email string) (*Student, error) {
	s, err := scanStudent(db.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE email = $1`, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get student by email: %w", err)
	}
	return s, nil
}

// UpdateStudentProfile writes the full profile and marks it complete.
func (db *DB) UpdateStudentProfile(ctx context.Context, u *StudentProfileUpdate) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE students SET
			full_name = $2, phone = $3, dob = $4, gender = $5, address = $6,
			college = $7, branch = $8, degree = $9, current_year = $10,
			graduation_year = $11, cgpa = $12, tenth_marks = $13,
			twelfth_marks = $14, backlogs = $15, technical_skills = $16,
			soft_skills = $17, certifications = $18,
			profile_complete = TRUE, updated_at = NOW()
		 WHERE id = $1`,
		u.ID, u.FullName, u.Phone, u.DOB, u.Gender, u.Address,
		u.College, u.Branch, u.Degree, u.CurrentYear,
		u.GraduationYear, u.CGPA, u.TenthMarks,
		u.TwelfthMarks, u.Backlogs, u.TechnicalSkills,
		u.SoftSkills, u.Certifications)
	if err != nil {
		return fmt.Errorf("failed to update student profile: %w", err)
	}
	return nil
}

// SetStudentResume records a newly stored resume blob for the student.
func (db *DB) SetStudentResume(ctx context.Context, id uuid.UUID, key, filename string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE students SET resume_key = $2, resume_filename = $3,
			resume_updated_at = NOW(), updated_at = NOW()
		 WHERE id = $1`,
		id, key, filename)
	if err != nil {
		return fmt.Errorf("failed to set student resume: %w", err)
	}
	return nil
}

// SetStudentPhoto records a newly stored profile photo for the student.
func (db *DB) SetStudentPhoto(ctx context.Context, id uuid.UUID, key string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE students SET photo_key = $2, photo_updated_at = NOW(), updated_at = NOW()
		 WHERE id = $1`,
		id, key)
	if err != nil {
		return fmt.Errorf("failed to set student photo: %w", err)
	}
	return nil
}

// StudentPhoneTaken reports whether another student already registered the
// phone number.
func (db *DB) StudentPhoneTaken(ctx context.Context, selfID uuid.UUID, phone string) (bool, error) {
	var taken bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM students WHERE phone = $1 AND id <> $2)`,
		phone, selfID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check student phone: %w", err)
	}
	return taken, nil
}

// TouchStudentLogin stamps last_login for a successful login.
func (db *DB) TouchStudentLogin(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE students SET last_login = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to touch student login: %w", err)
	}
	return nil
}

// UpdateStudentPassword replaces the stored password hash.
func (db *DB) UpdateStudentPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE students SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update student password: %w", err)
	}
	return nil
}
