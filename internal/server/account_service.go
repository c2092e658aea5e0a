package server

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge/internal/config"
	"github.com/careerbridge/careerbridge/internal/db"
)

// AccountStore is the subset of database operations the account service
// needs. Tests substitute a stub.
type AccountStore interface {
	CreateStudent(ctx context.Context, username, email, passwordHash string) (uuid.UUID, bool, error)
	GetStudent(ctx context.Context, id uuid.UUID) (*db.Student, error)
	GetStudentByEmail(ctx context.Context, email string) (*db.Student, error)
	TouchStudentLogin(ctx context.Context, id uuid.UUID) error
	UpdateStudentPassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	CreateRecruiter(ctx context.Context, username, email, passwordHash string) (uuid.UUID, bool, error)
	GetRecruiter(ctx context.Context, id uuid.UUID) (*db.Recruiter, error)
	GetRecruiterByEmail(ctx context.Context, email string) (*db.Recruiter, error)
	TouchRecruiterLogin(ctx context.Context, id uuid.UUID) error
	UpdateRecruiterPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// Account is the role-neutral view of an authenticated account.
type Account struct {
	ID              uuid.UUID `json:"id"`
	Role            string    `json:"role"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	IsAdmin         bool      `json:"is_admin"`
	ProfileComplete bool      `json:"profile_complete"`
}

// AccountService implements registration, login and password changes for
// both account roles.
type AccountService struct {
	store          AccountStore
	passwordConfig *config.PasswordConfig
}

// NewAccountService creates an AccountService.
func NewAccountService(store AccountStore, passwordConfig *config.PasswordConfig) *AccountService {
	return &AccountService{store: store, passwordConfig: passwordConfig}
}

// CheckPasswordStrength enforces the platform password policy: at least 8
// characters with an uppercase letter, a lowercase letter and a digit.
func CheckPasswordStrength(password string) error {
	if len(password) < 8 {
		return &ErrWeakPassword{}
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return &ErrWeakPassword{}
	}
	return nil
}

// Register creates an account. The first account on the platform becomes
// an administrator.
func (s *AccountService) Register(ctx context.Context, role, username, email, password string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if err := CheckPasswordStrength(password); err != nil {
		return nil, err
	}

	passwordHash, err := s.passwordConfig.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// The store decides admin-ness under a registration lock so the
	// first account on the platform is promoted exactly once.
	var id uuid.UUID
	var isAdmin bool
	switch role {
	case db.RoleStudent:
		id, isAdmin, err = s.store.CreateStudent(ctx, username, email, passwordHash)
	case db.RoleRecruiter:
		id, isAdmin, err = s.store.CreateRecruiter(ctx, username, email, passwordHash)
	default:
		return nil, &ErrValidation{Field: "role", Message: "unknown role"}
	}
	if err != nil {
		switch constraint := db.ViolatedConstraint(err); {
		case strings.Contains(constraint, "email"):
			return nil, &ErrEmailAlreadyExists{Email: email}
		case strings.Contains(constraint, "username"):
			return nil, &ErrUsernameAlreadyExists{Username: username}
		}
		return nil, err
	}

	return &Account{
		ID:       id,
		Role:     role,
		Username: username,
		Email:    email,
		IsAdmin:  isAdmin,
	}, nil
}

// Login authenticates an account by email and password.
func (s *AccountService) Login(ctx context.Context, role, email, password string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	switch role {
	case db.RoleStudent:
		student, err := s.store.GetStudentByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		// A generic error for both unknown email and wrong password.
		if student == nil || !s.passwordConfig.VerifyPassword(password, student.PasswordHash) {
			return nil, &ErrInvalidCredentials{}
		}
		if err := s.store.TouchStudentLogin(ctx, student.ID); err != nil {
			return nil, err
		}
		return &Account{
			ID:              student.ID,
			Role:            db.RoleStudent,
			Username:        student.Username,
			Email:           student.Email,
			IsAdmin:         student.IsAdmin,
			ProfileComplete: student.ProfileComplete,
		}, nil
	case db.RoleRecruiter:
		recruiter, err := s.store.GetRecruiterByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if recruiter == nil || !s.passwordConfig.VerifyPassword(password, recruiter.PasswordHash) {
			return nil, &ErrInvalidCredentials{}
		}
		if err := s.store.TouchRecruiterLogin(ctx, recruiter.ID); err != nil {
			return nil, err
		}
		return &Account{
			ID:              recruiter.ID,
			Role:            db.RoleRecruiter,
			Username:        recruiter.Username,
			Email:           recruiter.Email,
			IsAdmin:         recruiter.IsAdmin,
			ProfileComplete: recruiter.ProfileComplete,
		}, nil
	default:
		return nil, &ErrValidation{Field: "role", Message: "unknown role"}
	}
}

// HashNewPassword checks strength and hashes a password without any current
// password verification, for the admin console.
func (s *AccountService) HashNewPassword(password string) (string, error) {
	if err := CheckPasswordStrength(password); err != nil {
		return "", err
	}
	hash, err := s.passwordConfig.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// ChangePassword verifies the current password and stores a new one.
func (s *AccountService) ChangePassword(ctx context.Context, role string, id uuid.UUID, currentPassword, newPassword string) error {
	if err := CheckPasswordStrength(newPassword); err != nil {
		return err
	}

	var currentHash string
	switch role {
	case db.RoleStudent:
		student, err := s.store.GetStudent(ctx, id)
		if err != nil {
			return err
		}
		if student == nil {
			return &ErrAccountNotFound{ID: id}
		}
		currentHash = student.PasswordHash
	case db.RoleRecruiter:
		recruiter, err := s.store.GetRecruiter(ctx, id)
		if err != nil {
			return err
		}
		if recruiter == nil {
			return &ErrAccountNotFound{ID: id}
		}
		currentHash = recruiter.PasswordHash
	default:
		return &ErrValidation{Field: "role", Message: "unknown role"}
	}

	if !s.passwordConfig.VerifyPassword(currentPassword, currentHash) {
		return &ErrPasswordMismatch{}
	}

	newHash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if role == db.RoleStudent {
		return s.store.UpdateStudentPassword(ctx, id, newHash)
	}
	return s.store.UpdateRecruiterPassword(ctx, id, newHash)
}
