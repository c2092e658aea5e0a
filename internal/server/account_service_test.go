package server

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerbridge/careerbridge/internal/config"
	"github.com/careerbridge/careerbridge/internal/db"
)

// stubStore is an in-memory AccountStore.
type stubStore struct {
	students   map[string]*db.Student
	recruiters map[string]*db.Recruiter
	createErr  error
}

func newStubStore() *stubStore {
	return &stubStore{
		students:   make(map[string]*db.Student),
		recruiters: make(map[string]*db.Recruiter),
	}
}

func (s *stubStore) empty() bool {
	return len(s.students)+len(s.recruiters) == 0
}

func (s *stubStore) CreateStudent(_ context.Context, username, email, hash string) (uuid.UUID, bool, error) {
	if s.createErr != nil {
		return uuid.Nil, false, s.createErr
	}
	id := uuid.New()
	isAdmin := s.empty()
	s.students[email] = &db.Student{ID: id, Username: username, Email: email, PasswordHash: hash, IsAdmin: isAdmin}
	return id, isAdmin, nil
}

func (s *stubStore) GetStudent(_ context.Context, id uuid.UUID) (*db.Student, error) {
	for _, st := range s.students {
		if st.ID == id {
			return st, nil
		}
	}
	return nil, nil
}

func (s *stubStore) GetStudentByEmail(_ context.Context, email string) (*db.Student, error) {
	return s.students[email], nil
}

func (s *stubStore) TouchStudentLogin(_ context.Context, _ uuid.UUID) error { return nil }

func (s *stubStore) UpdateStudentPassword(_ context.Context, id uuid.UUID, hash string) error {
	for _, st := range s.students {
		if st.ID == id {
			st.PasswordHash = hash
		}
	}
	return nil
}

func (s *stubStore) CreateRecruiter(_ context.Context, username, email, hash string) (uuid.UUID, bool, error) {
	if s.createErr != nil {
		return uuid.Nil, false, s.createErr
	}
	id := uuid.New()
	isAdmin := s.empty()
	s.recruiters[email] = &db.Recruiter{ID: id, Username: username, Email: email, PasswordHash: hash, IsAdmin: isAdmin}
	return id, isAdmin, nil
}

func (s *stubStore) GetRecruiter(_ context.Context, id uuid.UUID) (*db.Recruiter, error) {
	for _, rec := range s.recruiters {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, nil
}

func (s *stubStore) GetRecruiterByEmail(_ context.Context, email string) (*db.Recruiter, error) {
	return s.recruiters[email], nil
}

func (s *stubStore) TouchRecruiterLogin(_ context.Context, _ uuid.UUID) error { return nil }

func (s *stubStore) UpdateRecruiterPassword(_ context.Context, id uuid.UUID, hash string) error {
	for _, rec := range s.recruiters {
		if rec.ID == id {
			rec.PasswordHash = hash
		}
	}
	return nil
}

func testService(store AccountStore) *AccountService {
	return NewAccountService(store, &config.PasswordConfig{BcryptCost: 4})
}

func TestCheckPasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Passw0rd", false},
		{"too short", "Pw1", true},
		{"no uppercase", "password1", true},
		{"no lowercase", "PASSWORD1", true},
		{"no digit", "Password", true},
		{"long valid", "CorrectHorseBattery1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterFirstAccountIsAdmin(t *testing.T) {
	store := newStubStore()
	svc := testService(store)

	first, err := svc.Register(context.Background(), db.RoleStudent, "alice", "Alice@Example.com", "Passw0rd")
	require.NoError(t, err)
	assert.True(t, first.IsAdmin)
	assert.Equal(t, "alice@example.com", first.Email)

	second, err := svc.Register(context.Background(), db.RoleRecruiter, "bob", "bob@example.com", "Passw0rd")
	require.NoError(t, err)
	assert.False(t, second.IsAdmin)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc := testService(newStubStore())

	_, err := svc.Register(context.Background(), db.RoleStudent, "alice", "alice@example.com", "weak")
	assert.ErrorAs(t, err, new(*ErrWeakPassword))
}

func TestRegisterUnknownRole(t *testing.T) {
	svc := testService(newStubStore())

	_, err := svc.Register(context.Background(), "wizard", "alice", "alice@example.com", "Passw0rd")
	assert.ErrorAs(t, err, new(*ErrValidation))
}

func TestLoginRoundTrip(t *testing.T) {
	store := newStubStore()
	svc := testService(store)

	_, err := svc.Register(context.Background(), db.RoleRecruiter, "bob", "bob@example.com", "Passw0rd")
	require.NoError(t, err)

	account, err := svc.Login(context.Background(), db.RoleRecruiter, "BOB@example.com", "Passw0rd")
	require.NoError(t, err)
	assert.Equal(t, db.RoleRecruiter, account.Role)
	assert.Equal(t, "bob", account.Username)
}

func TestLoginGenericError(t *testing.T) {
	store := newStubStore()
	svc := testService(store)

	_, err := svc.Register(context.Background(), db.RoleStudent, "alice", "alice@example.com", "Passw0rd")
	require.NoError(t, err)

	// Unknown email and wrong password must be indistinguishable.
	_, unknownErr := svc.Login(context.Background(), db.RoleStudent, "nobody@example.com", "Passw0rd")
	_, wrongErr := svc.Login(context.Background(), db.RoleStudent, "alice@example.com", "Wrong0rd")
	assert.ErrorAs(t, unknownErr, new(*ErrInvalidCredentials))
	assert.ErrorAs(t, wrongErr, new(*ErrInvalidCredentials))
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestChangePassword(t *testing.T) {
	store := newStubStore()
	svc := testService(store)

	account, err := svc.Register(context.Background(), db.RoleStudent, "alice", "alice@example.com", "Passw0rd")
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), db.RoleStudent, account.ID, "Wrong0rd", "NewPassw0rd")
	assert.ErrorAs(t, err, new(*ErrPasswordMismatch))

	err = svc.ChangePassword(context.Background(), db.RoleStudent, account.ID, "Passw0rd", "NewPassw0rd")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), db.RoleStudent, "alice@example.com", "NewPassw0rd")
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), db.RoleStudent, "alice@example.com", "Passw0rd")
	assert.Error(t, err)
}

func TestChangePasswordUnknownAccount(t *testing.T) {
	svc := testService(newStubStore())

	err := svc.ChangePassword(context.Background(), db.RoleRecruiter, uuid.New(), "Passw0rd", "NewPassw0rd")
	assert.ErrorAs(t, err, new(*ErrAccountNotFound))
}
