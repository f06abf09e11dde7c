package auth

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/scerios/quiz/domain"
	"github.com/scerios/quiz/sessions"
)

// --- PlayerRepo ---

type MockPlayerRepo struct {
	mock.Mock
}

func (m *MockPlayerRepo) CreatePlayer(ctx context.Context, name, passwordHash string) (int64, error) {
	args := m.Called(ctx, name, passwordHash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlayerRepo) GetPlayerByName(ctx context.Context, name string) (domain.PlayerCredentials, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.PlayerCredentials), args.Error(1)
}

func (m *MockPlayerRepo) SetPlayerStatus(ctx context.Context, id int64, loggedIn bool) error {
	args := m.Called(ctx, id, loggedIn)
	return args.Error(0)
}

// --- AdminRepo ---

type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) GetAdminByName(ctx context.Context, name string) (domain.AdminCredentials, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.AdminCredentials), args.Error(1)
}

// --- PasswordHasher ---

type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) (bool, error) {
	args := m.Called(hash, password)
	return args.Bool(0), args.Error(1)
}

// --- TokenManager ---

type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) Generate(subject string, now time.Time) (string, error) {
	args := m.Called(subject, now)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

// --- SessionStore ---

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, sess sessions.Session) (string, error) {
	args := m.Called(ctx, sess)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) Get(ctx context.Context, sid string) (sessions.Session, error) {
	args := m.Called(ctx, sid)
	return args.Get(0).(sessions.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, sid string) error {
	args := m.Called(ctx, sid)
	return args.Error(0)
}
