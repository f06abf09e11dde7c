package game

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/scerios/quiz/domain"
)

// --- Store ---

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ClearPlayerByConnection(ctx context.Context, connectionID string) error {
	args := m.Called(ctx, connectionID)
	return args.Error(0)
}

func (m *MockStore) SetPlayerStatusAndConnection(ctx context.Context, id int64, loggedIn bool, connectionID string) error {
	args := m.Called(ctx, id, loggedIn, connectionID)
	return args.Error(0)
}

func (m *MockStore) GetPlayerByID(ctx context.Context, id int64) (domain.Player, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Player), args.Error(1)
}

func (m *MockStore) SetCategoryQuestionIndex(ctx context.Context, categoryID int64, index int) error {
	args := m.Called(ctx, categoryID, index)
	return args.Error(0)
}

func (m *MockStore) NextTwoQuestions(ctx context.Context, categoryID int64, index int) ([]domain.Question, error) {
	args := m.Called(ctx, categoryID, index)
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockStore) SetCategoryLimit(ctx context.Context, limit int) error {
	args := m.Called(ctx, limit)
	return args.Error(0)
}

func (m *MockStore) AdjustPlayerPoint(ctx context.Context, id int64, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockStore) ListLoggedInPlayers(ctx context.Context) ([]domain.Player, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Player), args.Error(1)
}

func (m *MockStore) SetPlayerStatus(ctx context.Context, id int64, loggedIn bool) error {
	args := m.Called(ctx, id, loggedIn)
	return args.Error(0)
}

// --- NetConn ---

type MockNetConn struct {
	mock.Mock
}

func (m *MockNetConn) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockNetConn) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockNetConn) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockNetConn) Close(reason string) {
	m.Called(reason)
}

// --- PeriodicTickerCreator ---

type MockPeriodicTickerCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerCreator) Create(duration time.Duration) <-chan time.Time {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time)
}
