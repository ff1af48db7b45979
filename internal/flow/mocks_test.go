package flow

import (
	"context"
	"time"

	"rentoka/internal/domain"
	"rentoka/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResult), args.Error(1)
}

func (m *mockGateway) Register(ctx context.Context, email, password, confirmPassword, customerName string) error {
	args := m.Called(ctx, email, password, confirmPassword, customerName)
	return args.Error(0)
}

func (m *mockGateway) Vehicles(ctx context.Context, token, customerID string) ([]models.Vehicle, error) {
	args := m.Called(ctx, token, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vehicle), args.Error(1)
}

func (m *mockGateway) Profile(ctx context.Context, token, customerID string) (*models.Profile, error) {
	args := m.Called(ctx, token, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *mockGateway) UpdateProfile(ctx context.Context, token, customerID string, profile *models.Profile) error {
	args := m.Called(ctx, token, customerID, profile)
	return args.Error(0)
}

func (m *mockGateway) Transactions(ctx context.Context, token, customerID string) ([]models.Transaction, error) {
	args := m.Called(ctx, token, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *mockGateway) TransactionDetail(ctx context.Context, token string, transactionID int64) (*models.TransactionDetail, error) {
	args := m.Called(ctx, token, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransactionDetail), args.Error(1)
}

func (m *mockGateway) CreateTransaction(ctx context.Context, token string, req *models.CreateTransactionRequest) (int64, error) {
	args := m.Called(ctx, token, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGateway) CancelTransaction(ctx context.Context, token string, transactionID int64) error {
	args := m.Called(ctx, token, transactionID)
	return args.Error(0)
}

func (m *mockGateway) Pay(ctx context.Context, token string, req *models.PaymentRequest) error {
	args := m.Called(ctx, token, req)
	return args.Error(0)
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Get(ctx context.Context, userID int64) (*models.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *mockSessions) Set(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessions) Clear(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockSessions) Expire(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockSessions) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, userID, limit, window)
	return args.Bool(0), args.Error(1)
}
