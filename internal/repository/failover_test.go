package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"rentoka/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetSession(ctx context.Context, userID int64) (*models.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *mockRepo) SetSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockRepo) ClearSession(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockRepo) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, userID, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestFailoverSessionRepository(t *testing.T) {
	logger := zerolog.New(io.Discard)
	ctx := context.Background()

	t.Run("PrimaryHealthy", func(t *testing.T) {
		primary := new(mockRepo)
		fallback := new(mockRepo)
		repo := NewFailoverSessionRepository(primary, fallback, &logger)

		session := &models.Session{UserID: 1, Token: "tok", CustomerID: "9"}
		primary.On("GetSession", ctx, int64(1)).Return(session, nil).Once()

		got, err := repo.GetSession(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, session, got)
		primary.AssertExpectations(t)
		fallback.AssertNotCalled(t, "GetSession", mock.Anything, mock.Anything)
	})

	t.Run("GetFailsOverToFallback", func(t *testing.T) {
		primary := new(mockRepo)
		fallback := new(mockRepo)
		repo := NewFailoverSessionRepository(primary, fallback, &logger)

		primary.On("GetSession", ctx, int64(2)).Return(nil, errors.New("redis down")).Once()
		fallback.On("GetSession", ctx, int64(2)).Return(nil, nil).Once()

		got, err := repo.GetSession(ctx, 2)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.True(t, repo.isDown.Load())
	})

	t.Run("SetUsesFallbackWhileDown", func(t *testing.T) {
		primary := new(mockRepo)
		fallback := new(mockRepo)
		repo := NewFailoverSessionRepository(primary, fallback, &logger)
		repo.isDown.Store(true)
		repo.lastCheck = time.Now()

		session := &models.Session{UserID: 3, Token: "tok", CustomerID: "9"}
		fallback.On("SetSession", ctx, session).Return(nil).Once()

		require.NoError(t, repo.SetSession(ctx, session))
		primary.AssertNotCalled(t, "SetSession", mock.Anything, mock.Anything)
		fallback.AssertExpectations(t)
	})

	t.Run("PrimaryRetriedAfterRecoveryWindow", func(t *testing.T) {
		primary := new(mockRepo)
		fallback := new(mockRepo)
		repo := NewFailoverSessionRepository(primary, fallback, &logger)
		repo.isDown.Store(true)
		repo.lastCheck = time.Now().Add(-2 * time.Minute)

		session := &models.Session{UserID: 4, Token: "tok", CustomerID: "9"}
		primary.On("GetSession", ctx, int64(4)).Return(session, nil).Once()

		got, err := repo.GetSession(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, session, got)
		assert.False(t, repo.isDown.Load())
	})

	t.Run("RateLimitFailover", func(t *testing.T) {
		primary := new(mockRepo)
		fallback := new(mockRepo)
		repo := NewFailoverSessionRepository(primary, fallback, &logger)

		primary.On("CheckRateLimit", ctx, int64(6), 10, time.Minute).Return(false, errors.New("fail")).Once()
		fallback.On("CheckRateLimit", ctx, int64(6), 10, time.Minute).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, 6, 10, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}
