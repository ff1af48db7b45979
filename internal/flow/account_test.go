package flow

import (
	"context"
	"io"
	"testing"

	"rentoka/internal/domain"
	"rentoka/internal/gateway"
	"rentoka/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAccountFlow(gw *mockGateway, sessions *mockSessions) *AccountFlow {
	logger := zerolog.New(io.Discard)
	return NewAccountFlow(gw, sessions, &logger)
}

func TestAccountRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("MismatchRejectedBeforeNetwork", func(t *testing.T) {
		gw := new(mockGateway)
		a := newTestAccountFlow(gw, new(mockSessions))

		err := a.Register(ctx, "budi@example.com", "secret", "secrte")
		assert.ErrorIs(t, err, ErrPasswordMismatch)
		gw.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NameDefaultsToEmailLocalPart", func(t *testing.T) {
		gw := new(mockGateway)
		gw.On("Register", mock.Anything, "budi@example.com", "secret", "secret", "budi").Return(nil).Once()

		a := newTestAccountFlow(gw, new(mockSessions))
		require.NoError(t, a.Register(ctx, "budi@example.com", "secret", "secret"))
		gw.AssertExpectations(t)
	})
}

func TestAccountLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessStoresSession", func(t *testing.T) {
		gw := new(mockGateway)
		gw.On("Login", mock.Anything, "budi@example.com", "secret").
			Return(&domain.LoginResult{Token: "tok", CustomerID: "9"}, nil).Once()

		sessions := new(mockSessions)
		sessions.On("Set", mock.Anything, mock.MatchedBy(func(s *models.Session) bool {
			return s.UserID == 42 && s.Token == "tok" && s.CustomerID == "9" && s.Role == models.RoleCustomer
		})).Return(nil).Once()

		a := newTestAccountFlow(gw, sessions)
		session, err := a.Login(ctx, 42, "budi@example.com", "secret")
		require.NoError(t, err)
		assert.True(t, session.IsLoggedIn())
		sessions.AssertExpectations(t)
	})

	t.Run("ProviderIDSetsProviderRole", func(t *testing.T) {
		gw := new(mockGateway)
		gw.On("Login", mock.Anything, mock.Anything, mock.Anything).
			Return(&domain.LoginResult{Token: "tok", CustomerID: "9", ProviderID: "3"}, nil).Once()

		sessions := new(mockSessions)
		sessions.On("Set", mock.Anything, mock.Anything).Return(nil).Once()

		a := newTestAccountFlow(gw, sessions)
		session, err := a.Login(ctx, 42, "owner@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, models.RoleProvider, session.Role)
	})

	t.Run("InvalidCredentialsLocalized", func(t *testing.T) {
		gw := new(mockGateway)
		gw.On("Login", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &gateway.APIError{Endpoint: "/login", Message: "Invalid Credentials"}).Once()

		a := newTestAccountFlow(gw, new(mockSessions))
		_, err := a.Login(ctx, 42, "budi@example.com", "wrong")
		require.Error(t, err)
		assert.Equal(t, "Email atau Password salah!", err.Error())
	})

	t.Run("OtherReasonsPassThrough", func(t *testing.T) {
		gw := new(mockGateway)
		gw.On("Login", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &gateway.APIError{Endpoint: "/login", Message: "Account suspended"}).Once()

		a := newTestAccountFlow(gw, new(mockSessions))
		_, err := a.Login(ctx, 42, "budi@example.com", "secret")
		require.Error(t, err)
		assert.Equal(t, "Account suspended", err.Error())
	})

	t.Run("PlaceholderIDsRejected", func(t *testing.T) {
		gw := new(mockGateway)
		gw.On("Login", mock.Anything, mock.Anything, mock.Anything).
			Return(&domain.LoginResult{Token: "tok", CustomerID: "undefined"}, nil).Once()

		sessions := new(mockSessions)
		a := newTestAccountFlow(gw, sessions)
		_, err := a.Login(ctx, 42, "budi@example.com", "secret")
		require.Error(t, err)
		sessions.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
	})
}

func TestAccountLogout(t *testing.T) {
	sessions := new(mockSessions)
	sessions.On("Clear", mock.Anything, int64(42)).Return(nil).Once()

	a := newTestAccountFlow(new(mockGateway), sessions)
	require.NoError(t, a.Logout(context.Background(), 42))
	sessions.AssertExpectations(t)
}
