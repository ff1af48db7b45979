package flow

import (
	"context"
	"strings"

	"rentoka/internal/domain"
	"rentoka/internal/gateway"
	"rentoka/internal/models"

	"github.com/rs/zerolog"
)

// msgInvalidCredentials replaces the raw server reason for failed logins.
const msgInvalidCredentials = "Email atau Password salah!"

// AccountFlow covers login and registration: single-step validate-then-submit,
// no multi-step state.
type AccountFlow struct {
	gateway  domain.Gateway
	sessions domain.SessionManager
	logger   *zerolog.Logger
}

func NewAccountFlow(gw domain.Gateway, sessions domain.SessionManager, logger *zerolog.Logger) *AccountFlow {
	return &AccountFlow{
		gateway:  gw,
		sessions: sessions,
		logger:   logger,
	}
}

// Register creates an account. Password and confirmation must match before
// any network call; the display name defaults to the local part of the email.
// On success the visitor proceeds to login manually.
func (a *AccountFlow) Register(ctx context.Context, email, password, confirmPassword string) error {
	if password != confirmPassword {
		return ErrPasswordMismatch
	}

	customerName := email
	if at := strings.Index(email, "@"); at > 0 {
		customerName = email[:at]
	}

	if err := a.gateway.Register(ctx, email, password, confirmPassword, customerName); err != nil {
		return err
	}

	a.logger.Info().Str("email", email).Msg("account registered")
	return nil
}

// Login authenticates and stores the session: token, customer id and a role
// derived from whether the account carries a provider id. The server's
// "Invalid Credentials" reason is replaced with a friendlier localized
// message; other reasons pass through verbatim.
func (a *AccountFlow) Login(ctx context.Context, userID int64, email, password string) (*models.Session, error) {
	result, err := a.gateway.Login(ctx, email, password)
	if err != nil {
		if apiErr := gateway.AsAPIError(err); apiErr != nil && apiErr.Message == "Invalid Credentials" {
			apiErr.Message = msgInvalidCredentials
		}
		return nil, err
	}

	role := models.RoleCustomer
	if result.ProviderID != "" {
		role = models.RoleProvider
	}

	session := &models.Session{
		UserID:     userID,
		Token:      result.Token,
		CustomerID: result.CustomerID,
		Role:       role,
	}
	if !session.IsLoggedIn() {
		// A success envelope may still carry placeholder ids.
		return nil, &gateway.APIError{Endpoint: "/login", Message: msgInvalidCredentials}
	}

	if err := a.sessions.Set(ctx, session); err != nil {
		return nil, err
	}

	a.logger.Info().Int64("user_id", userID).Str("id_customer", session.CustomerID).Str("role", role).Msg("login successful")
	return session, nil
}

// Logout clears the stored session.
func (a *AccountFlow) Logout(ctx context.Context, userID int64) error {
	return a.sessions.Clear(ctx, userID)
}
