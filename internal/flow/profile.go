package flow

import (
	"context"
	"errors"
	"sync"

	"rentoka/internal/domain"
	"rentoka/internal/gateway"
	"rentoka/internal/models"

	"github.com/rs/zerolog"
)

// ProfileEditor is the field-by-field inline editor. Each field is either in
// view or edit mode; confirming an edit saves the whole profile in one call.
type ProfileEditor struct {
	userID int64

	gateway  domain.Gateway
	sessions domain.SessionManager
	logger   *zerolog.Logger

	mu      sync.Mutex
	profile models.Profile
	editing map[string]bool
	loaded  bool
}

func NewProfileEditor(userID int64, gw domain.Gateway, sessions domain.SessionManager, logger *zerolog.Logger) *ProfileEditor {
	return &ProfileEditor{
		userID:   userID,
		gateway:  gw,
		sessions: sessions,
		logger:   logger,
		editing:  make(map[string]bool),
	}
}

// Load fetches the profile. Without a valid session the caller must redirect
// to login; no profile request is made.
func (e *ProfileEditor) Load(ctx context.Context) error {
	session, err := e.sessions.Get(ctx, e.userID)
	if err != nil {
		return err
	}
	if !session.IsLoggedIn() {
		return ErrNotAuthenticated
	}

	profile, err := e.gateway.Profile(ctx, session.Token, session.CustomerID)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			return e.expireSession(ctx)
		}
		return err
	}

	e.mu.Lock()
	e.profile = *profile
	e.loaded = true
	e.mu.Unlock()
	return nil
}

func (e *ProfileEditor) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

func (e *ProfileEditor) Profile() models.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile
}

// StartEdit switches a field to edit mode.
func (e *ProfileEditor) StartEdit(field string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.editing[field] = true
}

// CancelEdit returns a field to view mode without saving.
func (e *ProfileEditor) CancelEdit(field string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.editing, field)
}

func (e *ProfileEditor) Editing(field string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editing[field]
}

// SetField stages a new value for a field in edit mode.
func (e *ProfileEditor) SetField(field, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profile.SetValue(field, value)
}

// Save sends the whole profile, not just the edited field. Success exits edit
// mode for that field; failure leaves it editable so the user can retry.
func (e *ProfileEditor) Save(ctx context.Context, field string) error {
	session, err := e.sessions.Get(ctx, e.userID)
	if err != nil {
		return err
	}
	if !session.IsLoggedIn() {
		return ErrNotAuthenticated
	}

	e.mu.Lock()
	profile := e.profile
	e.mu.Unlock()

	if err := e.gateway.UpdateProfile(ctx, session.Token, session.CustomerID, &profile); err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			return e.expireSession(ctx)
		}
		e.logger.Warn().Err(err).Int64("user_id", e.userID).Str("field", field).Msg("profile save failed")
		return err
	}

	e.mu.Lock()
	delete(e.editing, field)
	e.mu.Unlock()
	return nil
}

func (e *ProfileEditor) expireSession(ctx context.Context) error {
	if err := e.sessions.Expire(ctx, e.userID); err != nil {
		e.logger.Error().Err(err).Int64("user_id", e.userID).Msg("failed to expire session")
	}
	return gateway.ErrUnauthorized
}
