package service

import (
	"context"
	"time"

	"rentoka/internal/domain"
	"rentoka/internal/events"
	"rentoka/internal/models"

	"github.com/rs/zerolog"
)

// SessionService is the single session context shared by every screen.
// Reads and writes go through here, never to the repository directly, so the
// event bus can tell dependent screens about updates and expiries.
type SessionService struct {
	sessionRepo domain.SessionRepository
	eventBus    domain.EventPublisher
	logger      *zerolog.Logger
}

func NewSessionService(sessionRepo domain.SessionRepository, eventBus domain.EventPublisher, logger *zerolog.Logger) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Get returns the stored session, or nil when the user never logged in or the
// stored record holds placeholder values.
func (s *SessionService) Get(ctx context.Context, userID int64) (*models.Session, error) {
	session, err := s.sessionRepo.GetSession(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get session")
		return nil, err
	}
	if session != nil && !session.IsLoggedIn() {
		// Legacy records may carry "null"/"undefined" strings.
		return nil, nil
	}

	return session, nil
}

func (s *SessionService) Set(ctx context.Context, session *models.Session) error {
	if err := s.sessionRepo.SetSession(ctx, session); err != nil {
		return err
	}

	s.publish(events.EventSessionUpdated, session.UserID, session.CustomerID, session.Role)
	return nil
}

// Clear removes the session, e.g. on logout.
func (s *SessionService) Clear(ctx context.Context, userID int64) error {
	if err := s.sessionRepo.ClearSession(ctx, userID); err != nil {
		return err
	}

	s.publish(events.EventSessionUpdated, userID, "", "")
	return nil
}

// Expire removes the session after a 401 from any authenticated endpoint and
// announces the expiry so every flow returns the user to the login entry.
func (s *SessionService) Expire(ctx context.Context, userID int64) error {
	if err := s.sessionRepo.ClearSession(ctx, userID); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to clear expired session")
		return err
	}

	s.publish(events.EventSessionExpired, userID, "", "")
	return nil
}

func (s *SessionService) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return s.sessionRepo.CheckRateLimit(ctx, userID, limit, window)
}

func (s *SessionService) publish(eventType string, userID int64, customerID, role string) {
	if s.eventBus == nil {
		return
	}

	payload := events.SessionEventPayload{UserID: userID, CustomerID: customerID, Role: role}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("user_id", userID).Msg("publish session event error")
	}
}
