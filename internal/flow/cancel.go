package flow

import (
	"context"
	"errors"
	"strings"
	"sync"

	"rentoka/internal/domain"
	"rentoka/internal/events"
	"rentoka/internal/gateway"
	"rentoka/internal/metrics"
	"rentoka/internal/models"

	"github.com/rs/zerolog"
)

type CancelState string

const (
	CancelClosed      CancelState = "closed"
	CancelReasonEntry CancelState = "reason_entry"
	CancelDone        CancelState = "done"
)

// CancellationFlow drives the cancellation of one IN_REVIEW transaction:
// detail fetch, reason entry, submit. The reason screen is shown immediately;
// the detail arrives asynchronously and is rendered as placeholders until
// then.
type CancellationFlow struct {
	userID      int64
	transaction models.Transaction

	gateway  domain.Gateway
	sessions domain.SessionManager
	eventBus domain.EventPublisher
	logger   *zerolog.Logger

	mu         sync.Mutex
	state      CancelState
	detail     *models.TransactionDetail
	reason     string
	submitting bool
}

func NewCancellationFlow(
	userID int64,
	transaction models.Transaction,
	gw domain.Gateway,
	sessions domain.SessionManager,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *CancellationFlow {
	return &CancellationFlow{
		userID:      userID,
		transaction: transaction,
		gateway:     gw,
		sessions:    sessions,
		eventBus:    eventBus,
		logger:      logger,
		state:       CancelClosed,
	}
}

func (f *CancellationFlow) State() CancelState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *CancellationFlow) Transaction() models.Transaction {
	return f.transaction
}

// Detail returns the fetched snapshot, nil while still loading or failed.
func (f *CancellationFlow) Detail() *models.TransactionDetail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detail
}

// Open enters reason entry. Only IN_REVIEW transactions expose the action;
// every other status gets ErrNotCancellable.
func (f *CancellationFlow) Open() error {
	if !f.transaction.Cancellable() {
		return ErrNotCancellable
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != CancelClosed {
		return ErrInvalidTransition
	}
	f.state = CancelReasonEntry
	metrics.IncFlowTransition("cancellation", string(CancelReasonEntry))
	return nil
}

// LoadDetail fetches the transaction snapshot shown above the reason field.
// Failure keeps the placeholders; a 401 still expires the session.
func (f *CancellationFlow) LoadDetail(ctx context.Context) error {
	session, err := f.sessions.Get(ctx, f.userID)
	if err != nil {
		return err
	}
	if !session.IsLoggedIn() {
		return ErrNotAuthenticated
	}

	detail, err := f.gateway.TransactionDetail(ctx, session.Token, f.transaction.ID)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			return f.expireSession(ctx)
		}
		f.logger.Warn().Err(err).Int64("transaction_id", f.transaction.ID).Msg("transaction detail fetch failed")
		return err
	}

	f.mu.Lock()
	f.detail = detail
	f.mu.Unlock()
	return nil
}

func (f *CancellationFlow) SetReason(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reason = reason
}

// Submit sends the cancellation request. An empty reason is rejected locally
// with no network call; business failures keep the flow open for retry.
func (f *CancellationFlow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state != CancelReasonEntry {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	if strings.TrimSpace(f.reason) == "" {
		f.mu.Unlock()
		return ErrEmptyReason
	}
	if f.submitting {
		f.mu.Unlock()
		return ErrCommitInFlight
	}
	f.submitting = true
	reason := f.reason
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	session, err := f.sessions.Get(ctx, f.userID)
	if err != nil {
		return err
	}
	if !session.IsLoggedIn() {
		return ErrNotAuthenticated
	}

	if err := f.gateway.CancelTransaction(ctx, session.Token, f.transaction.ID); err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			return f.expireSession(ctx)
		}
		f.logger.Warn().Err(err).Int64("transaction_id", f.transaction.ID).Msg("cancellation submit failed")
		return err
	}

	f.mu.Lock()
	f.state = CancelDone
	f.mu.Unlock()
	metrics.IncFlowTransition("cancellation", string(CancelDone))

	f.publishSubmitted(reason)
	return nil
}

func (f *CancellationFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = CancelClosed
}

func (f *CancellationFlow) expireSession(ctx context.Context) error {
	if err := f.sessions.Expire(ctx, f.userID); err != nil {
		f.logger.Error().Err(err).Int64("user_id", f.userID).Msg("failed to expire session")
	}
	return gateway.ErrUnauthorized
}

func (f *CancellationFlow) publishSubmitted(reason string) {
	if f.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		UserID:        f.userID,
		TransactionID: f.transaction.ID,
		VehicleName:   f.transaction.VehicleName,
		Reason:        reason,
	}
	if err := f.eventBus.PublishJSON(events.EventCancellationSubmitted, payload); err != nil {
		f.logger.Error().Err(err).Int64("transaction_id", f.transaction.ID).Msg("publish cancellation event error")
	}
}
