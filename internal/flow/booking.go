package flow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"rentoka/internal/domain"
	"rentoka/internal/events"
	"rentoka/internal/gateway"
	"rentoka/internal/metrics"
	"rentoka/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingState is the single current screen of the booking flow. One enum
// replaces the legacy per-modal boolean flags, so two modals can never be
// visible at once.
type BookingState string

const (
	BookingClosed        BookingState = "closed"
	BookingForm          BookingState = "form"
	BookingPaymentSelect BookingState = "payment_select"
	BookingConfirm       BookingState = "confirm"
	BookingFinalCheck    BookingState = "final_check"
	BookingSuccess       BookingState = "success"
)

// bookingTransitions is the explicit transition table. Closing a later modal
// returns to the form, which is the base screen of the flow.
var bookingTransitions = map[BookingState][]BookingState{
	BookingClosed:        {BookingForm},
	BookingForm:          {BookingPaymentSelect, BookingClosed},
	BookingPaymentSelect: {BookingConfirm, BookingForm, BookingClosed},
	BookingConfirm:       {BookingFinalCheck, BookingForm, BookingClosed},
	BookingFinalCheck:    {BookingSuccess, BookingForm, BookingClosed},
	BookingSuccess:       {BookingClosed},
}

// Draft is the transient booking form. It lives only as long as the flow and
// is never persisted.
type Draft struct {
	RenterName   string
	Email        string
	Address      string
	PhoneNumber  string
	IDCardNumber string
	StartDate    time.Time
	EndDate      time.Time
}

// Quote is the state derived from the selected dates.
type Quote struct {
	Days       int64
	TotalPrice int64
}

// ComputeQuote derives rental duration and total price. Duration is the
// ceiling of the date difference in days, and both values are zero unless the
// return date is strictly after the start date.
func ComputeQuote(start, end time.Time, pricePerDay int64) Quote {
	if !end.After(start) {
		return Quote{}
	}
	diff := end.Sub(start)
	days := int64(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return Quote{Days: days, TotalPrice: days * pricePerDay}
}

// BookingFlow drives one vehicle booking for one user from the rental form
// through payment to success. All remote work happens in Commit.
type BookingFlow struct {
	userID  int64
	vehicle models.Vehicle

	gateway  domain.Gateway
	sessions domain.SessionManager
	eventBus domain.EventPublisher
	logger   *zerolog.Logger

	mu            sync.Mutex
	state         BookingState
	draft         Draft
	paymentMethod string
	paymentError  bool
	committing    bool
}

func NewBookingFlow(
	userID int64,
	vehicle models.Vehicle,
	gw domain.Gateway,
	sessions domain.SessionManager,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *BookingFlow {
	return &BookingFlow{
		userID:   userID,
		vehicle:  vehicle,
		gateway:  gw,
		sessions: sessions,
		eventBus: eventBus,
		logger:   logger,
		state:    BookingClosed,
	}
}

func (f *BookingFlow) State() BookingState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *BookingFlow) Vehicle() models.Vehicle {
	return f.vehicle
}

func (f *BookingFlow) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// UpdateDraft replaces the form contents and recomputes nothing: the quote is
// always derived on read.
func (f *BookingFlow) UpdateDraft(d Draft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = d
}

func (f *BookingFlow) Quote() Quote {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ComputeQuote(f.draft.StartDate, f.draft.EndDate, f.vehicle.RentalPrice)
}

func (f *BookingFlow) PaymentMethod() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paymentMethod
}

// PaymentError reports whether the last advance attempt failed for lack of a
// selected method.
func (f *BookingFlow) PaymentError() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paymentError
}

// Open shows the rental form.
func (f *BookingFlow) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transition(BookingForm)
}

// Continue is the primary action on the form. Authenticated users move to
// payment selection; anonymous visitors get ErrNotAuthenticated and the
// caller routes them to registration instead.
func (f *BookingFlow) Continue(ctx context.Context) error {
	session, err := f.sessions.Get(ctx, f.userID)
	if err != nil {
		return err
	}
	if !session.IsLoggedIn() {
		return ErrNotAuthenticated
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transition(BookingPaymentSelect)
}

// SelectPaymentMethod records the chosen method and clears the validation
// error.
func (f *BookingFlow) SelectPaymentMethod(method string) error {
	if !models.ValidPaymentMethod(method) {
		return ErrNoPaymentMethod
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.paymentMethod = method
	f.paymentError = false
	return nil
}

// ConfirmPaymentMethod advances to the order summary. Without a selection the
// state does not change and the validation error becomes visible.
func (f *BookingFlow) ConfirmPaymentMethod() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.paymentMethod == "" {
		f.paymentError = true
		return ErrNoPaymentMethod
	}
	f.paymentError = false
	return f.transition(BookingConfirm)
}

// ConfirmOrder moves from the summary to the final "are you sure" check.
func (f *BookingFlow) ConfirmOrder() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transition(BookingFinalCheck)
}

// Back closes the current modal and returns to the form.
func (f *BookingFlow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transition(BookingForm)
}

// Close dismisses the whole flow.
func (f *BookingFlow) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transition(BookingClosed)
}

// Commit runs the two dependent remote calls: create the transaction, then
// pay for it. The payment call is never issued unless the create succeeded
// with a transaction id. There is no automatic retry and no rollback; a
// failure after the create leaves an unpaid transaction on the server, which
// the per-confirmation idempotency key lets the server deduplicate when the
// user retries.
func (f *BookingFlow) Commit(ctx context.Context) error {
	f.mu.Lock()
	if f.state != BookingFinalCheck {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	if f.committing {
		f.mu.Unlock()
		return ErrCommitInFlight
	}
	if err := f.validateDraftLocked(); err != nil {
		f.mu.Unlock()
		return err
	}
	f.committing = true
	draft := f.draft
	method := f.paymentMethod
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.committing = false
		f.mu.Unlock()
	}()

	session, err := f.sessions.Get(ctx, f.userID)
	if err != nil {
		return err
	}
	if !session.IsLoggedIn() {
		return ErrNotAuthenticated
	}

	quote := ComputeQuote(draft.StartDate, draft.EndDate, f.vehicle.RentalPrice)

	req := &models.CreateTransactionRequest{
		IdempotencyKey: uuid.New().String(),
		CustomerID:     session.CustomerID,
		VehicleID:      f.vehicle.ID,
		RenterName:     draft.RenterName,
		Email:          draft.Email,
		Address:        draft.Address,
		PhoneNumber:    draft.PhoneNumber,
		IDCardNumber:   draft.IDCardNumber,
		RentalDate:     draft.StartDate.Format("2006-01-02"),
		ReturnDate:     draft.EndDate.Format("2006-01-02"),
	}

	transactionID, err := f.gateway.CreateTransaction(ctx, session.Token, req)
	if err != nil {
		return f.commitError(ctx, err, "create transaction")
	}

	payment := &models.PaymentRequest{
		TransactionID: transactionID,
		Method:        method,
		Total:         quote.TotalPrice,
	}
	if err := f.gateway.Pay(ctx, session.Token, payment); err != nil {
		return f.commitError(ctx, err, "payment")
	}

	f.mu.Lock()
	err = f.transition(BookingSuccess)
	f.mu.Unlock()
	if err != nil {
		return err
	}

	f.publishCommitted(transactionID, method, quote.TotalPrice)
	return nil
}

func (f *BookingFlow) validateDraftLocked() error {
	if f.draft.StartDate.IsZero() || f.draft.EndDate.IsZero() {
		return ErrMissingRentalData
	}
	if strings.TrimSpace(f.draft.PhoneNumber) == "" || strings.TrimSpace(f.draft.IDCardNumber) == "" {
		return ErrMissingRentalData
	}
	return nil
}

// commitError handles a failed remote step. A 401 kills the session; every
// other error leaves the flow in FinalCheck so the user can retry.
func (f *BookingFlow) commitError(ctx context.Context, err error, step string) error {
	if errors.Is(err, gateway.ErrUnauthorized) {
		f.logger.Warn().Int64("user_id", f.userID).Str("step", step).Msg("session expired during booking commit")
		if clearErr := f.sessions.Expire(ctx, f.userID); clearErr != nil {
			f.logger.Error().Err(clearErr).Int64("user_id", f.userID).Msg("failed to expire session")
		}
		return err
	}

	f.logger.Warn().Err(err).Int64("user_id", f.userID).Str("step", step).Msg("booking commit step failed")
	return err
}

func (f *BookingFlow) publishCommitted(transactionID int64, method string, total int64) {
	if f.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		UserID:        f.userID,
		TransactionID: transactionID,
		VehicleID:     f.vehicle.ID,
		VehicleName:   f.vehicle.FullName(),
		PaymentMethod: method,
		TotalPrice:    total,
	}
	if err := f.eventBus.PublishJSON(events.EventBookingCommitted, payload); err != nil {
		f.logger.Error().Err(err).Int64("transaction_id", transactionID).Msg("publish booking event error")
	}
}

// transition moves to the target state if the table allows it. Callers hold
// the mutex.
func (f *BookingFlow) transition(to BookingState) error {
	for _, allowed := range bookingTransitions[f.state] {
		if allowed == to {
			f.state = to
			metrics.IncFlowTransition("booking", string(to))
			return nil
		}
	}
	return ErrInvalidTransition
}
