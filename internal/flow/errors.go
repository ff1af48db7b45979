package flow

import "errors"

var (
	// ErrInvalidTransition rejects a move the state machine does not allow.
	ErrInvalidTransition = errors.New("invalid flow transition")

	// ErrNotAuthenticated gates the booking flow: anonymous visitors are sent
	// to registration instead of payment selection.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoPaymentMethod blocks advancing past payment selection without a
	// chosen method.
	ErrNoPaymentMethod = errors.New("no payment method selected")

	// ErrMissingRentalData blocks the commit when required form fields are
	// empty.
	ErrMissingRentalData = errors.New("rental dates, phone number and id card number are required")

	// ErrCommitInFlight rejects a second commit while one is running.
	ErrCommitInFlight = errors.New("commit already in flight")

	// ErrEmptyReason blocks a cancellation without a reason; no network call
	// is made.
	ErrEmptyReason = errors.New("cancellation reason is required")

	// ErrNotCancellable is returned for transactions outside IN_REVIEW.
	ErrNotCancellable = errors.New("transaction can no longer be cancelled")

	// ErrPasswordMismatch blocks registration before any network call.
	ErrPasswordMismatch = errors.New("password confirmation does not match")
)
