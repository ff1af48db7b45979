package flow

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"rentoka/internal/gateway"
	"rentoka/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testVehicle() models.Vehicle {
	return models.Vehicle{
		ID:          7,
		Name:        "Avanza",
		Brand:       "Toyota",
		RentalPrice: 300000,
		Status:      models.VehicleAvailable,
	}
}

func testSession() *models.Session {
	return &models.Session{UserID: 42, Token: "tok", CustomerID: "9", Role: models.RoleCustomer}
}

func newTestBookingFlow(gw *mockGateway, sessions *mockSessions) *BookingFlow {
	logger := zerolog.New(io.Discard)
	return NewBookingFlow(42, testVehicle(), gw, sessions, nil, &logger)
}

func validDraft() Draft {
	return Draft{
		RenterName:   "Budi",
		Email:        "budi@example.com",
		Address:      "Jl. Melati 1",
		PhoneNumber:  "0812345678",
		IDCardNumber: "3171234567890001",
		StartDate:    date("2024-01-01"),
		EndDate:      date("2024-01-04"),
	}
}

func TestComputeQuote(t *testing.T) {
	t.Run("WholeDays", func(t *testing.T) {
		q := ComputeQuote(date("2024-01-01"), date("2024-01-04"), 300000)
		assert.Equal(t, int64(3), q.Days)
		assert.Equal(t, int64(900000), q.TotalPrice)
	})

	t.Run("PartialDayRoundsUp", func(t *testing.T) {
		start := date("2024-01-01")
		end := start.Add(25 * time.Hour)
		q := ComputeQuote(start, end, 100000)
		assert.Equal(t, int64(2), q.Days)
		assert.Equal(t, int64(200000), q.TotalPrice)
	})

	t.Run("EndNotAfterStart", func(t *testing.T) {
		q := ComputeQuote(date("2024-01-04"), date("2024-01-01"), 300000)
		assert.Zero(t, q.Days)
		assert.Zero(t, q.TotalPrice)

		q = ComputeQuote(date("2024-01-04"), date("2024-01-04"), 300000)
		assert.Zero(t, q.Days)
		assert.Zero(t, q.TotalPrice)
	})
}

func TestBookingTransitions(t *testing.T) {
	f := newTestBookingFlow(new(mockGateway), new(mockSessions))

	assert.Equal(t, BookingClosed, f.State())
	require.NoError(t, f.Open())
	assert.Equal(t, BookingForm, f.State())

	t.Run("SkippingStatesRejected", func(t *testing.T) {
		assert.ErrorIs(t, f.ConfirmOrder(), ErrInvalidTransition)
		assert.Equal(t, BookingForm, f.State())
	})

	t.Run("ReopeningOpenFlowRejected", func(t *testing.T) {
		assert.ErrorIs(t, f.Open(), ErrInvalidTransition)
	})

	t.Run("BackFromLaterModalReturnsToForm", func(t *testing.T) {
		sessions := new(mockSessions)
		sessions.On("Get", mock.Anything, int64(42)).Return(testSession(), nil)
		f := newTestBookingFlow(new(mockGateway), sessions)

		require.NoError(t, f.Open())
		require.NoError(t, f.Continue(context.Background()))
		require.NoError(t, f.SelectPaymentMethod("E-wallet"))
		require.NoError(t, f.ConfirmPaymentMethod())
		assert.Equal(t, BookingConfirm, f.State())

		require.NoError(t, f.Back())
		assert.Equal(t, BookingForm, f.State())
	})
}

func TestBookingContinueRequiresLogin(t *testing.T) {
	sessions := new(mockSessions)
	sessions.On("Get", mock.Anything, int64(42)).Return(nil, nil)

	f := newTestBookingFlow(new(mockGateway), sessions)
	require.NoError(t, f.Open())

	err := f.Continue(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, BookingForm, f.State())
}

func TestPaymentMethodValidation(t *testing.T) {
	sessions := new(mockSessions)
	sessions.On("Get", mock.Anything, int64(42)).Return(testSession(), nil)

	f := newTestBookingFlow(new(mockGateway), sessions)
	require.NoError(t, f.Open())
	require.NoError(t, f.Continue(context.Background()))

	t.Run("UnknownMethodRejected", func(t *testing.T) {
		assert.ErrorIs(t, f.SelectPaymentMethod("Cash"), ErrNoPaymentMethod)
	})

	t.Run("AdvanceWithoutSelectionSetsError", func(t *testing.T) {
		err := f.ConfirmPaymentMethod()
		assert.ErrorIs(t, err, ErrNoPaymentMethod)
		assert.Equal(t, BookingPaymentSelect, f.State())
		assert.True(t, f.PaymentError())
	})

	t.Run("SelectionClearsError", func(t *testing.T) {
		require.NoError(t, f.SelectPaymentMethod("ATM/Bank transfer"))
		assert.False(t, f.PaymentError())
		require.NoError(t, f.ConfirmPaymentMethod())
		assert.Equal(t, BookingConfirm, f.State())
	})
}

func advanceToFinalCheck(t *testing.T, f *BookingFlow) {
	t.Helper()
	require.NoError(t, f.Open())
	require.NoError(t, f.Continue(context.Background()))
	require.NoError(t, f.SelectPaymentMethod("E-wallet"))
	require.NoError(t, f.ConfirmPaymentMethod())
	require.NoError(t, f.ConfirmOrder())
	require.Equal(t, BookingFinalCheck, f.State())
}

func TestBookingCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateThenPay", func(t *testing.T) {
		gw := new(mockGateway)
		sessions := new(mockSessions)
		sessions.On("Get", mock.Anything, int64(42)).Return(testSession(), nil)

		gw.On("CreateTransaction", mock.Anything, "tok", mock.MatchedBy(func(req *models.CreateTransactionRequest) bool {
			return req.VehicleID == 7 && req.CustomerID == "9" &&
				req.RentalDate == "2024-01-01" && req.ReturnDate == "2024-01-04" &&
				req.IdempotencyKey != ""
		})).Return(int64(55), nil).Once()
		gw.On("Pay", mock.Anything, "tok", &models.PaymentRequest{
			TransactionID: 55,
			Method:        "E-wallet",
			Total:         900000,
		}).Return(nil).Once()

		f := newTestBookingFlow(gw, sessions)
		advanceToFinalCheck(t, f)
		f.UpdateDraft(validDraft())

		require.NoError(t, f.Commit(ctx))
		assert.Equal(t, BookingSuccess, f.State())
		gw.AssertExpectations(t)
	})

	t.Run("NoPaymentWithoutCreatedID", func(t *testing.T) {
		gw := new(mockGateway)
		sessions := new(mockSessions)
		sessions.On("Get", mock.Anything, int64(42)).Return(testSession(), nil)

		gw.On("CreateTransaction", mock.Anything, "tok", mock.Anything).
			Return(int64(0), errors.New("server unavailable")).Once()

		f := newTestBookingFlow(gw, sessions)
		advanceToFinalCheck(t, f)
		f.UpdateDraft(validDraft())

		err := f.Commit(ctx)
		assert.Error(t, err)
		assert.Equal(t, BookingFinalCheck, f.State())
		gw.AssertNotCalled(t, "Pay", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PaymentFailureKeepsFinalCheck", func(t *testing.T) {
		gw := new(mockGateway)
		sessions := new(mockSessions)
		sessions.On("Get", mock.Anything, int64(42)).Return(testSession(), nil)

		gw.On("CreateTransaction", mock.Anything, "tok", mock.Anything).Return(int64(55), nil).Once()
		gw.On("Pay", mock.Anything, "tok", mock.Anything).
			Return(&gateway.APIError{Endpoint: "/payment", Message: "payment rejected"}).Once()

		f := newTestBookingFlow(gw, sessions)
		advanceToFinalCheck(t, f)
		f.UpdateDraft(validDraft())

		err := f.Commit(ctx)
		assert.Error(t, err)
		assert.Equal(t, BookingFinalCheck, f.State())
	})

	t.Run("UnauthorizedExpiresSession", func(t *testing.T) {
		gw := new(mockGateway)
		sessions := new(mockSessions)
		sessions.On("Get", mock.Anything, int64(42)).Return(testSession(), nil)
		sessions.On("Expire", mock.Anything, int64(42)).Return(nil).Once()

		gw.On("CreateTransaction", mock.Anything, "tok", mock.Anything).
			Return(int64(0), gateway.ErrUnauthorized).Once()

		f := newTestBookingFlow(gw, sessions)
		advanceToFinalCheck(t, f)
		f.UpdateDraft(validDraft())

		err := f.Commit(ctx)
		assert.ErrorIs(t, err, gateway.ErrUnauthorized)
		sessions.AssertExpectations(t)
	})

	t.Run("MissingDraftDataRejectedLocally", func(t *testing.T) {
		gw := new(mockGateway)
		sessions := new(mockSessions)
		sessions.On("Get", mock.Anything, int64(42)).Return(testSession(), nil)

		f := newTestBookingFlow(gw, sessions)
		advanceToFinalCheck(t, f)

		d := validDraft()
		d.PhoneNumber = "  "
		f.UpdateDraft(d)

		err := f.Commit(ctx)
		assert.ErrorIs(t, err, ErrMissingRentalData)
		gw.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CommitOutsideFinalCheckRejected", func(t *testing.T) {
		f := newTestBookingFlow(new(mockGateway), new(mockSessions))
		require.NoError(t, f.Open())
		assert.ErrorIs(t, f.Commit(ctx), ErrInvalidTransition)
	})

	t.Run("SecondCommitWhileInFlight", func(t *testing.T) {
		gw := new(mockGateway)
		sessions := new(mockSessions)
		sessions.On("Get", mock.Anything, int64(42)).Return(testSession(), nil)

		started := make(chan struct{})
		release := make(chan struct{})
		gw.On("CreateTransaction", mock.Anything, "tok", mock.Anything).
			Run(func(args mock.Arguments) {
				close(started)
				<-release
			}).Return(int64(55), nil).Once()
		gw.On("Pay", mock.Anything, "tok", mock.Anything).Return(nil).Once()

		f := newTestBookingFlow(gw, sessions)
		advanceToFinalCheck(t, f)
		f.UpdateDraft(validDraft())

		done := make(chan error, 1)
		go func() { done <- f.Commit(ctx) }()

		<-started
		assert.ErrorIs(t, f.Commit(ctx), ErrCommitInFlight)
		close(release)
		require.NoError(t, <-done)
		gw.AssertExpectations(t)
	})
}
