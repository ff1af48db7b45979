package bot

import (
	"rentoka/internal/flow"
	"rentoka/internal/models"
)

// Conversational steps while the bot waits for free-text input.
const (
	stepLoginEmail       = "login_email"
	stepLoginPassword    = "login_password"
	stepRegisterEmail    = "register_email"
	stepRegisterPassword = "register_password"
	stepRegisterConfirm  = "register_confirm"
	stepBookingName      = "booking_name"
	stepBookingEmail     = "booking_email"
	stepBookingIDCard    = "booking_id_card"
	stepBookingPhone     = "booking_phone"
	stepBookingAddress   = "booking_address"
	stepBookingStart     = "booking_start_date"
	stepBookingEnd       = "booking_end_date"
	stepCancelReason     = "cancel_reason"
	stepProfileValue     = "profile_value"
)

// userContext is the transient per-chat state: the current input step, the
// active flows, and list snapshots the inline keyboards index into. Nothing
// here survives a restart; sessions do, in the session repository.
type userContext struct {
	step string

	// staged account input
	loginEmail    string
	registerEmail string
	registerPass  string

	booking       *flow.BookingFlow
	cancellation  *flow.CancellationFlow
	profileEditor *flow.ProfileEditor
	editingField  string

	vehicles     []models.Vehicle
	transactions []models.Transaction
}

func (b *Bot) userCtx(userID int64) *userContext {
	b.mu.Lock()
	defer b.mu.Unlock()
	uc, ok := b.users[userID]
	if !ok {
		uc = &userContext{}
		b.users[userID] = uc
	}
	return uc
}

// resetUserCtx drops all transient flow state for the chat.
func (b *Bot) resetUserCtx(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.users, userID)
}
