package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentoka/internal/flow"
	"rentoka/internal/gateway"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const dateLayout = "2006-01-02"

// startBooking opens the booking flow for a selected vehicle. Authenticated
// users fill the rental form; anonymous visitors are offered sign-up instead.
func (b *Bot) startBooking(ctx context.Context, chatID, userID, vehicleID int64) {
	vehicle, ok := b.findVehicle(userID, vehicleID)
	if !ok {
		b.sendMessage(chatID, "Mobil tidak ditemukan. Silakan muat ulang daftar mobil.")
		return
	}

	uc := b.userCtx(userID)
	uc.booking = flow.NewBookingFlow(userID, vehicle, b.gateway, b.sessions, b.eventBus, b.logger)
	if err := uc.booking.Open(); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	session, err := b.sessions.Get(ctx, userID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	b.sendMessage(chatID, vehicleCard(vehicle))

	if !session.IsLoggedIn() {
		// Anonymous visitors see the sign-up form in place of the rental form.
		b.sendMessage(chatID, "Sign Up Terlebih Dahulu untuk menyewa mobil ini.")
		b.startRegistration(ctx, chatID, userID)
		return
	}

	uc.step = stepBookingName
	b.sendMessage(chatID, "Isi Pengajuan Sewa\n\nNama Lengkap:")
}

// handleBookingStep collects the rental form field by field.
func (b *Bot) handleBookingStep(ctx context.Context, update *tgbotapi.Update, uc *userContext, text string) {
	chatID := update.Message.Chat.ID

	if uc.booking == nil {
		uc.step = ""
		b.sendMessage(chatID, "Tidak ada pengajuan sewa yang aktif.")
		return
	}

	draft := uc.booking.Draft()

	switch uc.step {
	case stepBookingName:
		draft.RenterName = text
		uc.step = stepBookingEmail
		b.sendMessage(chatID, "Email:")

	case stepBookingEmail:
		draft.Email = text
		uc.step = stepBookingIDCard
		b.sendMessage(chatID, "Nomor KTP:")

	case stepBookingIDCard:
		draft.IDCardNumber = text
		uc.step = stepBookingPhone
		b.sendMessage(chatID, "Nomor Telepon:")

	case stepBookingPhone:
		draft.PhoneNumber = text
		uc.step = stepBookingAddress
		b.sendMessage(chatID, "Alamat:")

	case stepBookingAddress:
		draft.Address = text
		uc.step = stepBookingStart
		b.sendMessage(chatID, "Tanggal sewa (YYYY-MM-DD):")

	case stepBookingStart:
		start, err := time.Parse(dateLayout, text)
		if err != nil {
			b.sendMessage(chatID, "Format tanggal tidak valid. Contoh: 2024-01-01")
			return
		}
		draft.StartDate = start
		uc.step = stepBookingEnd
		b.sendMessage(chatID, "Tanggal kembali (YYYY-MM-DD):")

	case stepBookingEnd:
		end, err := time.Parse(dateLayout, text)
		if err != nil {
			b.sendMessage(chatID, "Format tanggal tidak valid. Contoh: 2024-01-04")
			return
		}
		draft.EndDate = end
		uc.step = ""
	}

	uc.booking.UpdateDraft(draft)

	if uc.step == "" {
		b.showBookingSummary(ctx, chatID, uc)
	}
}

func (b *Bot) showBookingSummary(ctx context.Context, chatID int64, uc *userContext) {
	vehicle := uc.booking.Vehicle()
	quote := uc.booking.Quote()

	text := fmt.Sprintf(
		"Isi Pengajuan Sewa\n\nSewa mobil (%d hari)\nTotal Pembayaran: Rp %d",
		quote.Days, quote.TotalPrice,
	)
	text = vehicleCard(vehicle) + "\n\n" + text

	if _, err := b.tgService.SendWithInlineKeyboard(chatID, text, bookingFormKeyboard()); err != nil {
		b.logger.Error().Err(err).Msg("failed to send booking summary")
	}
}

// handleBookingContinue is the primary action on the form.
func (b *Bot) handleBookingContinue(ctx context.Context, chatID, userID int64) {
	uc := b.userCtx(userID)
	if uc.booking == nil {
		b.sendMessage(chatID, "Tidak ada pengajuan sewa yang aktif.")
		return
	}

	err := uc.booking.Continue(ctx)
	if errors.Is(err, flow.ErrNotAuthenticated) {
		b.sendMessage(chatID, "Sign Up Terlebih Dahulu untuk melanjutkan.")
		b.startRegistration(ctx, chatID, userID)
		return
	}
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	b.showPaymentMethods(chatID, uc, "")
}

func (b *Bot) showPaymentMethods(chatID int64, uc *userContext, notice string) {
	text := "Choose payment method"
	if notice != "" {
		text += "\n\n" + notice
	}
	keyboard := paymentMethodsKeyboard(uc.booking.PaymentMethod())
	if _, err := b.tgService.SendWithInlineKeyboard(chatID, text, keyboard); err != nil {
		b.logger.Error().Err(err).Msg("failed to send payment methods")
	}
}

func (b *Bot) handlePaymentMethod(ctx context.Context, callback *tgbotapi.CallbackQuery, method string) {
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID

	uc := b.userCtx(userID)
	if uc.booking == nil {
		return
	}

	if err := uc.booking.SelectPaymentMethod(method); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	// Re-render with the checkmark on the chosen method.
	keyboard := paymentMethodsKeyboard(method)
	if _, err := b.tgService.EditMessage(chatID, callback.Message.MessageID, "Choose payment method", &keyboard); err != nil {
		b.logger.Error().Err(err).Msg("failed to update payment keyboard")
	}
}

func (b *Bot) handlePaymentContinue(ctx context.Context, chatID, userID int64) {
	uc := b.userCtx(userID)
	if uc.booking == nil {
		return
	}

	err := uc.booking.ConfirmPaymentMethod()
	if errors.Is(err, flow.ErrNoPaymentMethod) {
		// The state does not advance; the validation error becomes visible.
		b.showPaymentMethods(chatID, uc, "*pilih metode pembayaran terlebih dahulu")
		return
	}
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	b.showOrderConfirm(chatID, uc)
}

func (b *Bot) showOrderConfirm(chatID int64, uc *userContext) {
	vehicle := uc.booking.Vehicle()
	quote := uc.booking.Quote()

	text := fmt.Sprintf(
		"Konfirmasi pesanan\n\nNama mobil: %s\nHarga sewa: Rp %d /hari\nLama sewa: %d hari\nMetode pembayaran: %s\n\nTotal: Rp %d",
		vehicle.FullName(), vehicle.RentalPrice, quote.Days, uc.booking.PaymentMethod(), quote.TotalPrice,
	)

	if _, err := b.tgService.SendWithInlineKeyboard(chatID, text, orderConfirmKeyboard()); err != nil {
		b.logger.Error().Err(err).Msg("failed to send order confirmation")
	}
}

func (b *Bot) handleOrderPay(ctx context.Context, chatID, userID int64) {
	uc := b.userCtx(userID)
	if uc.booking == nil {
		return
	}

	if err := uc.booking.ConfirmOrder(); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	text := "Apakah anda yakin?\n\nKami mohon kepada para penyewa untuk lebih teliti dalam mengisi data pesanan."
	if _, err := b.tgService.SendWithInlineKeyboard(chatID, text, finalCheckKeyboard()); err != nil {
		b.logger.Error().Err(err).Msg("failed to send final check")
	}
}

// handleFinalCommit runs the create-then-pay sequence. Failures keep the flow
// in the final check so the user can press the button again.
func (b *Bot) handleFinalCommit(ctx context.Context, chatID, userID int64) {
	uc := b.userCtx(userID)
	if uc.booking == nil {
		return
	}

	start := time.Now()
	err := uc.booking.Commit(ctx)
	switch {
	case err == nil:
		if b.metrics != nil {
			b.metrics.BookingsCommitted.WithLabelValues(uc.booking.Vehicle().Name).Inc()
			b.metrics.BookingDuration.WithLabelValues(uc.booking.Vehicle().Name).Observe(time.Since(start).Seconds())
		}
		text := "Success!\n\nPengajuan sewa berhasil dikirim dan pembayaran diterima."
		if _, sendErr := b.tgService.SendWithInlineKeyboard(chatID, text, successKeyboard()); sendErr != nil {
			b.logger.Error().Err(sendErr).Msg("failed to send booking success")
		}

	case errors.Is(err, gateway.ErrUnauthorized):
		b.redirectToLogin(ctx, chatID, userID)

	case errors.Is(err, flow.ErrCommitInFlight):
		// Double press; the first commit is still running.

	case errors.Is(err, flow.ErrMissingRentalData):
		b.sendMessage(chatID, "Mohon lengkapi tanggal sewa, nomor telepon dan nomor KTP terlebih dahulu.")

	default:
		b.sendMessage(chatID, b.getErrorMessage(err))
	}
}

func (b *Bot) handleBookingBack(chatID, userID int64) {
	uc := b.userCtx(userID)
	if uc.booking == nil {
		return
	}

	if err := uc.booking.Back(); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.showBookingSummary(context.Background(), chatID, uc)
}

func (b *Bot) handleBookingClose(chatID, userID int64) {
	uc := b.userCtx(userID)
	if uc.booking == nil {
		return
	}
	_ = uc.booking.Close()
	uc.booking = nil
	b.sendMessage(chatID, "Pengajuan sewa ditutup.")
}
