package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) {
	callback := update.CallbackQuery
	data := callback.Data
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID

	// Answer immediately to stop the spinner on the button.
	if err := b.tgService.AnswerCallback(callback.ID, ""); err != nil {
		b.logger.Debug().Err(err).Msg("answer callback failed")
	}

	switch {
	case strings.HasPrefix(data, "vehicles_page:"):
		page, _ := strconv.Atoi(strings.TrimPrefix(data, "vehicles_page:"))
		b.showVehicles(ctx, chatID, userID, page)

	case strings.HasPrefix(data, "vehicle:"):
		vehicleID, _ := strconv.ParseInt(strings.TrimPrefix(data, "vehicle:"), 10, 64)
		b.startBooking(ctx, chatID, userID, vehicleID)

	case data == "booking_continue":
		b.handleBookingContinue(ctx, chatID, userID)

	case data == "booking_close":
		b.handleBookingClose(chatID, userID)

	case data == "booking_back":
		b.handleBookingBack(chatID, userID)

	case strings.HasPrefix(data, "pay_method:"):
		b.handlePaymentMethod(ctx, callback, strings.TrimPrefix(data, "pay_method:"))

	case data == "pay_continue":
		b.handlePaymentContinue(ctx, chatID, userID)

	case data == "order_pay":
		b.handleOrderPay(ctx, chatID, userID)

	case data == "order_cancel":
		b.handleBookingBack(chatID, userID)

	case data == "final_commit":
		b.handleFinalCommit(ctx, chatID, userID)

	case data == "final_dismiss":
		b.handleBookingBack(chatID, userID)

	case data == "show_transactions":
		b.showTransactions(ctx, chatID, userID)

	case strings.HasPrefix(data, "cancel_tx:"):
		transactionID, _ := strconv.ParseInt(strings.TrimPrefix(data, "cancel_tx:"), 10, 64)
		b.startCancellation(ctx, chatID, userID, transactionID)

	case strings.HasPrefix(data, "edit_profile:"):
		b.startProfileEdit(ctx, chatID, userID, strings.TrimPrefix(data, "edit_profile:"))
	}
}
