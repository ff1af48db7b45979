package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleMessage(ctx context.Context, update *tgbotapi.Update) {
	userID := update.Message.From.ID
	text := update.Message.Text
	l := zerolog.Ctx(ctx)

	if b.metrics != nil {
		b.metrics.MessagesProcessed.Inc()
		if strings.HasPrefix(text, "/") {
			b.metrics.CommandsProcessed.Inc()
		}
	}

	l.Debug().
		Int64("user_id", userID).
		Str("username", update.Message.From.UserName).
		Str("text", text).
		Msg("Handling message")

	if update.Message.Location != nil {
		b.handleLocation(ctx, update)
		return
	}

	if text == btnCancel {
		b.resetUserCtx(userID)
		b.showMainMenu(ctx, update.Message.Chat.ID, userID, "Dibatalkan.")
		return
	}

	if b.handleMenuButtons(ctx, update, text) {
		return
	}

	uc := b.userCtx(userID)
	if uc.step != "" && b.handleStepInput(ctx, update, uc, text) {
		return
	}

	b.showMainMenu(ctx, update.Message.Chat.ID, userID, "Selamat Datang di Rentoka! Pilih menu di bawah.")
}

func (b *Bot) handleMenuButtons(ctx context.Context, update *tgbotapi.Update, text string) bool {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	switch text {
	case "/start":
		b.resetUserCtx(userID)
		b.showMainMenu(ctx, chatID, userID, "Selamat Datang di Rentoka! Rentoka membantu anda menemukan mobil yang tersedia untuk disewa dengan mudah dan harga terjangkau.")
		return true

	case btnBrowse:
		b.showVehicles(ctx, chatID, userID, 0)
		return true

	case btnTransactions:
		b.showTransactions(ctx, chatID, userID)
		return true

	case btnProfile:
		b.showProfile(ctx, chatID, userID)
		return true

	case btnExport:
		b.handleExport(ctx, chatID, userID)
		return true

	case btnLogin:
		b.startLogin(ctx, chatID, userID)
		return true

	case btnRegister:
		b.startRegistration(ctx, chatID, userID)
		return true

	case btnLogout:
		b.handleLogout(ctx, chatID, userID)
		return true
	}
	return false
}

// handleStepInput consumes free text the bot asked for: account credentials,
// booking form fields, cancellation reason, profile values.
func (b *Bot) handleStepInput(ctx context.Context, update *tgbotapi.Update, uc *userContext, text string) bool {
	switch uc.step {
	case stepLoginEmail, stepLoginPassword,
		stepRegisterEmail, stepRegisterPassword, stepRegisterConfirm:
		b.handleAccountStep(ctx, update, uc, text)
		return true

	case stepBookingName, stepBookingEmail, stepBookingIDCard,
		stepBookingPhone, stepBookingAddress, stepBookingStart, stepBookingEnd:
		b.handleBookingStep(ctx, update, uc, text)
		return true

	case stepCancelReason:
		b.handleCancelReason(ctx, update, uc, text)
		return true

	case stepProfileValue:
		b.handleProfileValue(ctx, update, uc, text)
		return true
	}
	return false
}

func (b *Bot) showMainMenu(ctx context.Context, chatID, userID int64, text string) {
	session, err := b.sessions.Get(ctx, userID)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to read session for menu")
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainMenuKeyboard(session.IsLoggedIn())
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Msg("failed to send main menu")
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}
