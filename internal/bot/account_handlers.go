package bot

import (
	"context"
	"errors"

	"rentoka/internal/flow"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) startLogin(ctx context.Context, chatID, userID int64) {
	session, err := b.sessions.Get(ctx, userID)
	if err == nil && session.IsLoggedIn() {
		b.showMainMenu(ctx, chatID, userID, "Anda sudah masuk.")
		return
	}

	uc := b.userCtx(userID)
	uc.step = stepLoginEmail
	b.sendMessage(chatID, "Sign In\n\nMasukkan email anda:")
}

func (b *Bot) startRegistration(ctx context.Context, chatID, userID int64) {
	uc := b.userCtx(userID)
	uc.step = stepRegisterEmail
	b.sendMessage(chatID, "Sign Up\n\nMasukkan email anda:")
}

func (b *Bot) handleAccountStep(ctx context.Context, update *tgbotapi.Update, uc *userContext, text string) {
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	switch uc.step {
	case stepLoginEmail:
		uc.loginEmail = text
		uc.step = stepLoginPassword
		b.sendMessage(chatID, "Masukkan password:")

	case stepLoginPassword:
		email := uc.loginEmail
		uc.step = ""
		uc.loginEmail = ""
		b.finishLogin(ctx, chatID, userID, email, text)

	case stepRegisterEmail:
		uc.registerEmail = text
		uc.step = stepRegisterPassword
		b.sendMessage(chatID, "Masukkan password:")

	case stepRegisterPassword:
		uc.registerPass = text
		uc.step = stepRegisterConfirm
		b.sendMessage(chatID, "Konfirmasi password:")

	case stepRegisterConfirm:
		email, password := uc.registerEmail, uc.registerPass
		uc.step = ""
		uc.registerEmail = ""
		uc.registerPass = ""
		b.finishRegistration(ctx, chatID, userID, email, password, text)
	}
}

func (b *Bot) finishLogin(ctx context.Context, chatID, userID int64, email, password string) {
	_, err := b.accountFlow.Login(ctx, userID, email, password)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	if b.metrics != nil {
		b.metrics.LoginsTotal.Inc()
	}

	// Deleting the password message would be nicer, but bots cannot delete
	// user messages in private chats without admin rights.
	b.showMainMenu(ctx, chatID, userID, "Berhasil masuk! Yuk, cari mobil impianmu sekarang.")
}

func (b *Bot) finishRegistration(ctx context.Context, chatID, userID int64, email, password, confirm string) {
	err := b.accountFlow.Register(ctx, email, password, confirm)
	if err != nil {
		if errors.Is(err, flow.ErrPasswordMismatch) {
			b.sendMessage(chatID, "Konfirmasi password tidak cocok!")
			return
		}
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	// Registration does not log the visitor in; they sign in themselves.
	b.showMainMenu(ctx, chatID, userID, "BERHASIL! Akun Rentoka kamu sudah siap. Silakan Sign In untuk melanjutkan.")
}

func (b *Bot) handleLogout(ctx context.Context, chatID, userID int64) {
	if err := b.accountFlow.Logout(ctx, userID); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.resetUserCtx(userID)
	b.showMainMenu(ctx, chatID, userID, "Anda telah keluar.")
}

// redirectToLogin is the login entry point every 401 lands on.
func (b *Bot) redirectToLogin(ctx context.Context, chatID, userID int64) {
	b.resetUserCtx(userID)
	uc := b.userCtx(userID)
	uc.step = stepLoginEmail
	b.sendMessage(chatID, "Sesi anda telah berakhir. Silakan Sign In kembali.\n\nMasukkan email anda:")
}
