package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rentoka/internal/flow"
	"rentoka/internal/gateway"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// showTransactions renders the rental history. Transactions in review carry a
// cancellation button; everything else shows the disabled marker instead.
func (b *Bot) showTransactions(ctx context.Context, chatID, userID int64) {
	session, err := b.sessions.Get(ctx, userID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if !session.IsLoggedIn() {
		b.redirectToLogin(ctx, chatID, userID)
		return
	}

	transactions, err := b.gateway.Transactions(ctx, session.Token, session.CustomerID)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			b.expireAndRedirect(ctx, chatID, userID)
			return
		}
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	uc := b.userCtx(userID)
	uc.transactions = transactions

	if len(transactions) == 0 {
		b.sendMessage(chatID, "Riwayat Transaksi\n\nBelum ada transaksi.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Riwayat Transaksi\nTinjau seluruh riwayat sewa mobilmu di sini\n")
	for _, t := range transactions {
		fmt.Fprintf(&sb, "\n%s %s\nStatus: %s\nMenyewa pada: %s\nTotal Biaya: Rp %d\n",
			strings.ToUpper(t.Brand), strings.ToUpper(t.VehicleName), t.Status, t.Date, t.TotalPrice)
		if !t.Cancellable() {
			sb.WriteString("Tidak dapat dibatalkan\n")
		}
	}

	keyboard := transactionsKeyboard(transactions)
	if len(keyboard.InlineKeyboard) == 0 {
		b.sendMessage(chatID, sb.String())
		return
	}
	if _, err := b.tgService.SendWithInlineKeyboard(chatID, sb.String(), keyboard); err != nil {
		b.logger.Error().Err(err).Msg("failed to send transactions")
	}
}

// startCancellation opens the cancellation flow for one transaction. The
// reason prompt goes out immediately; the detail fetch fills in afterwards.
func (b *Bot) startCancellation(ctx context.Context, chatID, userID, transactionID int64) {
	uc := b.userCtx(userID)

	var found bool
	for _, t := range uc.transactions {
		if t.ID == transactionID {
			uc.cancellation = flow.NewCancellationFlow(userID, t, b.gateway, b.sessions, b.eventBus, b.logger)
			found = true
			break
		}
	}
	if !found {
		b.sendMessage(chatID, "Transaksi tidak ditemukan. Silakan muat ulang riwayat.")
		return
	}

	if err := uc.cancellation.Open(); err != nil {
		if errors.Is(err, flow.ErrNotCancellable) {
			b.sendMessage(chatID, "Tidak dapat dibatalkan")
			return
		}
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	uc.step = stepCancelReason
	b.sendCancellationPrompt(ctx, chatID, userID, uc)
}

func (b *Bot) sendCancellationPrompt(ctx context.Context, chatID, userID int64, uc *userContext) {
	// Placeholders until the detail arrives.
	name, idCard, date := "-", "-", "-"

	if err := uc.cancellation.LoadDetail(ctx); err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			b.redirectToLogin(ctx, chatID, userID)
			return
		}
		// Fetch failure keeps the placeholders; the reason entry still works.
	}
	if detail := uc.cancellation.Detail(); detail != nil {
		name = detail.Customer.Name
		idCard = detail.Customer.IDCard
		date = detail.Date
	}

	text := fmt.Sprintf(
		"Pembatalan Sewa Mobil\n\nNama: %s\nNomor KTP: %s\nTanggal sewa: %s\n\nTuliskan alasan pembatalan:",
		name, idCard, date,
	)
	b.sendMessage(chatID, text)
}

func (b *Bot) handleCancelReason(ctx context.Context, update *tgbotapi.Update, uc *userContext, text string) {
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if uc.cancellation == nil {
		uc.step = ""
		return
	}

	uc.cancellation.SetReason(text)

	err := uc.cancellation.Submit(ctx)
	switch {
	case err == nil:
		uc.step = ""
		uc.cancellation = nil
		b.sendMessage(chatID,
			"Pengajuan sewa telah dibatalkan\n\nPengajuan pembatalanmu telah kami terima, kami akan segera melakukan refund dalam waktu 1x24 jam.")
		// The history changed server-side; show the fresh list.
		b.showTransactions(ctx, chatID, userID)

	case errors.Is(err, flow.ErrEmptyReason):
		b.sendMessage(chatID, "Mohon isi alasan pembatalan.")

	case errors.Is(err, gateway.ErrUnauthorized):
		b.redirectToLogin(ctx, chatID, userID)

	default:
		b.sendMessage(chatID, b.getErrorMessage(err))
	}
}
