package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rentoka/internal/flow"
	"rentoka/internal/gateway"
	"rentoka/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func fieldLabel(field string) string {
	switch field {
	case models.FieldName:
		return "Nama Lengkap"
	case models.FieldIDCard:
		return "Nomor KTP"
	case models.FieldPhone:
		return "No. Handphone"
	case models.FieldEmail:
		return "Email Aktif"
	case models.FieldAddress:
		return "Alamat"
	case models.FieldCity:
		return "Kota"
	case models.FieldLatitude:
		return "Latitude"
	case models.FieldLongitude:
		return "Longitude"
	}
	return field
}

// showProfile loads and renders the account record with per-field edit
// buttons. Without a valid session the user lands on login first.
func (b *Bot) showProfile(ctx context.Context, chatID, userID int64) {
	uc := b.userCtx(userID)
	uc.profileEditor = flow.NewProfileEditor(userID, b.gateway, b.sessions, b.logger)

	err := uc.profileEditor.Load(ctx)
	switch {
	case errors.Is(err, flow.ErrNotAuthenticated):
		b.redirectToLogin(ctx, chatID, userID)
		return
	case errors.Is(err, gateway.ErrUnauthorized):
		b.redirectToLogin(ctx, chatID, userID)
		return
	case err != nil:
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	profile := uc.profileEditor.Profile()

	var sb strings.Builder
	sb.WriteString("Informasi Personal\n")
	for _, field := range models.ProfileFields {
		value := profile.Value(field)
		if value == "" {
			value = "Belum diisi"
		}
		fmt.Fprintf(&sb, "\n%s: %s", fieldLabel(field), value)
	}

	if _, err := b.tgService.SendWithInlineKeyboard(chatID, sb.String(), profileKeyboard()); err != nil {
		b.logger.Error().Err(err).Msg("failed to send profile")
	}
}

// startProfileEdit switches one field into edit mode and asks for the value.
func (b *Bot) startProfileEdit(ctx context.Context, chatID, userID int64, field string) {
	uc := b.userCtx(userID)
	if uc.profileEditor == nil {
		b.showProfile(ctx, chatID, userID)
		return
	}

	uc.profileEditor.StartEdit(field)
	uc.editingField = field
	uc.step = stepProfileValue
	b.sendMessage(chatID, fmt.Sprintf("Masukkan %s baru:", fieldLabel(field)))
}

// handleProfileValue saves the staged value. The whole profile is sent in one
// call; a failure keeps the field editable for retry.
func (b *Bot) handleProfileValue(ctx context.Context, update *tgbotapi.Update, uc *userContext, text string) {
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	field := uc.editingField

	if uc.profileEditor == nil || field == "" {
		uc.step = ""
		return
	}

	uc.profileEditor.SetField(field, text)

	err := uc.profileEditor.Save(ctx, field)
	switch {
	case err == nil:
		uc.step = ""
		uc.editingField = ""
		b.sendMessage(chatID, "Profile berhasil diperbarui!")
		b.showProfile(ctx, chatID, userID)

	case errors.Is(err, gateway.ErrUnauthorized):
		b.redirectToLogin(ctx, chatID, userID)

	default:
		// Edit mode stays active; the user can send another value.
		b.sendMessage(chatID, b.getErrorMessage(err))
	}
}
