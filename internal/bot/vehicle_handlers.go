package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rentoka/internal/gateway"
	"rentoka/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// showVehicles fetches the listing per visit and renders only AVAILABLE cars.
func (b *Bot) showVehicles(ctx context.Context, chatID, userID int64, page int) {
	session, err := b.sessions.Get(ctx, userID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	var token, customerID string
	if session.IsLoggedIn() {
		token = session.Token
		customerID = session.CustomerID
	}

	vehicles, err := b.gateway.Vehicles(ctx, token, customerID)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			b.expireAndRedirect(ctx, chatID, userID)
			return
		}
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	available := vehicles[:0]
	for _, v := range vehicles {
		if v.Available() {
			available = append(available, v)
		}
	}

	uc := b.userCtx(userID)
	uc.vehicles = available

	if len(available) == 0 {
		b.sendMessage(chatID, "Maaf, saat ini tidak ada mobil yang tersedia.")
		return
	}

	text := fmt.Sprintf("%d Mobil Tersedia\nPilih mobil untuk melihat detail dan menyewa:", len(available))
	keyboard := vehiclesKeyboard(available, page, b.config.Bot.PaginationSize)
	if _, err := b.tgService.SendWithInlineKeyboard(chatID, text, keyboard); err != nil {
		b.logger.Error().Err(err).Msg("failed to send vehicle list")
	}
}

func (b *Bot) findVehicle(userID, vehicleID int64) (models.Vehicle, bool) {
	uc := b.userCtx(userID)
	for _, v := range uc.vehicles {
		if v.ID == vehicleID {
			return v, true
		}
	}
	return models.Vehicle{}, false
}

func vehicleCard(v models.Vehicle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\nRp %d /hari\n", strings.ToUpper(v.FullName()), v.RentalPrice)
	fmt.Fprintf(&sb, "⭐ %.1f (%d)", v.Rate, v.RateCount)
	if label := v.DistanceLabel(); label != "" {
		fmt.Fprintf(&sb, "  📍 %s", label)
	}
	return sb.String()
}

// handleLocation reverse-geocodes a shared device location for display. The
// lookup is cosmetic: failure falls back to a placeholder string.
func (b *Bot) handleLocation(ctx context.Context, update *tgbotapi.Update) {
	loc := update.Message.Location
	chatID := update.Message.Chat.ID

	place, err := b.geocoder.ReverseCity(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		b.logger.Warn().Err(err).Msg("reverse geocoding failed")
	}

	b.sendMessage(chatID, fmt.Sprintf("📍 Lokasi anda: %s", place))
}

func (b *Bot) expireAndRedirect(ctx context.Context, chatID, userID int64) {
	if err := b.sessions.Expire(ctx, userID); err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to expire session")
	}
	b.redirectToLogin(ctx, chatID, userID)
}
