package bot

import (
	"context"
	"time"
)

func (b *Bot) withRecovery(handler func()) {
	defer func() {
		if r := recover(); r != nil {
			if b.metrics != nil {
				b.metrics.ErrorsTotal.Inc()
			}
			b.logger.Error().Interface("panic", r).Msg("Recovered from panic in update handler")
		}
	}()
	handler()
}

// allowMessage applies the per-user message rate limit. A failed limiter check
// is treated as allowed so a session store outage does not silence the bot.
func (b *Bot) allowMessage(ctx context.Context, userID int64) bool {
	limit := b.config.Bot.RateLimitMessages
	window := time.Duration(b.config.Bot.RateLimitWindow) * time.Second

	allowed, err := b.sessions.CheckRateLimit(ctx, userID, limit, window)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("Rate limit check failed")
		return true
	}
	if !allowed {
		b.logger.Warn().Int64("user_id", userID).Msg("Rate limit exceeded")
		b.sendMessage(userID, "⚠️ Anda mengirim pesan terlalu cepat. Mohon tunggu sebentar.")
		return false
	}
	return true
}
