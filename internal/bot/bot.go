package bot

import (
	"context"
	"os"
	"sync"
	"time"

	"rentoka/internal/config"
	"rentoka/internal/domain"
	"rentoka/internal/events"
	"rentoka/internal/flow"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Bot is the customer-facing surface of the Rentoka platform. It owns no data:
// every operation passes through the remote API, and the bot only renders the
// flows in between.
type Bot struct {
	tgService   domain.TelegramService
	config      *config.Config
	sessions    domain.SessionManager
	gateway     domain.Gateway
	geocoder    domain.Geocoder
	eventBus    domain.EventPublisher
	accountFlow *flow.AccountFlow
	metrics     *Metrics
	logger      *zerolog.Logger

	mu    sync.Mutex
	users map[int64]*userContext
}

func NewBot(
	tgService domain.TelegramService,
	cfg *config.Config,
	sessions domain.SessionManager,
	gw domain.Gateway,
	geocoder domain.Geocoder,
	eventBus domain.EventPublisher,
	metrics *Metrics,
	logger *zerolog.Logger,
) (*Bot, error) {
	if eventBus == nil {
		eventBus = events.NewEventBus()
	}

	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	return &Bot{
		tgService:   tgService,
		config:      cfg,
		sessions:    sessions,
		gateway:     gw,
		geocoder:    geocoder,
		eventBus:    eventBus,
		accountFlow: flow.NewAccountFlow(gw, sessions, logger),
		metrics:     metrics,
		logger:      logger,
		users:       make(map[int64]*userContext),
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		if b.metrics != nil {
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	updateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(func() {
		switch {
		case update.Message != nil:
			if !b.allowMessage(updateCtx, update.Message.From.ID) {
				return
			}
			b.handleMessage(updateCtx, &update)
		case update.CallbackQuery != nil:
			b.handleCallbackQuery(updateCtx, update)
		}
	})
}
