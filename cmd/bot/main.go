package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentoka/internal/bot"
	"rentoka/internal/config"
	"rentoka/internal/events"
	"rentoka/internal/gateway"
	"rentoka/internal/geo"
	"rentoka/internal/logging"
	"rentoka/internal/metrics"
	"rentoka/internal/models"
	"rentoka/internal/repository"
	"rentoka/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Failed to create export directory")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	eventBus := events.NewEventBus()
	subscribeAuditEvents(eventBus, &logger)

	redisClient, sessions := initSessionService(ctx, cfg, eventBus, &logger)
	defer func() { _ = repository.Close(redisClient) }()

	gw := gateway.NewClient(cfg.Rentoka, &logger)
	geocoder := geo.NewNominatimClient(cfg.Geocoder, &logger)
	botMetrics := bot.NewMetrics()

	if cfg.Monitoring.PrometheusEnabled {
		startMetricsServer(cfg.Monitoring.PrometheusPort, &logger)
	}

	return startBot(ctx, cfg, sessions, gw, geocoder, eventBus, botMetrics, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	logger := logging.Component(baseLogger, "bot-main")

	return cfg, logger, closer, nil
}

func initSessionService(ctx context.Context, cfg *config.Config, eventBus *events.EventBus, logger *zerolog.Logger) (*redis.Client, *service.SessionService) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable")
		}
	}

	ttl := time.Duration(models.DefaultSessionTTL) * time.Second
	primaryRepo := repository.NewRedisSessionRepository(redisClient, ttl)
	fallbackRepo := repository.NewMemorySessionRepository()
	sessionRepo := repository.NewFailoverSessionRepository(primaryRepo, fallbackRepo, logger)

	return redisClient, service.NewSessionService(sessionRepo, eventBus, logger)
}

func startMetricsServer(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	go func() {
		logger.Info().Str("addr", addr).Msg("Prometheus metrics server started")
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	sessions *service.SessionService,
	gw *gateway.Client,
	geocoder *geo.NominatimClient,
	eventBus *events.EventBus,
	botMetrics *bot.Metrics,
	logger *zerolog.Logger,
) error {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create BotAPI")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	botWrapper := bot.NewBotWrapper(botAPI)
	tgService := service.NewTelegramService(botWrapper)

	telegramBot, err := bot.NewBot(tgService, cfg, sessions, gw, geocoder, eventBus, botMetrics, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create bot")
		return err
	}

	logger.Info().Msg("Bot started...")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}

// subscribeAuditEvents writes one log line per domain event. Consumers with
// real side effects can subscribe next to this one.
func subscribeAuditEvents(bus *events.EventBus, logger *zerolog.Logger) {
	logEvent := func(ev *events.Event) error {
		logger.Info().Str("event", ev.Type).RawJSON("payload", ev.Payload).Msg("domain event")
		return nil
	}

	bus.Subscribe(events.EventSessionUpdated, logEvent)
	bus.Subscribe(events.EventSessionExpired, logEvent)
	bus.Subscribe(events.EventBookingCommitted, logEvent)
	bus.Subscribe(events.EventCancellationSubmitted, logEvent)
}
