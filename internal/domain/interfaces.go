package domain

import (
	"context"
	"time"

	"rentoka/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SessionRepository persists per-user session records. Implementations exist
// for Redis and for process memory.
type SessionRepository interface {
	GetSession(ctx context.Context, userID int64) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// SessionManager is the single injectable session context: explicit get, set,
// clear, plus subscription through the event bus.
type SessionManager interface {
	Get(ctx context.Context, userID int64) (*models.Session, error)
	Set(ctx context.Context, session *models.Session) error
	Clear(ctx context.Context, userID int64) error
	Expire(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// Gateway is the client for the remote Rentoka REST API. Every method is a
// single request/response exchange; authenticated calls take the bearer token.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, email, password, confirmPassword, customerName string) error
	Vehicles(ctx context.Context, token, customerID string) ([]models.Vehicle, error)
	Profile(ctx context.Context, token, customerID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, token, customerID string, profile *models.Profile) error
	Transactions(ctx context.Context, token, customerID string) ([]models.Transaction, error)
	TransactionDetail(ctx context.Context, token string, transactionID int64) (*models.TransactionDetail, error)
	CreateTransaction(ctx context.Context, token string, req *models.CreateTransactionRequest) (int64, error)
	CancelTransaction(ctx context.Context, token string, transactionID int64) error
	Pay(ctx context.Context, token string, req *models.PaymentRequest) error
}

// LoginResult carries the fields the login endpoint returns on success.
type LoginResult struct {
	Token      string
	CustomerID string
	ProviderID string
}

// Geocoder resolves device coordinates to a display string.
type Geocoder interface {
	ReverseCity(ctx context.Context, lat, lon float64) (string, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

// TelegramService wraps the raw sender with message helpers used by handlers.
type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendMarkdown(chatID int64, text string) (tgbotapi.Message, error)
	SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	AnswerCallback(callbackID string, text string) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}
