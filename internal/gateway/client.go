package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"rentoka/internal/config"
	"rentoka/internal/domain"
	"rentoka/internal/metrics"
	"rentoka/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Client talks to the remote Rentoka REST API. Every response envelope is
// validated here: callers receive a typed payload, an *APIError carrying the
// server's reason, or ErrUnauthorized on 401. Nothing downstream parses JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zerolog.Logger
}

func NewClient(cfg config.RentokaConfig, logger *zerolog.Logger) *Client {
	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		limiter:    limiter,
		logger:     logger,
	}
}

// envelope is the duck-typed {success,data,message} wrapper every endpoint
// answers with. Data stays raw until the caller's type is known.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
}

// flexID tolerates servers that send ids as numbers or strings.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	env, err := c.exchange(ctx, http.MethodPost, "/login", "", body)
	if err != nil {
		return nil, err
	}

	var data struct {
		IDCustomer flexID `json:"id_customer"`
		IDProvider flexID `json:"id_provider"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("decode login data: %w", err)
		}
	}

	return &domain.LoginResult{
		Token:      env.Token,
		CustomerID: string(data.IDCustomer),
		ProviderID: string(data.IDProvider),
	}, nil
}

func (c *Client) Register(ctx context.Context, email, password, confirmPassword, customerName string) error {
	body := map[string]string{
		"email":            email,
		"password":         password,
		"confirm_password": confirmPassword,
		"customer_name":    customerName,
	}

	_, err := c.exchange(ctx, http.MethodPost, "/register", "", body)
	return err
}

func (c *Client) Vehicles(ctx context.Context, token, customerID string) ([]models.Vehicle, error) {
	endpoint := "/customer/vehicle?id_customer=" + url.QueryEscape(customerID)

	env, err := c.exchange(ctx, http.MethodGet, endpoint, token, nil)
	if err != nil {
		return nil, err
	}

	var vehicles []models.Vehicle
	if err := json.Unmarshal(env.Data, &vehicles); err != nil {
		return nil, fmt.Errorf("decode vehicles: %w", err)
	}
	return vehicles, nil
}

func (c *Client) Profile(ctx context.Context, token, customerID string) (*models.Profile, error) {
	endpoint := "/customer/profile?id_customer=" + url.QueryEscape(customerID)

	env, err := c.exchange(ctx, http.MethodGet, endpoint, token, nil)
	if err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token, customerID string, profile *models.Profile) error {
	endpoint := "/customer/profile?id_customer=" + url.QueryEscape(customerID)

	_, err := c.exchange(ctx, http.MethodPut, endpoint, token, profile)
	return err
}

func (c *Client) Transactions(ctx context.Context, token, customerID string) ([]models.Transaction, error) {
	endpoint := "/customer/transaction?id_customer=" + url.QueryEscape(customerID)

	env, err := c.exchange(ctx, http.MethodGet, endpoint, token, nil)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := json.Unmarshal(env.Data, &transactions); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return transactions, nil
}

func (c *Client) TransactionDetail(ctx context.Context, token string, transactionID int64) (*models.TransactionDetail, error) {
	endpoint := fmt.Sprintf("/customer/transaction?id_transaction=%d", transactionID)

	env, err := c.exchange(ctx, http.MethodGet, endpoint, token, nil)
	if err != nil {
		return nil, err
	}

	var detail models.TransactionDetail
	if err := json.Unmarshal(env.Data, &detail); err != nil {
		return nil, fmt.Errorf("decode transaction detail: %w", err)
	}
	return &detail, nil
}

// CreateTransaction submits the booking and returns the new transaction id.
// The id must be present on success: the payment call depends on it.
func (c *Client) CreateTransaction(ctx context.Context, token string, req *models.CreateTransactionRequest) (int64, error) {
	env, err := c.exchange(ctx, http.MethodPost, "/customer/transaction", token, req)
	if err != nil {
		return 0, err
	}

	var data struct {
		IDTransaction int64 `json:"id_transaction"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return 0, fmt.Errorf("decode created transaction: %w", err)
	}
	if data.IDTransaction == 0 {
		return 0, fmt.Errorf("create transaction: missing id_transaction in response")
	}
	return data.IDTransaction, nil
}

func (c *Client) CancelTransaction(ctx context.Context, token string, transactionID int64) error {
	body := map[string]int64{"id_transaction": transactionID}

	_, err := c.exchange(ctx, http.MethodPost, "/customer/transaction/cancel", token, body)
	return err
}

func (c *Client) Pay(ctx context.Context, token string, req *models.PaymentRequest) error {
	_, err := c.exchange(ctx, http.MethodPost, "/payment", token, req)
	return err
}

// exchange performs one request/response round trip and validates the
// envelope. A nil body sends no payload.
func (c *Client) exchange(ctx context.Context, method, endpoint, token string, body any) (*envelope, error) {
	name := metricName(endpoint)

	env, err := c.roundTrip(ctx, method, endpoint, token, body)
	switch {
	case err == nil:
		metrics.IncAPIRequest(name, metrics.OutcomeSuccess)
	case errors.Is(err, ErrUnauthorized):
		metrics.IncAPIRequest(name, metrics.OutcomeUnauthorized)
	case AsAPIError(err) != nil:
		metrics.IncAPIRequest(name, metrics.OutcomeFailure)
	default:
		metrics.IncAPIRequest(name, metrics.OutcomeTransport)
	}
	return env, err
}

func (c *Client) roundTrip(ctx context.Context, method, endpoint, token string, body any) (*envelope, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", endpoint, err)
	}

	if !env.Success {
		c.logger.Warn().Str("endpoint", endpoint).Str("message", env.Message).Msg("api business failure")
		return nil, &APIError{Endpoint: endpoint, Message: env.Message}
	}

	return &env, nil
}

// metricName strips the query so labels stay low-cardinality.
func metricName(endpoint string) string {
	for i := range endpoint {
		if endpoint[i] == '?' {
			return endpoint[:i]
		}
	}
	return endpoint
}
