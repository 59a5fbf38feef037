package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shaiso/Reporta/internal/domain"
)

const (
	// defaultTimeout — таймаут HTTP запросов к tracker API.
	// Единственный таймаут в pipeline: оркестратор своего не добавляет.
	defaultTimeout = 30 * time.Second

	// maxResponseBody — ограничение на размер ответа.
	maxResponseBody = 10 * 1024 * 1024 // 10 MB

	// DefaultStatusFilter — статусы occurrences, попадающие в отчёт по умолчанию.
	DefaultStatusFilter = "NEW,OPEN,PENDING,WAITING,IN_PROGRESS,RESOLVED"
)

// ErrAuthFailed — tracker API отклонил учётные данные.
var ErrAuthFailed = errors.New("tracker authentication failed")

// APIError — не-2xx ответ tracker API.
type APIError struct {
	StatusCode int
	Status     string
}

// Error реализует интерфейс error.
func (e *APIError) Error() string {
	return fmt.Sprintf("tracker API: HTTP %d %s", e.StatusCode, e.Status)
}

// Client — HTTP-клиент tracker API (аутентификация + постраничная выборка).
type Client struct {
	authURL  string
	apiURL   string
	apiKey   string
	email    string
	password string

	httpClient *http.Client
	logger     *slog.Logger
}

// Config — конфигурация Client.
type Config struct {
	AuthURL  string
	APIURL   string
	APIKey   string
	Email    string
	Password string

	Timeout time.Duration // default: 30s
	Logger  *slog.Logger
}

// New создаёт новый Client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		authURL:  cfg.AuthURL,
		apiURL:   cfg.APIURL,
		apiKey:   cfg.APIKey,
		email:    cfg.Email,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// authResponse — ответ endpoint'а аутентификации.
type authResponse struct {
	IDToken string `json:"id_token"`
}

// Authenticate получает bearer token по учётным данным сервисного аккаунта.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]any{
		"email":      c.email,
		"password":   c.password,
		"rememberMe": true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: HTTP %d", ErrAuthFailed, resp.StatusCode)
	}

	var auth authResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&auth); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrAuthFailed, err)
	}
	if auth.IDToken == "" {
		return "", fmt.Errorf("%w: empty id_token", ErrAuthFailed)
	}

	return auth.IDToken, nil
}

// GetPage возвращает одну страницу occurrences.
func (c *Client) GetPage(ctx context.Context, token string, page, size int, statusFilter string) ([]domain.Occurrence, error) {
	if statusFilter == "" {
		statusFilter = DefaultStatusFilter
	}

	params := url.Values{}
	params.Set("status", statusFilter)
	params.Set("date", "global.createdAt")
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	params.Set("sort", "createdDate,desc")

	reqURL := c.apiURL + "/occurrences/summary?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build page request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var occurrences []domain.Occurrence
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&occurrences); err != nil {
		return nil, fmt.Errorf("decode page %d: %w", page, err)
	}

	return occurrences, nil
}
