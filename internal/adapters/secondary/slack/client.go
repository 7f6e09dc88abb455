package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"log/slog"
)

const (
	slackAPIBaseURL = "https://slack.com/api"
	apiTimeout      = 30 * time.Second
)

// Client клиент для работы со Slack Web API
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	log        *slog.Logger
}

// NewClient создаёт новый клиент для Slack Web API
func NewClient(token string, log *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: apiTimeout,
		},
		baseURL: slackAPIBaseURL,
		token:   token,
		log:     log,
	}
}

// call выполняет POST-запрос к методу Slack Web API и декодирует ответ в out.
// out должен встраивать APIResponse, иначе ошибка API останется незамеченной.
func (c *Client) call(ctx context.Context, method string, payload any, out any) error {
	url := c.baseURL + "/" + method

	jsonData, err := json.Marshal(payload)
	if err != nil {
		c.log.Error("failed to marshal request",
			"error", err,
			"method", method,
		)
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		c.log.Error("failed to create request",
			"error", err,
			"method", method,
		)
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("failed to send request to slack",
			"error", err,
			"method", method,
		)
		return fmt.Errorf("failed to send request to slack: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error("failed to read response body",
			"error", err,
			"method", method,
			"status_code", resp.StatusCode,
		)
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.log.Error("failed to unmarshal response",
			"error", err,
			"method", method,
			"status_code", resp.StatusCode,
			"body", string(body),
		)
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
