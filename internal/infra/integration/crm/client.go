package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/usecase"
)

// Client confirms console mutations against an external CRM webhook. It
// replaces the simulated remote when CRM_WEBHOOK_URL is set.
type Client struct {
	url    string
	token  string
	http   *http.Client
	logger *zap.Logger
	now    func() time.Time
}

var _ usecase.Remote = (*Client)(nil)

func NewClient(url, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:    url,
		token:  token,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Commit posts the operation name. Any transport error or non-2xx answer
// is a remote failure, so the caller rolls the optimistic change back.
func (c *Client) Commit(ctx context.Context, op string) error {
	body, err := json.Marshal(commitRequest{Operation: op, SentAt: c.now()})
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("erro ao criar requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}
		c.logger.Error("❌ CRM: falha na requisição", zap.String("op", op), zap.Error(err))
		return remoteFailure(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("❌ CRM: status inesperado",
			zap.String("op", op), zap.Int("status", resp.StatusCode), zap.ByteString("body", respBody))
		return remoteFailure(op, fmt.Errorf("crm webhook status %d", resp.StatusCode))
	}

	c.logger.Debug("✅ CRM: operação confirmada", zap.String("op", op))
	return nil
}

func remoteFailure(op string, err error) error {
	return &usecase.TechnicalError{
		Code:    usecase.CodeRemoteFailure,
		Message: "Network request failed. Please try again.",
		Err:     fmt.Errorf("%s: %w", op, err),
	}
}
