package webhook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yungbote/neurobridge-progress/internal/platform/envutil"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type Config struct {
	URL        string
	Secret     string
	Timeout    time.Duration
	MaxRetries int
}

func ConfigFromEnv() Config {
	return Config{
		URL:        envutil.String("EVENT_WEBHOOK_URL", ""),
		Secret:     envutil.String("EVENT_WEBHOOK_SECRET", ""),
		Timeout:    envutil.Duration("EVENT_WEBHOOK_TIMEOUT", 10*time.Second),
		MaxRetries: envutil.Int("EVENT_WEBHOOK_MAX_RETRIES", 2),
	}
}

// Publisher posts JSON events to a fixed URL.
type Publisher struct {
	log    *logger.Logger
	url    string
	client *resty.Client
}

func New(log *logger.Logger, cfg Config) (*Publisher, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, fmt.Errorf("missing EVENT_WEBHOOK_URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	rc := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500 || r.StatusCode() == 429
		})
	if s := strings.TrimSpace(cfg.Secret); s != "" {
		rc.SetHeader("X-Webhook-Secret", s)
	}
	return &Publisher{log: log.With("client", "EventWebhook"), url: url, client: rc}, nil
}

// Publish posts payload with eventType in the X-Event-Type header.
func (p *Publisher) Publish(ctx context.Context, eventType string, payload any) error {
	if p == nil || p.client == nil {
		return fmt.Errorf("webhook publisher not initialized")
	}
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("X-Event-Type", eventType).
		SetBody(payload).
		Post(p.url)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook http %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	p.log.Debug("webhook delivered", "event", eventType, "status", resp.StatusCode())
	return nil
}
