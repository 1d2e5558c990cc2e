package sendgrid

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sendgrid/rest"
	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/yungbote/neurobridge-progress/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-progress/internal/platform/envutil"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type Client interface {
	Send(ctx context.Context, msg Message) (*SendResult, error)
}

type Config struct {
	APIKey           string
	BaseURL          string
	DefaultFromEmail string
	DefaultFromName  string
	MaxRetries       int
	Backoff          time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:           envutil.String("SENDGRID_API_KEY", ""),
		BaseURL:          envutil.String("SENDGRID_BASE_URL", "https://api.sendgrid.com"),
		DefaultFromEmail: envutil.String("SENDGRID_FROM_EMAIL", ""),
		DefaultFromName:  envutil.String("SENDGRID_FROM_NAME", "Course Progress"),
		MaxRetries:       envutil.Int("SENDGRID_MAX_RETRIES", 3),
		Backoff:          envutil.Duration("SENDGRID_BACKOFF", time.Second),
	}
}

type Address struct {
	Email string
	Name  string
}

type Attachment struct {
	Filename string
	MIMEType string
	Content  []byte
}

type Message struct {
	From        Address
	To          Address
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

type SendResult struct {
	StatusCode int
	MessageID  string
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		body = "<empty body>"
	}
	if len(body) > 2000 {
		body = body[:2000] + "..."
	}
	return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, body)
}

func (e *HTTPError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type client struct {
	log *logger.Logger
	cfg Config
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	return &client{log: log.With("client", "SendGridClient"), cfg: cfg}, nil
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func (c *client) Send(ctx context.Context, msg Message) (*SendResult, error) {
	if c == nil {
		return nil, fmt.Errorf("sendgrid client unavailable")
	}
	m, err := c.build(msg)
	if err != nil {
		return nil, err
	}

	req := sg.GetRequest(c.cfg.APIKey, "/v3/mail/send", c.cfg.BaseURL)
	req.Method = rest.Post
	req.Body = mail.GetRequestBody(m)

	backoff := c.cfg.Backoff
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := sg.MakeRequestWithContext(ctx, req)
		if err == nil && resp.StatusCode >= 300 {
			err = &HTTPError{StatusCode: resp.StatusCode, Body: resp.Body}
		}
		if err == nil {
			return &SendResult{StatusCode: resp.StatusCode, MessageID: firstHeader(resp.Headers, "X-Message-Id")}, nil
		}
		httpErr, isHTTP := err.(*HTTPError)
		if (isHTTP && !httpErr.retryable()) || attempt >= c.cfg.MaxRetries {
			return nil, err
		}
		fields := append([]interface{}{"attempt", attempt + 1, "max_retries", c.cfg.MaxRetries, "sleep", backoff.String(), "error", err.Error()}, ctxutil.LogFields(ctx)...)
		c.log.Warn("Sendgrid request retrying", fields...)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func (c *client) build(msg Message) (*mail.SGMailV3, error) {
	from := msg.From
	if strings.TrimSpace(from.Email) == "" {
		from = Address{Email: c.cfg.DefaultFromEmail, Name: c.cfg.DefaultFromName}
	}
	from.Email = strings.TrimSpace(from.Email)
	if from.Email == "" {
		return nil, fmt.Errorf("sendgrid: From.Email required (or set SENDGRID_FROM_EMAIL)")
	}
	to := strings.TrimSpace(msg.To.Email)
	if to == "" {
		return nil, fmt.Errorf("sendgrid: To required")
	}
	subject := strings.TrimSpace(msg.Subject)
	if subject == "" {
		return nil, fmt.Errorf("sendgrid: Subject required")
	}
	if strings.TrimSpace(msg.Text) == "" && strings.TrimSpace(msg.HTML) == "" {
		return nil, fmt.Errorf("sendgrid: Text or HTML content required")
	}

	m := mail.NewSingleEmail(
		mail.NewEmail(strings.TrimSpace(from.Name), from.Email),
		subject,
		mail.NewEmail(strings.TrimSpace(msg.To.Name), to),
		msg.Text,
		msg.HTML,
	)
	for _, a := range msg.Attachments {
		if strings.TrimSpace(a.Filename) == "" || len(a.Content) == 0 {
			return nil, fmt.Errorf("sendgrid: attachment requires filename and content")
		}
		att := mail.NewAttachment()
		att.SetFilename(a.Filename)
		att.SetType(a.MIMEType)
		att.SetDisposition("attachment")
		att.SetContent(base64.StdEncoding.EncodeToString(a.Content))
		m.AddAttachment(att)
	}
	return m, nil
}

func firstHeader(h map[string][]string, key string) string {
	for k, v := range h {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
	}
	return ""
}
