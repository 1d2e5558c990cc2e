package app

import (
	"context"
	"fmt"

	"github.com/yungbote/neurobridge-progress/internal/platform/gcp"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
	"github.com/yungbote/neurobridge-progress/internal/platform/redis"
	"github.com/yungbote/neurobridge-progress/internal/platform/sendgrid"
	"github.com/yungbote/neurobridge-progress/internal/platform/webhook"
)

// Clients holds the optional outbound integrations. A nil field means the
// integration is not configured.
type Clients struct {
	Bus     redis.EventBus
	Webhook *webhook.Publisher
	Mail    sendgrid.Client
	Bucket  gcp.BucketService
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	if cfg.RedisAddr != "" {
		bus, err := redis.NewEventBus(log, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			return out, fmt.Errorf("init redis event bus: %w", err)
		}
		out.Bus = bus
	}

	if whCfg := webhook.ConfigFromEnv(); whCfg.URL != "" {
		wh, err := webhook.New(log, whCfg)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init event webhook: %w", err)
		}
		out.Webhook = wh
	}

	if mailCfg := sendgrid.ConfigFromEnv(); mailCfg.APIKey != "" {
		mail, err := sendgrid.New(log, mailCfg)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init sendgrid: %w", err)
		}
		out.Mail = mail
	} else {
		log.Info("SENDGRID_API_KEY not set; certificate emails disabled")
	}

	if cfg.CertBucket != "" {
		storageCfg, err := gcp.StorageConfigFromEnv()
		if err != nil {
			out.Close()
			return Clients{}, err
		}
		bucket, err := gcp.NewBucketService(ctx, log, storageCfg, cfg.CertBucket, cfg.CertCDNDomain)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init certificate bucket: %w", err)
		}
		out.Bucket = bucket
	}
	return out, nil
}

func (c Clients) Close() {
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
	if c.Bucket != nil {
		_ = c.Bucket.Close()
	}
}
