package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yungbote/neurobridge-progress/internal/modules/coursework"
	"github.com/yungbote/neurobridge-progress/internal/platform/redis"
	"github.com/yungbote/neurobridge-progress/internal/platform/webhook"
)

// RedisSink publishes events on the bus channel as JSON.
func RedisSink(bus redis.EventBus) coursework.Publisher {
	if bus == nil {
		return nil
	}
	return coursework.PublisherFunc(func(ctx context.Context, evt coursework.Event) error {
		return bus.Publish(ctx, evt)
	})
}

// WebhookSink posts events to an HTTP endpoint.
func WebhookSink(p *webhook.Publisher) coursework.Publisher {
	if p == nil {
		return nil
	}
	return coursework.PublisherFunc(func(ctx context.Context, evt coursework.Event) error {
		return p.Publish(ctx, string(evt.Type), evt)
	})
}

// DecodeEvent parses a payload produced by RedisSink.
func DecodeEvent(payload []byte) (coursework.Event, error) {
	var evt coursework.Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return coursework.Event{}, fmt.Errorf("decode event: %w", err)
	}
	if evt.Type == "" {
		return coursework.Event{}, fmt.Errorf("decode event: missing type")
	}
	return evt, nil
}
