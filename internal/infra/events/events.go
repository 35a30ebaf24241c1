package events

import (
	"context"
	"encoding/json"
	"time"

	"saas-api/logger"

	"go.uber.org/zap"
)

const (
	TypeFeedbackCreated = "feedback.created"
	TypeCreditsAdjusted = "credits.adjusted"
)

type Event struct {
	Type       string      `json:"type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// Publisher delivers domain events to whoever listens downstream.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(_ context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	logger.Get().Info("event published", zap.String("type", ev.Type), zap.ByteString("payload", payload))
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// PublishAsync fires ev in the background; failures are only logged.
func PublishAsync(p Publisher, ev Event) {
	if p == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.Publish(ctx, ev); err != nil {
			logger.Get().Warn("event publish failed", zap.String("type", ev.Type), zap.Error(err))
		}
	}()
}
