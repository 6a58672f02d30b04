package outbox

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xcel/profile/internal/observability"
)

const (
	TopicProfileUpdated = "profile.updated"
	TopicUserRegistered = "user.registered"

	batchSize = 50
)

type Source interface {
	Fetch(ctx context.Context, limit int) ([]Row, error)
	MarkPublished(ctx context.Context, id string) error
}

type Sink interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Publisher polls the outbox table and publishes unpublished events to Kafka.
// A row is marked only after the broker accepted it, so delivery is
// at-least-once.
type Publisher struct {
	src      Source
	sink     Sink
	interval time.Duration
	log      *zap.Logger
}

func NewPublisher(src Source, sink Sink, interval time.Duration, log *zap.Logger) *Publisher {
	return &Publisher{src: src, sink: sink, interval: interval, log: log}
}

// Start blocks until ctx is cancelled.
func (p *Publisher) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.publishBatch(ctx)
		}
	}
}

func (p *Publisher) publishBatch(ctx context.Context) {
	rows, err := p.src.Fetch(ctx, batchSize)
	if err != nil {
		p.log.Error("outbox query failed", zap.Error(err))
		return
	}

	for _, row := range rows {
		if err := p.sink.Publish(ctx, row.Topic, []byte(row.Key), row.Payload); err != nil {
			observability.OutboxPublished.WithLabelValues(row.Topic, "failed").Inc()
			p.log.Warn("kafka publish failed", zap.String("id", row.ID), zap.String("topic", row.Topic), zap.Error(err))
			continue
		}

		observability.OutboxPublished.WithLabelValues(row.Topic, "published").Inc()
		if err := p.src.MarkPublished(ctx, row.ID); err != nil {
			p.log.Error("outbox mark published failed", zap.String("id", row.ID), zap.Error(err))
		}
	}
}
