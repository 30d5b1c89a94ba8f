package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"trademind/internal/pkg/logger"
)

const DefaultQueue = "profile.reviewed"

// RabbitPublisher publishes review decisions to a durable queue on the
// default exchange. A connection is opened per publish; decisions are rare.
type RabbitPublisher struct {
	url   string
	queue string
	log   zerolog.Logger
}

func NewRabbitPublisher(url, queue string) *RabbitPublisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &RabbitPublisher{
		url:   url,
		queue: queue,
		log:   logger.Component("notification"),
	}
}

func (p *RabbitPublisher) Queue() string { return p.queue }

func (p *RabbitPublisher) PublishReviewDecision(ctx context.Context, ev ReviewDecision) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal review decision: %w", err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq dial failed")
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.log.Warn().Err(err).Str("user_id", ev.UserID).Msg("rabbitmq publish failed")
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	p.log.Debug().Str("type", ev.Type).Str("user_id", ev.UserID).Msg("review decision published")
	return nil
}

var (
	_ Publisher = (*RabbitPublisher)(nil)
	_ Publisher = Noop{}
)
