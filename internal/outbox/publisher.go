package outbox

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/withu0/pishatto-engine/internal/config"
)

const notifyQueue = "engine.notify"

type NotifyPublisherI interface {
	Publish(ctx context.Context, body []byte) error
	Close()
}

// NotifyPublisher pushes user notifications onto a durable broker queue.
// Consumers (push gateway, in-app feed) live outside the engine.
type NotifyPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewNotifyPublisher(cfg *config.Config) (*NotifyPublisher, error) {
	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(notifyQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &NotifyPublisher{conn: conn, ch: ch}, nil
}

func (p *NotifyPublisher) Publish(ctx context.Context, body []byte) error {
	return p.ch.PublishWithContext(ctx,
		"",          // default exchange
		notifyQueue, // routing key = queue name
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

func (p *NotifyPublisher) Close() {
	if err := p.ch.Close(); err != nil {
		zap.L().Error("can't close amqp channel", zap.Error(err))
	}
	if err := p.conn.Close(); err != nil {
		zap.L().Error("can't close amqp connection", zap.Error(err))
	}
}
