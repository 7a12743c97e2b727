package mail

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/notification"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// amqpChannel is the part of *amqp.Channel the relay uses
type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPRelay publishes messages to a RabbitMQ topic exchange
type AMQPRelay struct {
	conn       *amqp.Connection
	channel    amqpChannel
	exchange   string
	routingKey string
	logger     *zap.Logger
}

// NewAMQPRelay dials the broker and declares a durable topic exchange
func NewAMQPRelay(url, exchange, routingKey string, logger *zap.Logger) (*AMQPRelay, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	relay := newAMQPRelay(channel, exchange, routingKey, logger)
	relay.conn = conn
	return relay, nil
}

func newAMQPRelay(channel amqpChannel, exchange, routingKey string, logger *zap.Logger) *AMQPRelay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPRelay{channel: channel, exchange: exchange, routingKey: routingKey, logger: logger}
}

// Send publishes the message as a persistent JSON envelope
func (r *AMQPRelay) Send(ctx context.Context, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := NewEnvelope(msg)
	body, err := env.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal mail envelope: %w", err)
	}

	err = r.channel.Publish(r.exchange, r.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.MessageID.String(),
		Timestamp:    env.CreatedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish mail: %w", err)
	}

	r.logger.Debug("Mail relayed",
		zap.String("transport", "amqp"),
		zap.String("exchange", r.exchange),
		zap.String("message_id", env.MessageID.String()))
	return nil
}

// Close closes the channel and the connection
func (r *AMQPRelay) Close() error {
	var err error
	if r.channel != nil {
		err = r.channel.Close()
	}
	if r.conn != nil {
		if cerr := r.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

var _ notification.Sender = (*AMQPRelay)(nil)
