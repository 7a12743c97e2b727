package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/storefront/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// KafkaRelay publishes messages to a Kafka topic
type KafkaRelay struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewKafkaRelay starts a synchronous producer that waits for all in-sync replicas
func NewKafkaRelay(brokers []string, topic string, maxRetries int, logger *zap.Logger) (*KafkaRelay, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = maxRetries
	cfg.Producer.Return.Successes = true
	cfg.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start Kafka producer: %w", err)
	}
	return NewKafkaRelayWithProducer(producer, topic, logger), nil
}

// NewKafkaRelayWithProducer wraps an existing producer
func NewKafkaRelayWithProducer(producer sarama.SyncProducer, topic string, logger *zap.Logger) *KafkaRelay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaRelay{producer: producer, topic: topic, logger: logger}
}

// Send publishes the message keyed by recipient so one mailbox keeps its order
func (r *KafkaRelay) Send(ctx context.Context, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := NewEnvelope(msg)
	body, err := env.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal mail envelope: %w", err)
	}

	partition, offset, err := r.producer.SendMessage(&sarama.ProducerMessage{
		Topic: r.topic,
		Key:   sarama.StringEncoder(msg.To),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("message_id"), Value: []byte(env.MessageID.String())},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send mail to topic %s: %w", r.topic, err)
	}

	r.logger.Debug("Mail relayed",
		zap.String("transport", "kafka"),
		zap.String("topic", r.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

// Close flushes and closes the producer
func (r *KafkaRelay) Close() error {
	return r.producer.Close()
}

var _ notification.Sender = (*KafkaRelay)(nil)
