package mail

import (
	"fmt"
	"io"

	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Transport names
const (
	TransportLog   = "log"
	TransportAMQP  = "amqp"
	TransportKafka = "kafka"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewSender builds the configured transport. The returned closer releases broker connections.
func NewSender(cfg config.MailConfig, logger *zap.Logger) (notification.Sender, io.Closer, error) {
	switch cfg.Transport {
	case "", TransportLog:
		return NewLogSender(logger), nopCloser{}, nil
	case TransportAMQP:
		relay, err := NewAMQPRelay(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
		if err != nil {
			return nil, nil, err
		}
		return relay, relay, nil
	case TransportKafka:
		relay, err := NewKafkaRelay(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaMaxRetries, logger)
		if err != nil {
			return nil, nil, err
		}
		return relay, relay, nil
	default:
		return nil, nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
	}
}
