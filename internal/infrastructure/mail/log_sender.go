package mail

import (
	"context"

	"github.com/storefront/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// LogSender writes messages to the application log. Used in development and tests.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs the message
func (s *LogSender) Send(ctx context.Context, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info("Operations mail",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body))
	return nil
}

var _ notification.Sender = (*LogSender)(nil)
