// Package mail hands rendered operations messages to a relay transport.
// Actual SMTP delivery belongs to the relay consumer.
package mail

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/notification"
)

// Envelope is the wire format published to the relay
type Envelope struct {
	MessageID uuid.UUID `json:"message_id"`
	To        string    `json:"to"`
	From      string    `json:"from,omitempty"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEnvelope wraps a message with a fresh id
func NewEnvelope(msg notification.Message) Envelope {
	return Envelope{
		MessageID: uuid.New(),
		To:        msg.To,
		From:      msg.From,
		Subject:   msg.Subject,
		Body:      msg.Body,
		CreatedAt: time.Now().UTC(),
	}
}

// Marshal encodes the envelope as JSON
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
