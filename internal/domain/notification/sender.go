package notification

import "context"

// Sender delivers a rendered message through some transport
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
