// Package notification tells the operations mailbox about new orders,
// either inline during checkout or from the outbox once the order committed.
package notification

import (
	"context"
	"strings"

	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrNotificationFailed wraps transport failures
var ErrNotificationFailed = shared.NewDomainError(shared.CodeNotificationFailed, "Failed to notify operations about the order")

// DispatcherConfig holds the mail addressing
type DispatcherConfig struct {
	OperationsEmail string
	FromEmail       string
}

// Dispatcher renders order messages and hands them to a transport
type Dispatcher struct {
	sender notification.Sender
	cfg    DispatcherConfig
	logger *zap.Logger
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(sender notification.Sender, cfg DispatcherConfig, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{sender: sender, cfg: cfg, logger: logger}
}

// Dispatch formats msg and sends it to the operations address.
// Transport errors are returned as NOTIFICATION_FAILED.
func (d *Dispatcher) Dispatch(ctx context.Context, msg notification.OrderMessage) error {
	mail := notification.Format(msg)
	mail.To = d.cfg.OperationsEmail
	mail.From = d.cfg.FromEmail

	if err := d.sender.Send(ctx, mail); err != nil {
		d.logger.Error("Order notification failed",
			zap.String("order_id", msg.OrderID),
			zap.String("to", mail.To),
			zap.Error(err))
		return ErrNotificationFailed.WithCause(err)
	}
	d.logger.Info("Order notification sent",
		zap.String("order_id", msg.OrderID),
		zap.String("to", mail.To))
	return nil
}

// BuildOrderMessage collects what the operations message reports about a placed order.
// The phone on the order wins over the one on the profile.
func BuildOrderMessage(o *order.CartOrder, c *customer.Customer, addr *order.Address) notification.OrderMessage {
	msg := notification.OrderMessage{
		OrderID:    o.OrderID,
		InvoiceNo:  o.InvoiceNo,
		Phone:      o.Phone,
		CouponCode: o.CouponCode,
		Discount:   o.Discount,
		Total:      o.Total,
		Items:      make([]notification.LineItem, 0, len(o.Lines)),
	}
	if c != nil {
		msg.CustomerName = c.DisplayName()
		msg.CustomerEmail = c.Email
		if strings.TrimSpace(msg.Phone) == "" {
			msg.Phone = c.Phone
		}
	}
	if addr != nil {
		msg.Line1 = addr.Line1
		if addr.Line2 != "" {
			msg.Line1 = addr.Line1 + " " + addr.Line2
		}
		msg.City = addr.City
		msg.State = addr.State
		msg.Country = addr.Country
		msg.PostalCode = addr.PostalCode
	}
	for _, line := range o.Lines {
		msg.Items = append(msg.Items, notification.LineItem{
			Title:     line.ProductTitle,
			Quantity:  line.Quantity,
			ColorName: line.Variant.ColorName,
			Size:      line.Variant.Size,
			UnitPrice: line.UnitPrice,
		})
	}
	return msg
}
