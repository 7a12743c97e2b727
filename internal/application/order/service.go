// Package order serves placed orders to their customers and to administrators.
package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Reasons reported by unavailable sections
const (
	ReasonNotFound   = "not_found"
	ReasonNoAddress  = "no_shipping_address"
	ReasonLoadFailed = "load_failed"
)

// Service reads orders and applies administrative corrections
type Service struct {
	orders    order.OrderRepository
	addresses order.AddressRepository
	customers customer.CustomerRepository
	logger    *zap.Logger
}

// NewService creates an order Service
func NewService(orders order.OrderRepository, addresses order.AddressRepository, customers customer.CustomerRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orders: orders, addresses: addresses, customers: customers, logger: logger}
}

// Confirmation returns a customer's own order. Orders of other customers are reported as not found.
func (s *Service) Confirmation(ctx context.Context, customerID uuid.UUID, orderID string) (*ConfirmationResponse, error) {
	o, err := s.orders.FindByOrderID(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	resp := &ConfirmationResponse{
		SummaryData: toSummary(o),
		Lines:       toLines(o.Lines),
		Totals:      toTotals(o, o.LinesTotal()),
	}
	if o.ShippingAddressID != nil {
		addr, err := s.addresses.FindByID(ctx, *o.ShippingAddressID)
		switch {
		case err == nil:
			data := toAddress(addr)
			resp.ShippingAddress = &data
		case !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
	}
	return resp, nil
}

// Detail loads the admin view of an order. The summary must load; every other section
// is fetched concurrently and reported as unavailable with a reason instead of failing the whole view.
func (s *Service) Detail(ctx context.Context, id uuid.UUID) (*DetailResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &DetailResponse{Summary: available(toSummary(o))}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.customers.FindByID(gctx, o.CustomerID)
		if err != nil {
			resp.Customer = unavailable[CustomerData](s.reason("customer", id, err))
			return nil
		}
		resp.Customer = available(CustomerData{
			ID:       c.ID,
			Username: c.Username,
			FullName: c.FullName,
			Email:    c.Email,
			Phone:    c.Phone,
		})
		return nil
	})
	g.Go(func() error {
		if o.ShippingAddressID == nil {
			resp.ShippingAddress = unavailable[AddressData](ReasonNoAddress)
			return nil
		}
		a, err := s.addresses.FindByID(gctx, *o.ShippingAddressID)
		if err != nil {
			resp.ShippingAddress = unavailable[AddressData](s.reason("shipping_address", id, err))
			return nil
		}
		resp.ShippingAddress = available(toAddress(a))
		return nil
	})
	g.Go(func() error {
		lines, err := s.orders.FindLines(gctx, id)
		if err != nil {
			reason := s.reason("lines", id, err)
			resp.Lines = unavailable[[]LineData](reason)
			resp.Totals = unavailable[TotalsData](reason)
			return nil
		}
		resp.Lines = available(toLines(lines))
		resp.Totals = available(toTotals(o, pricing.Subtotal(lines)))
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return resp, nil
}

// RecomputeTotals rebuilds the subtotal from the order lines and the total from the stored
// discount, tax and shipping. Concurrent edits fail with shared.ErrConcurrencyConflict.
func (s *Service) RecomputeTotals(ctx context.Context, id uuid.UUID) (*TotalsData, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := o.Total
	o.RecomputeTotals()
	if err := s.orders.UpdateTotals(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("Order totals recomputed",
		zap.String("order_id", o.OrderID),
		zap.String("total_before", before.StringFixed(2)),
		zap.String("total_after", o.Total.StringFixed(2)))

	totals := toTotals(o, o.LinesTotal())
	return &totals, nil
}

func (s *Service) reason(section string, id uuid.UUID, err error) string {
	if errors.Is(err, shared.ErrNotFound) {
		return ReasonNotFound
	}
	s.logger.Warn("Order detail section unavailable",
		zap.String("section", section),
		zap.String("order_id", id.String()),
		zap.Error(err))
	return ReasonLoadFailed
}
