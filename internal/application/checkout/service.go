// Package checkout turns a customer's open cart into an order.
//
// Everything from the address to the cart finalization happens inside one
// TransactionScope: either the order, its lines, the stock decrements, the
// coupon redemption and the completed cart all commit together, or nothing
// does and the cart stays open.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	couponapp "github.com/storefront/backend/internal/application/coupon"
	notificationapp "github.com/storefront/backend/internal/application/notification"
	pricingapp "github.com/storefront/backend/internal/application/pricing"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NotificationMode selects how the operations mailbox learns about orders
type NotificationMode string

const (
	// NotifyInline sends during the transaction; a send failure aborts the checkout
	NotifyInline NotificationMode = "inline"
	// NotifyOutbox stores an order.placed event in the transaction for later delivery
	NotifyOutbox NotificationMode = "outbox"
)

// DefaultCODPaymentMethod is the payment method that marks an order as paid at placement
const DefaultCODPaymentMethod = "cash_on_delivery"

// ErrNoOpenCart is returned by Preview when there is nothing to check out
var ErrNoOpenCart = shared.NewDomainError(shared.CodeInvalidState, "Your cart is empty")

// errCartGone aborts the transaction when the cart disappeared between the precheck and the snapshot
var errCartGone = errors.New("open cart no longer available")

// ErrProductUnavailable is returned when a cart line's product was deleted before checkout
var ErrProductUnavailable = shared.NewValidationError("A product in your cart is no longer available")

// Config holds checkout policy
type Config struct {
	CODPaymentMethod string
	PaymentMethods   []string
	DefaultStatus    order.Status
	NotificationMode NotificationMode
}

// OrderNotifier sends the operations message for an order
type OrderNotifier interface {
	Dispatch(ctx context.Context, msg notification.OrderMessage) error
}

// Metrics records checkout business metrics
type Metrics interface {
	RecordOrderPlaced(ctx context.Context, o *order.CartOrder)
	RecordCheckoutFailed(ctx context.Context, reason string)
	RecordCouponRedeemed(ctx context.Context, code string)
}

type noopMetrics struct{}

func (noopMetrics) RecordOrderPlaced(context.Context, *order.CartOrder) {}
func (noopMetrics) RecordCheckoutFailed(context.Context, string)       {}
func (noopMetrics) RecordCouponRedeemed(context.Context, string)       {}

// Option configures a Service
type Option func(*Service)

// WithMetrics records checkout outcomes
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service orchestrates checkout
type Service struct {
	scope     TransactionScope
	carts     cart.CartRepository
	products  catalog.ProductRepository
	addresses order.AddressRepository
	coupons   *couponapp.Service
	engine    *pricingapp.Engine
	notifier  OrderNotifier
	cfg       Config
	metrics   Metrics
	logger    *zap.Logger
}

// NewService creates a checkout Service. notifier may be nil in outbox mode.
func NewService(
	scope TransactionScope,
	carts cart.CartRepository,
	products catalog.ProductRepository,
	addresses order.AddressRepository,
	coupons *couponapp.Service,
	engine *pricingapp.Engine,
	notifier OrderNotifier,
	cfg Config,
	opts ...Option,
) *Service {
	if cfg.CODPaymentMethod == "" {
		cfg.CODPaymentMethod = DefaultCODPaymentMethod
	}
	if cfg.DefaultStatus == "" {
		cfg.DefaultStatus = order.StatusProcessing
	}
	if cfg.NotificationMode == "" {
		cfg.NotificationMode = NotifyInline
	}
	s := &Service{
		scope:     scope,
		carts:     carts,
		products:  products,
		addresses: addresses,
		coupons:   coupons,
		engine:    engine,
		notifier:  notifier,
		cfg:       cfg,
		metrics:   noopMetrics{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout places an order from the customer's open cart.
// A missing or empty cart is OutcomeNoCart without error. Any failure rolls everything back.
func (s *Service) Checkout(ctx context.Context, req Request) (*Result, error) {
	customerID := req.Customer.UserID
	if req.Session == nil {
		req.Session = &session.State{}
	}

	open, err := s.carts.FindOpenByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &Result{Outcome: OutcomeNoCart}, nil
		}
		return nil, err
	}
	if open.IsEmpty() {
		return &Result{Outcome: OutcomeNoCart}, nil
	}

	if err := s.validate(req.Form); err != nil {
		s.metrics.RecordCheckoutFailed(ctx, failureReason(err))
		return nil, err
	}

	policy, err := s.engine.Policy(ctx)
	if err != nil {
		return nil, err
	}

	var placed *order.CartOrder
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := s.place(ctx, repos, req, policy)
		if err != nil {
			return err
		}
		placed = o
		return nil
	})
	if errors.Is(err, errCartGone) {
		return &Result{Outcome: OutcomeNoCart}, nil
	}
	if err != nil {
		s.metrics.RecordCheckoutFailed(ctx, failureReason(err))
		s.logger.Warn("Checkout failed",
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
		return nil, err
	}

	req.Session.ClearCoupon()
	s.metrics.RecordOrderPlaced(ctx, placed)
	if placed.CouponCode != "" {
		s.metrics.RecordCouponRedeemed(ctx, placed.CouponCode)
	}
	s.logger.Info("Order placed",
		zap.String("order_id", placed.OrderID),
		zap.String("invoice_no", placed.InvoiceNo),
		zap.String("customer_id", customerID.String()),
		zap.String("total", placed.Total.StringFixed(2)))

	return &Result{Outcome: OutcomePlaced, Order: placed}, nil
}

// place runs every write of a checkout against the transaction's repositories
func (s *Service) place(ctx context.Context, repos TransactionalRepositories, req Request, policy pricing.ShippingPolicy) (*order.CartOrder, error) {
	customerID := req.Customer.UserID

	// the live cart is read again inside the transaction so the snapshot matches what gets finalized
	live, err := repos.CartRepo().FindOpenByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errCartGone
		}
		return nil, err
	}
	if live.IsEmpty() {
		return nil, errCartGone
	}

	profile, err := repos.CustomerRepo().Ensure(ctx, req.Customer)
	if err != nil {
		return nil, fmt.Errorf("ensure customer profile: %w", err)
	}
	// a customer without any address gets the placeholder default before the first shipping address lands
	if err := repos.AddressRepo().EnsureDefault(ctx, customerID); err != nil {
		return nil, err
	}

	coupons := s.coupons.WithRepository(repos.CouponRepo())
	subtotal := live.Subtotal()
	ev, err := coupons.ResolveApplied(ctx, req.Session, subtotal)
	if err != nil {
		return nil, err
	}
	quote := s.engine.Price(subtotal, ev.Discount, policy)

	addr, err := order.NewShippingAddress(customerID, req.Form.AddressInput())
	if err != nil {
		return nil, err
	}
	if err := repos.AddressRepo().Create(ctx, addr); err != nil {
		return nil, err
	}

	phone := strings.TrimSpace(req.Form.Phone)
	if phone == "" {
		phone = profile.Phone
	}
	paymentMethod := strings.TrimSpace(req.Form.PaymentMethod)
	o, err := order.NewCartOrder(order.PlaceOrderParams{
		CustomerID:        customerID,
		Totals:            quote.Breakdown,
		CouponCode:        ev.Code(),
		PaymentMethod:     paymentMethod,
		Paid:              paymentMethod == s.cfg.CODPaymentMethod,
		Status:            s.cfg.DefaultStatus,
		ShippingAddressID: &addr.ID,
		Phone:             phone,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(live.Items))
	for _, item := range live.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := repos.ProductRepo().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range live.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, ErrProductUnavailable.WithDetail("product_id", item.ProductID.String())
		}
		o.AddLine(item, product.Title)
	}

	if err := repos.OrderRepo().Create(ctx, o); err != nil {
		return nil, err
	}
	for _, line := range o.Lines {
		if err := repos.ProductRepo().DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}

	if err := coupons.Redeem(ctx, ev); err != nil {
		return nil, err
	}

	if err := live.Complete(o.ID); err != nil {
		return nil, err
	}
	if err := repos.CartRepo().MarkCompleted(ctx, live); err != nil {
		return nil, err
	}

	if err := s.notify(ctx, repos, o, profile, addr); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) notify(ctx context.Context, repos TransactionalRepositories, o *order.CartOrder, profile *customer.Customer, addr *order.Address) error {
	switch s.cfg.NotificationMode {
	case NotifyOutbox:
		return repos.EventPublisher().Publish(ctx, order.NewOrderPlacedEvent(o))
	default:
		if s.notifier == nil {
			return nil
		}
		return s.notifier.Dispatch(ctx, notificationapp.BuildOrderMessage(o, profile, addr))
	}
}

func (s *Service) validate(f Form) error {
	if err := f.Validate(); err != nil {
		return err
	}
	method := strings.TrimSpace(f.PaymentMethod)
	if len(s.cfg.PaymentMethods) > 0 && !slices.Contains(s.cfg.PaymentMethods, method) {
		return shared.NewValidationError("Unsupported payment method").WithDetail("field", "payment_method")
	}
	return nil
}

// Preview prices the open cart for the checkout page and pops the pending flash message.
// Returns ErrNoOpenCart when there is nothing to check out.
func (s *Service) Preview(ctx context.Context, customerID uuid.UUID, state *session.State) (*PreviewResponse, error) {
	if state == nil {
		state = &session.State{}
	}
	open, err := s.carts.FindOpenByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrNoOpenCart
		}
		return nil, err
	}
	if open.IsEmpty() {
		return nil, ErrNoOpenCart
	}

	policy, err := s.engine.Policy(ctx)
	if err != nil {
		return nil, err
	}
	subtotal := open.Subtotal()
	ev, err := s.coupons.ResolveApplied(ctx, state, subtotal)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(open.Items))
	for _, item := range open.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	addresses, err := s.addresses.ListByUser(ctx, customerID, order.AddressTypeShipping)
	if err != nil {
		return nil, err
	}

	resp := &PreviewResponse{
		Quote:          s.engine.Price(subtotal, ev.Discount, policy),
		Items:          make([]PreviewItem, 0, len(open.Items)),
		CouponCode:     ev.Code(),
		TaxRate:        s.engine.TaxRate(),
		Addresses:      make([]AddressResponse, 0, len(addresses)),
		PaymentMethods: s.paymentMethods(),
		Message:        state.PopFlash(),
	}
	for _, item := range open.Items {
		title := ""
		if p, ok := products[item.ProductID]; ok {
			title = p.Title
		}
		resp.Items = append(resp.Items, PreviewItem{
			ItemID:    item.ID,
			Title:     title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal(),
			ColorName: item.Variant.ColorName,
			Size:      item.Variant.Size,
		})
	}
	for _, a := range addresses {
		resp.Addresses = append(resp.Addresses, toAddressResponse(a))
	}
	return resp, nil
}

func (s *Service) paymentMethods() []string {
	if len(s.cfg.PaymentMethods) == 0 {
		return []string{s.cfg.CODPaymentMethod}
	}
	return slices.Clone(s.cfg.PaymentMethods)
}

func failureReason(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		if reason, ok := de.Details["reason"].(string); ok {
			return strings.ToLower(de.Code) + ":" + reason
		}
		return strings.ToLower(de.Code)
	}
	return "internal"
}
