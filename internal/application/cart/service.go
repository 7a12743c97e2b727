// Package cart implements the cart endpoints: adding, updating and removing
// lines of a customer's open cart and pricing it the same way checkout does.
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	couponapp "github.com/storefront/backend/internal/application/coupon"
	pricingapp "github.com/storefront/backend/internal/application/pricing"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/domain/shared"
)

// ErrProductNotFound is returned when the product to add does not exist
var ErrProductNotFound = shared.NewNotFoundError("Product")

// Service handles cart operations for the acting customer
type Service struct {
	carts     cart.CartRepository
	products  catalog.ProductRepository
	customers customer.CustomerRepository
	coupons   *couponapp.Service
	engine    *pricingapp.Engine
}

// NewService creates a new cart Service
func NewService(
	carts cart.CartRepository,
	products catalog.ProductRepository,
	customers customer.CustomerRepository,
	coupons *couponapp.Service,
	engine *pricingapp.Engine,
) *Service {
	return &Service{
		carts:     carts,
		products:  products,
		customers: customers,
		coupons:   coupons,
		engine:    engine,
	}
}

// AddItem puts quantity units of the product into the customer's open cart, creating the
// customer profile and the cart when needed. Stock is checked but not reserved.
func (s *Service) AddItem(ctx context.Context, identity customer.Identity, req AddItemRequest) (*AddItemResponse, error) {
	if req.Quantity < cart.MinLineQuantity {
		return nil, cart.ErrQuantityTooLow
	}

	product, err := s.products.FindByPID(ctx, req.ProductPID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.HasStock(req.Quantity) {
		return nil, outOfStock(product.StockQuantity)
	}

	variant, err := cart.NewVariant(req.Color, req.Size)
	if err != nil {
		return nil, err
	}

	if _, err := s.customers.Ensure(ctx, identity); err != nil {
		return nil, fmt.Errorf("ensure customer profile: %w", err)
	}
	c, err := s.carts.GetOrCreateOpen(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	item, err := c.AddItem(product.ID, req.Quantity, product.Price, variant)
	if err != nil {
		return nil, err
	}
	if err := s.carts.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	return &AddItemResponse{
		Message:   fmt.Sprintf("%s was added to your cart", product.Title),
		ItemCount: c.LineCount(),
	}, nil
}

// UpdateQuantity sets an item's quantity, bounded by the product's current stock,
// and reprices the cart with the session's coupon.
func (s *Service) UpdateQuantity(ctx context.Context, customerID uuid.UUID, state *session.State, itemID uuid.UUID, quantity int) (*UpdateItemResponse, error) {
	c, err := s.ownedCart(ctx, customerID, itemID)
	if err != nil {
		return nil, err
	}
	item := c.FindItem(itemID)

	product, err := s.products.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}

	updated, err := c.UpdateQuantity(itemID, quantity, product.StockQuantity)
	if err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) && de.Code == shared.CodeInsufficientStock {
			return nil, shared.NewDomainError(shared.CodeInsufficientStock,
				fmt.Sprintf("Only %d items available", product.StockQuantity)).
				WithDetail("available", product.StockQuantity)
		}
		return nil, err
	}
	if err := s.carts.SaveItem(ctx, updated); err != nil {
		return nil, err
	}

	quote, err := s.price(ctx, c, state)
	if err != nil {
		return nil, err
	}
	return &UpdateItemResponse{
		Quote:     quote,
		ItemTotal: updated.LineTotal(),
		CartTotal: quote.Subtotal,
		ItemCount: c.LineCount(),
	}, nil
}

// RemoveItem deletes a line and reprices what is left
func (s *Service) RemoveItem(ctx context.Context, customerID uuid.UUID, state *session.State, itemID uuid.UUID) (*RemoveItemResponse, error) {
	c, err := s.ownedCart(ctx, customerID, itemID)
	if err != nil {
		return nil, err
	}
	item := c.FindItem(itemID)

	title := "Item"
	if product, err := s.products.FindByID(ctx, item.ProductID); err == nil {
		title = product.Title
	}

	if err := c.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.carts.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}

	quote, err := s.price(ctx, c, state)
	if err != nil {
		return nil, err
	}
	return &RemoveItemResponse{
		Quote:     quote,
		Message:   fmt.Sprintf("%s removed from cart", title),
		CartTotal: quote.Subtotal,
		ItemCount: c.LineCount(),
	}, nil
}

// ApplyCoupon resolves code against the open cart and records the result in the session
func (s *Service) ApplyCoupon(ctx context.Context, customerID uuid.UUID, state *session.State, code string) error {
	subtotal := decimal.Zero
	c, err := s.carts.FindOpenByCustomer(ctx, customerID)
	switch {
	case err == nil:
		subtotal = c.Subtotal()
	case !errors.Is(err, shared.ErrNotFound):
		return err
	}
	_, err = s.coupons.Apply(ctx, state, code, subtotal)
	return err
}

// Summary returns the cart page. A customer without an open cart sees an empty one.
func (s *Service) Summary(ctx context.Context, customerID uuid.UUID, state *session.State) (*SummaryResponse, error) {
	c, err := s.carts.FindOpenByCustomer(ctx, customerID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		c = cart.NewCart(customerID)
		c.ID = uuid.Nil
	}

	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	products := map[uuid.UUID]*catalog.Product{}
	if len(ids) > 0 {
		if products, err = s.products.FindByIDs(ctx, ids); err != nil {
			return nil, err
		}
	}

	quote, err := s.price(ctx, c, state)
	if err != nil {
		return nil, err
	}

	resp := &SummaryResponse{
		Quote:     quote,
		Items:     make([]ItemResponse, 0, len(c.Items)),
		ItemCount: c.LineCount(),
	}
	if c.ID != uuid.Nil {
		id := c.ID
		resp.CartID = &id
	}
	for _, item := range c.Items {
		resp.Items = append(resp.Items, toItemResponse(item, products[item.ProductID]))
	}
	if state != nil {
		resp.CouponCode = state.AppliedCoupon
		resp.CouponError = state.CouponError
	}
	return resp, nil
}

// Info returns the line count and raw line total of the open cart.
// Anonymous callers pass uuid.Nil and get zeros.
func (s *Service) Info(ctx context.Context, customerID uuid.UUID) (*InfoResponse, error) {
	resp := &InfoResponse{Total: decimal.Zero}
	if customerID == uuid.Nil {
		return resp, nil
	}
	c, err := s.carts.FindOpenByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return resp, nil
		}
		return nil, err
	}
	resp.Count = c.LineCount()
	resp.Total = c.Subtotal()
	return resp, nil
}

// ownedCart loads the open cart holding itemID, reporting NOT_FOUND for items of other customers
func (s *Service) ownedCart(ctx context.Context, customerID, itemID uuid.UUID) (*cart.Cart, error) {
	c, err := s.carts.FindByItem(ctx, customerID, itemID)
	if err != nil {
		return nil, err
	}
	if !c.OwnedBy(customerID) || c.Completed || c.FindItem(itemID) == nil {
		return nil, cart.ErrItemNotFound
	}
	return c, nil
}

func (s *Service) price(ctx context.Context, c *cart.Cart, state *session.State) (pricingapp.Quote, error) {
	policy, err := s.engine.Policy(ctx)
	if err != nil {
		return pricingapp.Quote{}, err
	}
	subtotal := c.Subtotal()
	ev, err := s.coupons.ResolveApplied(ctx, state, subtotal)
	if err != nil {
		return pricingapp.Quote{}, err
	}
	return s.engine.Price(subtotal, ev.Discount, policy), nil
}

func outOfStock(available int) *shared.DomainError {
	return shared.NewDomainError(shared.CodeOutOfStock,
		fmt.Sprintf("Not enough stock available (remaining: %d)", available)).
		WithDetail("available", available)
}
