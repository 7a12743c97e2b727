package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	pricingapp "github.com/storefront/backend/internal/application/pricing"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
)

// AddItemRequest represents a request to put a product into the cart
type AddItemRequest struct {
	ProductPID string
	Quantity   int
	Color      string
	Size       string
}

// AddItemResponse is returned after an item was added or merged
type AddItemResponse struct {
	Message   string `json:"message"`
	ItemCount int    `json:"item_count"`
}

// UpdateItemResponse carries the repriced cart after a quantity change
type UpdateItemResponse struct {
	pricingapp.Quote
	ItemTotal decimal.Decimal `json:"item_total"`
	CartTotal decimal.Decimal `json:"cart_total"`
	ItemCount int             `json:"item_count"`
}

// RemoveItemResponse carries the repriced cart after a line was removed
type RemoveItemResponse struct {
	pricingapp.Quote
	Message   string          `json:"message"`
	CartTotal decimal.Decimal `json:"cart_total"`
	ItemCount int             `json:"item_count"`
}

// ItemResponse is one cart line as shown on the cart page
type ItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	ProductPID string          `json:"product_pid"`
	Title      string          `json:"title"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
	ColorName  string          `json:"color_name,omitempty"`
	ColorHex   string          `json:"color_hex,omitempty"`
	Size       string          `json:"size,omitempty"`
	InStock    int             `json:"in_stock"`
}

// SummaryResponse is the cart page
type SummaryResponse struct {
	pricingapp.Quote
	CartID      *uuid.UUID     `json:"cart_id,omitempty"`
	Items       []ItemResponse `json:"items"`
	ItemCount   int            `json:"item_count"`
	CouponCode  string         `json:"coupon_code,omitempty"`
	CouponError string         `json:"coupon_error,omitempty"`
}

// InfoResponse is the header badge data
type InfoResponse struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

func toItemResponse(item cart.CartItem, product *catalog.Product) ItemResponse {
	resp := ItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		LineTotal: item.LineTotal(),
		ColorName: item.Variant.ColorName,
		ColorHex:  item.Variant.ColorHex,
		Size:      item.Variant.Size,
	}
	if product != nil {
		resp.ProductPID = product.PID
		resp.Title = product.Title
		resp.InStock = product.StockQuantity
	}
	return resp
}
