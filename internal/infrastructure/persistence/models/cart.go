package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
)

// CartModel is the persistence model for cart.Cart.
// idx_carts_open_customer allows a single open cart per customer.
type CartModel struct {
	AggregateModel
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_carts_open_customer,where:completed = false"`
	Completed  bool            `gorm:"not null;default:false"`
	OrderID    *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	Items      []CartItemModel `gorm:"foreignKey:CartID"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// ToDomain converts the model and its loaded items to a domain Cart
func (m *CartModel) ToDomain() *cart.Cart {
	c := &cart.Cart{
		BaseAggregateRoot: m.ToAggregateRoot(),
		CustomerID:        m.CustomerID,
		Completed:         m.Completed,
		OrderID:           m.OrderID,
		Items:             make([]cart.CartItem, 0, len(m.Items)),
	}
	for i := range m.Items {
		c.Items = append(c.Items, m.Items[i].ToDomain())
	}
	return c
}

// CartModelFromDomain creates a model from a domain Cart, without its items
func CartModelFromDomain(c *cart.Cart) *CartModel {
	m := &CartModel{
		CustomerID: c.CustomerID,
		Completed:  c.Completed,
		OrderID:    c.OrderID,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// CartItemModel is the persistence model for cart.CartItem
type CartItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CartID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:1"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:2;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ColorName string          `gorm:"type:varchar(50)"`
	ColorHex  string          `gorm:"type:varchar(7)"`
	Size      string          `gorm:"type:varchar(20)"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the model to a domain CartItem
func (m *CartItemModel) ToDomain() cart.CartItem {
	return cart.CartItem{
		ID:        m.ID,
		CartID:    m.CartID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		Variant:   cart.Variant{ColorName: m.ColorName, ColorHex: m.ColorHex, Size: m.Size},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// CartItemModelFromDomain creates a model from a domain CartItem
func CartItemModelFromDomain(i *cart.CartItem) *CartItemModel {
	return &CartItemModel{
		ID:        i.ID,
		CartID:    i.CartID,
		ProductID: i.ProductID,
		Quantity:  i.Quantity,
		UnitPrice: i.UnitPrice,
		ColorName: i.Variant.ColorName,
		ColorHex:  i.Variant.ColorHex,
		Size:      i.Variant.Size,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}
