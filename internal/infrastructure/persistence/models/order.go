package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/order"
)

// AddressModel is the persistence model for order.Address.
// idx_addresses_default_user allows one default address per user.
type AddressModel struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:idx_addresses_default_user,where:is_default = true"`
	Type       order.AddressType `gorm:"type:varchar(10);not null"`
	Line1      string            `gorm:"type:varchar(255);not null"`
	Line2      string            `gorm:"type:varchar(255)"`
	City       string            `gorm:"type:varchar(100);not null"`
	State      string            `gorm:"type:varchar(100);not null"`
	PostalCode string            `gorm:"type:varchar(20);not null"`
	Country    string            `gorm:"type:varchar(100);not null"`
	Phone      string            `gorm:"type:varchar(30)"`
	IsDefault  bool              `gorm:"not null;default:false"`
	CreatedAt  time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the model to a domain Address
func (m *AddressModel) ToDomain() *order.Address {
	return &order.Address{
		ID:         m.ID,
		UserID:     m.UserID,
		Type:       m.Type,
		Line1:      m.Line1,
		Line2:      m.Line2,
		City:       m.City,
		State:      m.State,
		PostalCode: m.PostalCode,
		Country:    m.Country,
		Phone:      m.Phone,
		IsDefault:  m.IsDefault,
		CreatedAt:  m.CreatedAt,
	}
}

// AddressModelFromDomain creates a model from a domain Address
func AddressModelFromDomain(a *order.Address) *AddressModel {
	return &AddressModel{
		ID:         a.ID,
		UserID:     a.UserID,
		Type:       a.Type,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
		IsDefault:  a.IsDefault,
		CreatedAt:  a.CreatedAt,
	}
}

// CartOrderModel is the persistence model for order.CartOrder
type CartOrderModel struct {
	AggregateModel
	OrderID           string           `gorm:"type:varchar(20);not null;uniqueIndex"`
	InvoiceNo         string           `gorm:"type:varchar(20);not null;uniqueIndex"`
	CustomerID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status            order.Status     `gorm:"type:varchar(20);not null;index"`
	Paid              bool             `gorm:"not null;default:false"`
	PaymentMethod     string           `gorm:"type:varchar(50);not null"`
	PaymentDate       *time.Time
	Subtotal          decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Discount          decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	CouponCode        string           `gorm:"type:varchar(50)"`
	Tax               decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Shipping          decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Total             decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	ShippingAddressID *uuid.UUID       `gorm:"type:uuid"`
	Phone             string           `gorm:"type:varchar(30)"`
	Lines             []OrderLineModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (CartOrderModel) TableName() string {
	return "cart_orders"
}

// ToDomain converts the model and its loaded lines to a domain CartOrder
func (m *CartOrderModel) ToDomain() *order.CartOrder {
	o := &order.CartOrder{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OrderID:           m.OrderID,
		InvoiceNo:         m.InvoiceNo,
		CustomerID:        m.CustomerID,
		Status:            m.Status,
		Paid:              m.Paid,
		PaymentMethod:     m.PaymentMethod,
		PaymentDate:       m.PaymentDate,
		Subtotal:          m.Subtotal,
		Discount:          m.Discount,
		CouponCode:        m.CouponCode,
		Tax:               m.Tax,
		Shipping:          m.Shipping,
		Total:             m.Total,
		ShippingAddressID: m.ShippingAddressID,
		Phone:             m.Phone,
		Lines:             make([]order.OrderLine, 0, len(m.Lines)),
	}
	for i := range m.Lines {
		o.Lines = append(o.Lines, m.Lines[i].ToDomain())
	}
	return o
}

// CartOrderModelFromDomain creates a model from a domain CartOrder, including its lines
func CartOrderModelFromDomain(o *order.CartOrder) *CartOrderModel {
	m := &CartOrderModel{
		OrderID:           o.OrderID,
		InvoiceNo:         o.InvoiceNo,
		CustomerID:        o.CustomerID,
		Status:            o.Status,
		Paid:              o.Paid,
		PaymentMethod:     o.PaymentMethod,
		PaymentDate:       o.PaymentDate,
		Subtotal:          o.Subtotal,
		Discount:          o.Discount,
		CouponCode:        o.CouponCode,
		Tax:               o.Tax,
		Shipping:          o.Shipping,
		Total:             o.Total,
		ShippingAddressID: o.ShippingAddressID,
		Phone:             o.Phone,
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	for _, line := range o.Lines {
		m.Lines = append(m.Lines, *OrderLineModelFromDomain(line))
	}
	return m
}

// OrderLineModel is the persistence model for order.OrderLine
type OrderLineModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_order_lines_order_product,priority:1"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_order_lines_order_product,priority:2;index"`
	ProductTitle string          `gorm:"type:varchar(200);not null"`
	Quantity     int             `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ColorName    string          `gorm:"type:varchar(50)"`
	ColorHex     string          `gorm:"type:varchar(7)"`
	Size         string          `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the model to a domain OrderLine
func (m *OrderLineModel) ToDomain() order.OrderLine {
	return order.OrderLine{
		ID:           m.ID,
		OrderID:      m.OrderID,
		ProductID:    m.ProductID,
		ProductTitle: m.ProductTitle,
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		Variant:      cart.Variant{ColorName: m.ColorName, ColorHex: m.ColorHex, Size: m.Size},
	}
}

// OrderLineModelFromDomain creates a model from a domain OrderLine
func OrderLineModelFromDomain(l order.OrderLine) *OrderLineModel {
	return &OrderLineModel{
		ID:           l.ID,
		OrderID:      l.OrderID,
		ProductID:    l.ProductID,
		ProductTitle: l.ProductTitle,
		Quantity:     l.Quantity,
		UnitPrice:    l.UnitPrice,
		ColorName:    l.Variant.ColorName,
		ColorHex:     l.Variant.ColorHex,
		Size:         l.Variant.Size,
	}
}
