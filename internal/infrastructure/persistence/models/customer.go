package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/customer"
)

// CustomerModel is the persistence model for customer.Customer
type CustomerModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username  string    `gorm:"type:varchar(150)"`
	FullName  string    `gorm:"type:varchar(200)"`
	Email     string    `gorm:"type:varchar(254)"`
	Phone     string    `gorm:"type:varchar(30)"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain Customer
func (m *CustomerModel) ToDomain() *customer.Customer {
	return &customer.Customer{
		ID:        m.ID,
		Username:  m.Username,
		FullName:  m.FullName,
		Email:     m.Email,
		Phone:     m.Phone,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// CustomerModelFromDomain creates a model from a domain Customer
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	return &CustomerModel{
		ID:        c.ID,
		Username:  c.Username,
		FullName:  c.FullName,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// SiteSettingID is the primary key of the single site settings row
const SiteSettingID = 1

// SiteSettingModel is the single global settings record
type SiteSettingModel struct {
	ID            int             `gorm:"primaryKey;autoIncrement:false"`
	ShippingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SiteSettingModel) TableName() string {
	return "site_settings"
}
