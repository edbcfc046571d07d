package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is a purchasable dish. Items are compiled in and never mutated.
type MenuItem struct {
	ID         int             `json:"id"`
	Category   Category        `json:"category"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Weight     string          `json:"weight"`
	Image      string          `json:"image"`
	IsFeatured bool            `json:"isFeatured"`
	IsSpicy    bool            `json:"isSpicy"`
}

// LineItem is a menu item paired with the quantity requested in the cart.
type LineItem struct {
	MenuItem
	Quantity int `json:"quantity"`
}

// Subtotal returns price × quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CustomerInfo holds the checkout form. Phone is kept as typed.
type CustomerInfo struct {
	Name    string        `json:"name"`
	Phone   string        `json:"phone"`
	Address string        `json:"address"`
	Payment PaymentMethod `json:"payment"`
}

// DefaultCustomer returns the empty checkout form.
func DefaultCustomer() CustomerInfo {
	return CustomerInfo{Payment: PaymentDigitalWallet}
}

// StorageEntry is one named value of the key/value snapshot table.
type StorageEntry struct {
	Key       string    `gorm:"primaryKey;column:key" json:"key"`
	Value     string    `gorm:"type:text;not null;column:value" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updatedAt" json:"updatedAt"`
}

// TableName specifies the table name for StorageEntry model
func (StorageEntry) TableName() string {
	return "StorageEntry"
}
