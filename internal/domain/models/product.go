package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock movement types.
const (
	StockMovementOut = "OUT"
	StockMovementIn  = "IN"
)

// Product is a convenience-store item sold at the forecourt.
type Product struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	StationID uint            `gorm:"index" json:"station_id"`
	Name      string          `gorm:"not null;index" json:"name"`
	Category  string          `json:"category,omitempty"`
	SalePrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"sale_price"`
	Stock     int             `gorm:"not null;default:0" json:"stock"`
	Active    bool            `gorm:"not null" json:"active"`
}

// ProductSale records a sale made by an operator. Once the operator's
// closing is submitted the sale may be linked to it for reporting.
type ProductSale struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	StationID         uint            `gorm:"index" json:"station_id"`
	OperatorID        uint            `gorm:"not null;index" json:"operator_id"`
	ProductID         uint            `gorm:"not null;index" json:"product_id"`
	Quantity          int             `gorm:"not null" json:"quantity"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_price"`
	Total             decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`
	OperatorClosingID *uint           `gorm:"index" json:"operator_closing_id,omitempty"`
	SoldAt            time.Time       `gorm:"not null;index" json:"sold_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// StockMovement is an immutable ledger entry for product stock changes.
type StockMovement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	Type        string    `gorm:"not null" json:"type"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Note        string    `json:"note,omitempty"`
	Responsible string    `json:"responsible,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
