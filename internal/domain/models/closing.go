package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Closing statuses.
const (
	ClosingStatusClosed = "CLOSED"
)

// CreditNoteLine statuses.
const (
	CreditNoteStatusPending = "pending"
)

// Closing is the parent record of a shift closing: at most one row per
// (date, shift, station), enforced by the composite unique index. Its
// totals are a pure aggregate derived from the operator sub-records.
type Closing struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Date          string          `gorm:"not null;uniqueIndex:idx_closing_tuple" json:"date"`
	ShiftID       uint            `gorm:"not null;uniqueIndex:idx_closing_tuple" json:"shift_id"`
	StationID     uint            `gorm:"not null;uniqueIndex:idx_closing_tuple" json:"station_id"`
	UserID        uint            `gorm:"not null" json:"user_id"`
	Status        string          `gorm:"not null" json:"status"`
	TotalDeclared decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_declared"`
	TotalReceived decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_received"`
	Variance      decimal.Decimal `gorm:"type:decimal(12,2)" json:"variance"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OperatorClosing is one operator's reconciliation inside a Closing: at
// most one row per (closing, operator). A resubmission by the same
// operator overwrites this row, never inserts a second one.
type OperatorClosing struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ClosingID    uint            `gorm:"not null;uniqueIndex:idx_operator_closing_pair" json:"closing_id"`
	OperatorID   uint            `gorm:"not null;uniqueIndex:idx_operator_closing_pair" json:"operator_id"`
	StationID    uint            `gorm:"index" json:"station_id"`
	CardTotal    decimal.Decimal `gorm:"type:decimal(12,2)" json:"card_total"`
	DebitCard    decimal.Decimal `gorm:"type:decimal(12,2)" json:"debit_card"`
	CreditCard   decimal.Decimal `gorm:"type:decimal(12,2)" json:"credit_card"`
	CreditNotes  decimal.Decimal `gorm:"type:decimal(12,2)" json:"credit_notes"`
	Pix          decimal.Decimal `gorm:"type:decimal(12,2)" json:"pix"`
	Cash         decimal.Decimal `gorm:"type:decimal(12,2)" json:"cash"`
	Coins        decimal.Decimal `gorm:"type:decimal(12,2)" json:"coins"`
	Voucher      decimal.Decimal `gorm:"type:decimal(12,2)" json:"voucher"`
	Conferred    decimal.Decimal `gorm:"type:decimal(12,2)" json:"conferred"`
	MeterReading decimal.Decimal `gorm:"type:decimal(12,2)" json:"meter_reading"`
	Variance     decimal.Decimal `gorm:"type:decimal(12,2)" json:"variance"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// DeclaredTotal is the sum of the operator's payment-method amounts. The
// parent aggregate recompute sums this value across all sub-records.
func (oc OperatorClosing) DeclaredTotal() decimal.Decimal {
	return oc.DebitCard.
		Add(oc.CreditCard).
		Add(oc.CreditNotes).
		Add(oc.Pix).
		Add(oc.Cash).
		Add(oc.Coins).
		Add(oc.Voucher)
}

// CreditNoteLine is a single pay-later sale recorded against a client as
// part of an operator's closing. Lines are rewritten in bulk whenever the
// owning OperatorClosing is resubmitted; they are never edited one by one.
type CreditNoteLine struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	OperatorClosingID uint            `gorm:"not null;index" json:"operator_closing_id"`
	OperatorID        uint            `gorm:"not null;index" json:"operator_id"`
	ClientID          uint            `gorm:"not null;index" json:"client_id"`
	StationID         uint            `json:"station_id"`
	Amount            decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Status            string          `gorm:"not null;default:'pending'" json:"status"`
	Date              string          `gorm:"not null" json:"date"`
	CreatedAt         time.Time       `json:"created_at"`
}
