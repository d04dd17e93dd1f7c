package models

import "time"

// Operator is a forecourt attendant. UserID links the operator to a login
// identity when one exists; CurrentShiftID is a pointer maintained by the
// closing workflow after each successful submission.
type Operator struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	StationID      uint       `gorm:"not null;index" json:"station_id"`
	Name           string     `gorm:"not null;index" json:"name"`
	CPF            string     `json:"cpf,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	HiredAt        *time.Time `json:"hired_at,omitempty"`
	Active         bool       `gorm:"not null" json:"active"`
	UserID         *string    `gorm:"index" json:"user_id,omitempty"`
	CurrentShiftID *uint      `json:"current_shift_id,omitempty"`
}
