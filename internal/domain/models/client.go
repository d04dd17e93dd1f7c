package models

// Client is a counterparty eligible for credit-note (pay-later) sales.
// A blocked client must never be accepted into a new credit-note line.
type Client struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	StationID uint   `gorm:"index" json:"station_id"`
	Name      string `gorm:"not null;index" json:"name"`
	Document  string `json:"document,omitempty"`
	Active    bool   `gorm:"not null" json:"active"`
	Blocked   bool   `gorm:"not null;default:false" json:"blocked"`
}
