package models

// Station represents a physical gas station. It owns shifts, operators,
// clients and closings.
type Station struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"not null;index" json:"name"`
	CNPJ    string `json:"cnpj,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Active  bool   `gorm:"not null" json:"active"`
}
