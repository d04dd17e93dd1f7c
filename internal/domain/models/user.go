package models

// Role values for backend users.
const (
	RoleAdmin = "ADMIN"
	RoleOwner = "OWNER"
	RoleStaff = "STAFF"
)

// User is a backend identity. Every Closing row carries a user reference
// per the persistence layer's foreign-key contract, even when the
// submission comes from a shared device without a login.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Role      string `gorm:"not null;default:'STAFF'" json:"role"`
	StationID *uint  `json:"station_id,omitempty"`
}
