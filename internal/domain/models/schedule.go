package models

// Schedule entry types.
const (
	ScheduleDayOff = "DAY_OFF"
	ScheduleWork   = "WORK"
)

// ScheduleEntry is one day of an operator's roster. Read-only for this
// service; the back office maintains the roster.
type ScheduleEntry struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	OperatorID uint   `gorm:"not null;index" json:"operator_id"`
	Date       string `gorm:"not null;index" json:"date"`
	Type       string `gorm:"not null" json:"type"`
	ShiftID    *uint  `json:"shift_id,omitempty"`
	Note       string `json:"note,omitempty"`
}
