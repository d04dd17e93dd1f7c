package models

// Shift is a named recurring time window scoped to a station. Start and
// end are "HH:MM" strings; a window with start > end wraps past midnight.
// Shifts are immutable reference data for this service.
type Shift struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	StationID uint   `gorm:"not null;index" json:"station_id"`
	Name      string `gorm:"not null" json:"name"`
	StartTime string `gorm:"not null" json:"start_time"`
	EndTime   string `gorm:"not null" json:"end_time"`
}

// Contains reports whether the wall-clock time now ("HH:MM") falls inside
// the shift window, handling windows that cross midnight.
func (s Shift) Contains(now string) bool {
	if s.StartTime > s.EndTime {
		return now >= s.StartTime || now < s.EndTime
	}
	return now >= s.StartTime && now < s.EndTime
}
