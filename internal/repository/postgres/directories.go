package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Thyago-vibe/posto-mobile/internal/domain/models"
)

// ListStations returns all active stations, by name.
func (r *Repository) ListStations(ctx context.Context) ([]models.Station, error) {
	var stations []models.Station
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name").
		Find(&stations).Error
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	return stations, nil
}

// GetStation fetches one station, nil when absent.
func (r *Repository) GetStation(ctx context.Context, id uint) (*models.Station, error) {
	var station models.Station
	err := r.db.WithContext(ctx).First(&station, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get station: %w", err)
	}
	return &station, nil
}

// ListShifts returns the station's shifts in canonical order, ascending
// by start time. The resolver's first-match semantics depend on this
// ordering being stable.
func (r *Repository) ListShifts(ctx context.Context, stationID uint) ([]models.Shift, error) {
	var shifts []models.Shift
	err := r.db.WithContext(ctx).
		Where("station_id = ?", stationID).
		Order("start_time").
		Find(&shifts).Error
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	return shifts, nil
}

// ListOperators returns the station's active operators, by name.
func (r *Repository) ListOperators(ctx context.Context, stationID uint) ([]models.Operator, error) {
	var operators []models.Operator
	err := r.db.WithContext(ctx).
		Where("station_id = ? AND active = ?", stationID, true).
		Order("name").
		Find(&operators).Error
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	return operators, nil
}

// GetOperator fetches one operator, nil when absent.
func (r *Repository) GetOperator(ctx context.Context, id uint) (*models.Operator, error) {
	var operator models.Operator
	err := r.db.WithContext(ctx).First(&operator, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get operator: %w", err)
	}
	return &operator, nil
}

// GetOperatorByUserID finds the active operator linked to a login
// identity, nil when none is.
func (r *Repository) GetOperatorByUserID(ctx context.Context, userID string) (*models.Operator, error) {
	var operator models.Operator
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		First(&operator).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get operator by user: %w", err)
	}
	return &operator, nil
}

// SetCurrentShift moves the operator's current-shift pointer.
func (r *Repository) SetCurrentShift(ctx context.Context, operatorID, shiftID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Operator{}).
		Where("id = ?", operatorID).
		Update("current_shift_id", shiftID).Error
	if err != nil {
		return fmt.Errorf("set current shift: %w", err)
	}
	return nil
}

// ListClients returns the station's active clients, by name.
func (r *Repository) ListClients(ctx context.Context, stationID uint) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.WithContext(ctx).
		Where("station_id = ? AND active = ?", stationID, true).
		Order("name").
		Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// SearchClients finds active clients whose name contains the query,
// case-insensitively.
func (r *Repository) SearchClients(ctx context.Context, stationID uint, query string, limit int) ([]models.Client, error) {
	if limit <= 0 {
		limit = 20
	}
	var clients []models.Client
	err := r.db.WithContext(ctx).
		Where("station_id = ? AND active = ? AND LOWER(name) LIKE LOWER(?)", stationID, true, "%"+query+"%").
		Order("name").
		Limit(limit).
		Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	return clients, nil
}

// GetUserByEmail finds a backend user by email, nil when absent.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

// FirstUserByRole returns the lowest-id user holding the role, nil when
// none does.
func (r *Repository) FirstUserByRole(ctx context.Context, role string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("id").
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("first user by role: %w", err)
	}
	return &user, nil
}

// FirstUser returns the lowest-id user on record, nil when the table is
// empty.
func (r *Repository) FirstUser(ctx context.Context) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Order("id").First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("first user: %w", err)
	}
	return &user, nil
}

// ListUpcomingDaysOff returns the operator's next scheduled days off from
// the given date onwards.
func (r *Repository) ListUpcomingDaysOff(ctx context.Context, operatorID uint, fromDate string, limit int) ([]models.ScheduleEntry, error) {
	if limit <= 0 {
		limit = 5
	}
	var entries []models.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("operator_id = ? AND type = ? AND date >= ?", operatorID, models.ScheduleDayOff, fromDate).
		Order("date").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list days off: %w", err)
	}
	return entries, nil
}
