package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Thyago-vibe/posto-mobile/internal/domain/models"
	"github.com/Thyago-vibe/posto-mobile/internal/service/closing"
)

// FindClosing looks up the parent closing for (date, shift, station),
// nil when no submission has landed yet for that tuple.
func (r *Repository) FindClosing(ctx context.Context, date string, shiftID, stationID uint) (*models.Closing, error) {
	var c models.Closing
	err := r.db.WithContext(ctx).
		Where("date = ? AND shift_id = ? AND station_id = ?", date, shiftID, stationID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find closing: %w", err)
	}
	return &c, nil
}

// CreateClosing inserts the parent closing. A lost creation race comes
// back as closing.ErrDuplicateKey.
func (r *Repository) CreateClosing(ctx context.Context, c *models.Closing) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create closing: %w", translateErr(err))
	}
	return nil
}

// UpdateClosingAggregate writes the recomputed derived totals back onto
// the parent.
func (r *Repository) UpdateClosingAggregate(ctx context.Context, closingID uint, agg closing.ClosingAggregate) error {
	updates := map[string]any{
		"total_declared": agg.TotalDeclared,
		"total_received": agg.TotalReceived,
		"variance":       agg.Variance,
		"status":         models.ClosingStatusClosed,
	}
	if agg.Notes != "" {
		updates["notes"] = agg.Notes
	}
	err := r.db.WithContext(ctx).
		Model(&models.Closing{}).
		Where("id = ?", closingID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("update closing aggregate: %w", err)
	}
	return nil
}

// ListTodayClosingIDs returns the ids of closings dated the given day.
// The resync sweeper feeds these back through the aggregate recompute.
func (r *Repository) ListTodayClosingIDs(ctx context.Context, date string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Closing{}).
		Where("date = ?", date).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list closings by date: %w", err)
	}
	return ids, nil
}

// FindOperatorClosing looks up the (closing, operator) sub-record, nil
// when the operator has not submitted for this closing yet.
func (r *Repository) FindOperatorClosing(ctx context.Context, closingID, operatorID uint) (*models.OperatorClosing, error) {
	var oc models.OperatorClosing
	err := r.db.WithContext(ctx).
		Where("closing_id = ? AND operator_id = ?", closingID, operatorID).
		First(&oc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find operator closing: %w", err)
	}
	return &oc, nil
}

// InsertOperatorClosing inserts the operator's sub-record; a concurrent
// duplicate comes back as closing.ErrDuplicateKey.
func (r *Repository) InsertOperatorClosing(ctx context.Context, oc *models.OperatorClosing) error {
	if err := r.db.WithContext(ctx).Create(oc).Error; err != nil {
		return fmt.Errorf("insert operator closing: %w", translateErr(err))
	}
	return nil
}

// UpdateOperatorClosing overwrites the operator's sub-record in place.
func (r *Repository) UpdateOperatorClosing(ctx context.Context, oc *models.OperatorClosing) error {
	if err := r.db.WithContext(ctx).Save(oc).Error; err != nil {
		return fmt.Errorf("update operator closing: %w", err)
	}
	return nil
}

// ListOperatorClosings returns every sub-record under the parent closing.
func (r *Repository) ListOperatorClosings(ctx context.Context, closingID uint) ([]models.OperatorClosing, error) {
	var children []models.OperatorClosing
	err := r.db.WithContext(ctx).
		Where("closing_id = ?", closingID).
		Find(&children).Error
	if err != nil {
		return nil, fmt.Errorf("list operator closings: %w", err)
	}
	return children, nil
}

// ListOperatorHistory returns the operator's most recent closings with
// their shift names, newest first.
func (r *Repository) ListOperatorHistory(ctx context.Context, operatorID, stationID uint, limit int) ([]closing.HistoryEntry, error) {
	type historyRow struct {
		models.OperatorClosing
		Date      string
		ShiftName string
	}

	var rows []historyRow
	err := r.db.WithContext(ctx).
		Table("operator_closings").
		Select("operator_closings.*, closings.date AS date, shifts.name AS shift_name").
		Joins("JOIN closings ON closings.id = operator_closings.closing_id").
		Joins("JOIN shifts ON shifts.id = closings.shift_id").
		Where("operator_closings.operator_id = ? AND operator_closings.station_id = ?", operatorID, stationID).
		Order("operator_closings.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list operator history: %w", err)
	}

	entries := make([]closing.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, closing.HistoryEntry{
			ID:            row.ID,
			Date:          row.Date,
			ShiftName:     row.ShiftName,
			TotalDeclared: row.DeclaredTotal(),
			MeterReading:  row.MeterReading,
			Variance:      row.Variance,
			Divergent:     !row.Variance.IsZero(),
			Notes:         row.Notes,
		})
	}
	return entries, nil
}

// ReplaceLines rewrites the operator closing's credit-note lines in one
// transaction, keeping resubmission idempotent.
func (r *Repository) ReplaceLines(ctx context.Context, operatorClosingID uint, lines []models.CreditNoteLine) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("operator_closing_id = ?", operatorClosingID).
			Delete(&models.CreditNoteLine{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return fmt.Errorf("replace credit note lines: %w", err)
	}
	return nil
}
