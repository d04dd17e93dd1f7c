package closing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Thyago-vibe/posto-mobile/internal/domain/models"
)

// clockFormat is the "HH:MM" layout shift windows are stored in.
const clockFormat = "15:04"

// ShiftResolver determines which shift period is active at a given
// wall-clock time. It is a pure read over the shift directory.
type ShiftResolver struct {
	shifts ShiftDirectory
	logger *zap.Logger
}

// NewShiftResolver builds a resolver over the given shift directory.
func NewShiftResolver(shifts ShiftDirectory, logger *zap.Logger) *ShiftResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShiftResolver{shifts: shifts, logger: logger}
}

// CurrentShift resolves the active shift for the station at the given
// time. The fallback chain, first success wins:
//
//  1. the operator's current-shift pointer, when the caller supplies an
//     operator and the pointer resolves to one of the station's shifts
//  2. the shift whose time window contains now (first match in directory
//     order, midnight wrap handled)
//  3. the first shift in the station's list
//
// When the station has no shifts at all, a ShiftError is returned; a
// closing must never proceed without a shift.
func (r *ShiftResolver) CurrentShift(ctx context.Context, stationID uint, operator *models.Operator, now time.Time) (*models.Shift, error) {
	shifts, err := r.shifts.ListShifts(ctx, stationID)
	if err != nil {
		return nil, &ShiftError{Message: "shift not identified: " + err.Error()}
	}
	if len(shifts) == 0 {
		return nil, &ShiftError{Message: "shift not identified: station has no shifts configured"}
	}

	if operator != nil && operator.CurrentShiftID != nil {
		for i := range shifts {
			if shifts[i].ID == *operator.CurrentShiftID {
				r.logger.Debug("resolved shift from operator pointer",
					zap.Uint("operator_id", operator.ID),
					zap.Uint("shift_id", shifts[i].ID))
				return &shifts[i], nil
			}
		}
	}

	clock := now.Format(clockFormat)
	for i := range shifts {
		if shifts[i].Contains(clock) {
			return &shifts[i], nil
		}
	}

	// No window matched; fall back to the first configured shift so the
	// closing can still proceed deterministically.
	r.logger.Debug("no shift window matched, using first shift",
		zap.Uint("station_id", stationID),
		zap.String("clock", clock))
	return &shifts[0], nil
}
