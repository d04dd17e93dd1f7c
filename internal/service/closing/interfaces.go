package closing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Thyago-vibe/posto-mobile/internal/domain/models"
)

// ShiftDirectory provides the station's shift reference data, in its
// canonical order (ascending start time).
type ShiftDirectory interface {
	ListShifts(ctx context.Context, stationID uint) ([]models.Shift, error)
}

// OperatorDirectory provides attendant lookups. SetCurrentShift is the
// only mutation this workflow performs on operators.
type OperatorDirectory interface {
	ListOperators(ctx context.Context, stationID uint) ([]models.Operator, error)
	GetOperator(ctx context.Context, id uint) (*models.Operator, error)
	GetOperatorByUserID(ctx context.Context, userID string) (*models.Operator, error)
	SetCurrentShift(ctx context.Context, operatorID, shiftID uint) error
}

// ClientDirectory provides credit-note counterparties.
type ClientDirectory interface {
	ListClients(ctx context.Context, stationID uint) ([]models.Client, error)
	SearchClients(ctx context.Context, stationID uint, query string, limit int) ([]models.Client, error)
}

// UserDirectory resolves backend identities. Lookups return (nil, nil)
// when no matching row exists.
type UserDirectory interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	FirstUserByRole(ctx context.Context, role string) (*models.User, error)
	FirstUser(ctx context.Context) (*models.User, error)
}

// ClosingAggregate carries the recomputed parent totals.
type ClosingAggregate struct {
	TotalDeclared decimal.Decimal
	TotalReceived decimal.Decimal
	Variance      decimal.Decimal
	Notes         string
}

// ClosingStore persists parent closings. FindClosing returns (nil, nil)
// when no row matches the (date, shift, station) tuple; Create must
// surface uniqueness violations as ErrDuplicateKey.
type ClosingStore interface {
	FindClosing(ctx context.Context, date string, shiftID, stationID uint) (*models.Closing, error)
	CreateClosing(ctx context.Context, c *models.Closing) error
	UpdateClosingAggregate(ctx context.Context, closingID uint, agg ClosingAggregate) error
}

// OperatorClosingStore persists per-operator sub-records. Find returns
// (nil, nil) when the (closing, operator) pair has no row yet; Insert must
// surface uniqueness violations as ErrDuplicateKey.
type OperatorClosingStore interface {
	FindOperatorClosing(ctx context.Context, closingID, operatorID uint) (*models.OperatorClosing, error)
	InsertOperatorClosing(ctx context.Context, oc *models.OperatorClosing) error
	UpdateOperatorClosing(ctx context.Context, oc *models.OperatorClosing) error
	ListOperatorClosings(ctx context.Context, closingID uint) ([]models.OperatorClosing, error)
	ListOperatorHistory(ctx context.Context, operatorID, stationID uint, limit int) ([]HistoryEntry, error)
}

// CreditNoteStore persists credit-note lines. ReplaceLines removes the
// operator closing's previous lines and inserts the new set, keeping
// resubmission idempotent.
type CreditNoteStore interface {
	ReplaceLines(ctx context.Context, operatorClosingID uint, lines []models.CreditNoteLine) error
}

// HistoryEntry is one row of an operator's closing history.
type HistoryEntry struct {
	ID            uint            `json:"id"`
	Date          string          `json:"date"`
	ShiftName     string          `json:"shift_name"`
	TotalDeclared decimal.Decimal `json:"total_declared"`
	MeterReading  decimal.Decimal `json:"meter_reading"`
	Variance      decimal.Decimal `json:"variance"`
	Divergent     bool            `json:"divergent"`
	Notes         string          `json:"notes,omitempty"`
}
