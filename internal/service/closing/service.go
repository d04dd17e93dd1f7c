package closing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Thyago-vibe/posto-mobile/internal/domain/models"
)

// dateFormat is the calendar-day layout closings are keyed by.
const dateFormat = "2006-01-02"

// Policy holds the workflow knobs that vary between deployments.
type Policy struct {
	// RequireNotesOnShortage rejects a shortage with blank notes.
	RequireNotesOnShortage bool
	// Location is the station's local timezone, used when the submission
	// does not carry an explicit date and to resolve the current shift.
	Location *time.Location
}

// Stores bundles every backend collaborator the orchestrator needs. It is
// passed in explicitly once instead of being re-derived at each step.
type Stores struct {
	Shifts           ShiftDirectory
	Operators        OperatorDirectory
	Clients          ClientDirectory
	Users            UserDirectory
	Closings         ClosingStore
	OperatorClosings OperatorClosingStore
	CreditNotes      CreditNoteStore
}

// Service orchestrates shift-closing submissions.
type Service struct {
	stores   Stores
	resolver *ShiftResolver
	policy   Policy
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the submission orchestrator.
func NewService(stores Stores, policy Policy, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.Location == nil {
		policy.Location = time.Local
	}
	return &Service{
		stores:   stores,
		resolver: NewShiftResolver(stores.Shifts, logger.Named("resolver")),
		policy:   policy,
		logger:   logger,
		now:      time.Now,
	}
}

// SubmitInput is the closing form as sent by the mobile client.
type SubmitInput struct {
	Date         string            `json:"date"`
	ShiftID      uint              `json:"shift_id"`
	StationID    uint              `json:"station_id"`
	OperatorID   uint              `json:"operator_id"`
	Amounts      Amounts           `json:"amounts"`
	MeterReading decimal.Decimal   `json:"meter_reading"`
	Notes        string            `json:"notes"`
	CreditNotes  []CreditNoteEntry `json:"credit_notes"`
}

// SubmitResult reports a completed submission back to the caller.
type SubmitResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ClosingID uint   `json:"closing_id,omitempty"`
	Updated   bool   `json:"updated"`
}

// Submit runs one closing submission end to end: validation, identity and
// shift resolution, parent find-or-create, idempotent child upsert,
// credit-note line rewrite, parent aggregate recompute and the best-effort
// operator pointer update. Failures in the last two steps are logged but
// do not revoke the submission: the operator's own numbers are already
// durable by then.
func (s *Service) Submit(ctx context.Context, input SubmitInput, session SessionIdentity) (*SubmitResult, error) {
	recon := Reconcile(input.Amounts, input.CreditNotes, input.MeterReading)

	if err := s.validate(ctx, input, recon); err != nil {
		return nil, err
	}

	identity, err := session.Resolve(ctx)
	if err != nil {
		return nil, &IdentityError{Message: "identity resolution failed: " + err.Error()}
	}

	operator, err := s.resolveOperator(ctx, input, identity)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	stationID := operator.StationID
	if stationID == 0 {
		stationID = input.StationID
	}

	shift, err := s.resolveShift(ctx, input, stationID, operator)
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date == "" {
		date = s.now().In(s.policy.Location).Format(dateFormat)
	}

	parent, err := s.findOrCreateClosing(ctx, date, shift.ID, stationID, user.ID, recon, input.Notes)
	if err != nil {
		return nil, err
	}

	child, updated, err := s.upsertOperatorClosing(ctx, parent.ID, operator.ID, stationID, input, recon)
	if err != nil {
		return nil, err
	}

	// From here on the operator's numbers are durable; remaining failures
	// are reported in logs only.
	s.persistLines(ctx, child, operator, stationID, date, input.CreditNotes)
	s.recomputeAggregate(ctx, parent.ID, input.Notes)

	if err := s.stores.Operators.SetCurrentShift(ctx, operator.ID, shift.ID); err != nil {
		s.logger.Warn("failed updating operator current shift",
			zap.Uint("operator_id", operator.ID),
			zap.Uint("shift_id", shift.ID),
			zap.Error(err))
	}

	message := "closing submitted"
	if updated {
		message = "closing updated"
	}

	s.logger.Info("closing submission completed",
		zap.Uint("closing_id", parent.ID),
		zap.Uint("operator_id", operator.ID),
		zap.String("date", date),
		zap.String("result", string(recon.Result)),
		zap.Bool("updated", updated))

	return &SubmitResult{Success: true, Message: message, ClosingID: parent.ID, Updated: updated}, nil
}

// CurrentShift exposes the shift resolver for the station at "now".
func (s *Service) CurrentShift(ctx context.Context, stationID uint) (*models.Shift, error) {
	return s.resolver.CurrentShift(ctx, stationID, nil, s.now().In(s.policy.Location))
}

// OperatorHistory lists the operator's most recent closings.
func (s *Service) OperatorHistory(ctx context.Context, operatorID, stationID uint, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.stores.OperatorClosings.ListOperatorHistory(ctx, operatorID, stationID, limit)
}

// RecomputeAggregate re-derives a parent closing's totals from its
// children. It is idempotent and safe to run redundantly, which is what
// the resync sweeper relies on.
func (s *Service) RecomputeAggregate(ctx context.Context, closingID uint) error {
	children, err := s.stores.OperatorClosings.ListOperatorClosings(ctx, closingID)
	if err != nil {
		return &PersistenceError{Stage: "aggregate recompute", Err: err}
	}
	if err := s.stores.Closings.UpdateClosingAggregate(ctx, closingID, aggregateOf(children, "")); err != nil {
		return &PersistenceError{Stage: "aggregate recompute", Err: err}
	}
	return nil
}

// aggregateOf sums the children into the parent's derived totals. The
// parent's declared side is the sum of meter readings, the received side
// the sum of what the operators counted.
func aggregateOf(children []models.OperatorClosing, notes string) ClosingAggregate {
	agg := ClosingAggregate{
		TotalDeclared: decimal.Zero,
		TotalReceived: decimal.Zero,
		Notes:         notes,
	}
	for _, child := range children {
		agg.TotalDeclared = agg.TotalDeclared.Add(child.MeterReading)
		agg.TotalReceived = agg.TotalReceived.Add(child.DeclaredTotal())
	}
	agg.Variance = agg.TotalDeclared.Sub(agg.TotalReceived)
	return agg
}

func (s *Service) validate(ctx context.Context, input SubmitInput, recon Reconciliation) error {
	if !input.MeterReading.IsPositive() {
		return validationf("missing meter reading")
	}
	if !recon.TotalDeclared.IsPositive() {
		return validationf("no payment values entered")
	}
	if s.policy.RequireNotesOnShortage && recon.Result == Shortage && strings.TrimSpace(input.Notes) == "" {
		return validationf("explanation required for a cash shortage")
	}
	for _, entry := range input.CreditNotes {
		if !entry.Amount.IsPositive() {
			return validationf("credit note amount must be positive")
		}
	}

	// Blocked clients were already refused at entry time; check again in
	// case the block landed between drafting and submitting.
	if len(input.CreditNotes) > 0 {
		clients, err := s.stores.Clients.ListClients(ctx, input.StationID)
		if err != nil {
			return &PersistenceError{Stage: "validation", Err: err}
		}
		byID := make(map[uint]models.Client, len(clients))
		for _, c := range clients {
			byID[c.ID] = c
		}
		for _, entry := range input.CreditNotes {
			client, ok := byID[entry.ClientID]
			if !ok {
				return validationf("credit note client %d not found", entry.ClientID)
			}
			if err := ValidateCreditNoteClient(client); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) resolveOperator(ctx context.Context, input SubmitInput, identity *Identity) (*models.Operator, error) {
	if input.OperatorID != 0 {
		operator, err := s.stores.Operators.GetOperator(ctx, input.OperatorID)
		if err != nil {
			return nil, &PersistenceError{Stage: "identity resolution", Err: err}
		}
		if operator == nil {
			return nil, &IdentityError{Message: "selected operator not found"}
		}
		return operator, nil
	}

	if identity != nil && identity.UserID != "" {
		operator, err := s.stores.Operators.GetOperatorByUserID(ctx, identity.UserID)
		if err != nil {
			return nil, &PersistenceError{Stage: "identity resolution", Err: err}
		}
		if operator != nil {
			return operator, nil
		}
	}

	return nil, &IdentityError{Message: "operator not identified; select an operator and retry"}
}

// resolveUser finds the backend identity the closing row must reference.
// With a login, the user behind its email wins; without one, the first
// administrator on record is used, then any user at all. Having none is a
// configuration error, not something to retry.
func (s *Service) resolveUser(ctx context.Context, identity *Identity) (*models.User, error) {
	if identity != nil && identity.Email != "" {
		user, err := s.stores.Users.GetUserByEmail(ctx, identity.Email)
		if err != nil {
			return nil, &PersistenceError{Stage: "identity resolution", Err: err}
		}
		if user != nil {
			return user, nil
		}
	}

	user, err := s.stores.Users.FirstUserByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, &PersistenceError{Stage: "identity resolution", Err: err}
	}
	if user == nil {
		user, err = s.stores.Users.FirstUser(ctx)
		if err != nil {
			return nil, &PersistenceError{Stage: "identity resolution", Err: err}
		}
	}
	if user == nil {
		s.logger.Error("no backend user available to own the closing")
		return nil, &IdentityError{Message: "no backend user configured; contact the administrator"}
	}
	return user, nil
}

func (s *Service) resolveShift(ctx context.Context, input SubmitInput, stationID uint, operator *models.Operator) (*models.Shift, error) {
	if input.ShiftID != 0 {
		shifts, err := s.stores.Shifts.ListShifts(ctx, stationID)
		if err != nil {
			return nil, &ShiftError{Message: "shift not identified: " + err.Error()}
		}
		for i := range shifts {
			if shifts[i].ID == input.ShiftID {
				return &shifts[i], nil
			}
		}
		return nil, &ShiftError{Message: "shift not identified: unknown shift for this station"}
	}

	now := s.now().In(s.policy.Location)
	shift, err := s.resolver.CurrentShift(ctx, stationID, operator, now)
	if err == nil {
		return shift, nil
	}
	// One silent retry: shift reference data loads asynchronously and may
	// have been momentarily empty.
	shift, retryErr := s.resolver.CurrentShift(ctx, stationID, operator, now)
	if retryErr != nil {
		s.logger.Warn("shift resolution failed after retry",
			zap.Uint("station_id", stationID),
			zap.Error(err))
		return nil, retryErr
	}
	return shift, nil
}

func (s *Service) findOrCreateClosing(ctx context.Context, date string, shiftID, stationID, userID uint, recon Reconciliation, notes string) (*models.Closing, error) {
	existing, err := s.stores.Closings.FindClosing(ctx, date, shiftID, stationID)
	if err != nil {
		return nil, &PersistenceError{Stage: "parent find-or-create", Err: err}
	}
	if existing != nil {
		return existing, nil
	}

	created := &models.Closing{
		Date:          date,
		ShiftID:       shiftID,
		StationID:     stationID,
		UserID:        userID,
		Status:        models.ClosingStatusClosed,
		TotalDeclared: recon.TotalDeclared,
		TotalReceived: recon.TotalDeclared,
		Variance:      decimal.Zero,
		Notes:         notes,
	}
	err = s.stores.Closings.CreateClosing(ctx, created)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, ErrDuplicateKey) {
		return nil, &PersistenceError{Stage: "parent find-or-create", Err: err}
	}

	// Another operator won the creation race; the unique constraint on
	// (date, shift, station) is the authority, so re-read.
	existing, rereadErr := s.stores.Closings.FindClosing(ctx, date, shiftID, stationID)
	if rereadErr != nil {
		return nil, &PersistenceError{Stage: "parent find-or-create", Err: rereadErr}
	}
	if existing == nil {
		return nil, &PersistenceError{Stage: "parent find-or-create", Err: err}
	}
	return existing, nil
}

func (s *Service) upsertOperatorClosing(ctx context.Context, closingID, operatorID, stationID uint, input SubmitInput, recon Reconciliation) (*models.OperatorClosing, bool, error) {
	existing, err := s.stores.OperatorClosings.FindOperatorClosing(ctx, closingID, operatorID)
	if err != nil {
		return nil, false, &PersistenceError{Stage: "child upsert", Err: err}
	}

	if existing != nil {
		s.fillOperatorClosing(existing, input, recon)
		if err := s.stores.OperatorClosings.UpdateOperatorClosing(ctx, existing); err != nil {
			return nil, false, &PersistenceError{Stage: "child upsert", Err: err}
		}
		return existing, true, nil
	}

	created := &models.OperatorClosing{
		ClosingID:  closingID,
		OperatorID: operatorID,
		StationID:  stationID,
	}
	s.fillOperatorClosing(created, input, recon)
	err = s.stores.OperatorClosings.InsertOperatorClosing(ctx, created)
	if err == nil {
		return created, false, nil
	}
	if !errors.Is(err, ErrDuplicateKey) {
		return nil, false, &PersistenceError{Stage: "child upsert", Err: err}
	}

	// A concurrent submission by the same operator slipped in between the
	// read and the insert; fall back to overwriting that row.
	existing, rereadErr := s.stores.OperatorClosings.FindOperatorClosing(ctx, closingID, operatorID)
	if rereadErr != nil || existing == nil {
		return nil, false, &PersistenceError{Stage: "child upsert", Err: err}
	}
	s.fillOperatorClosing(existing, input, recon)
	if err := s.stores.OperatorClosings.UpdateOperatorClosing(ctx, existing); err != nil {
		return nil, false, &PersistenceError{Stage: "child upsert", Err: err}
	}
	return existing, true, nil
}

func (s *Service) fillOperatorClosing(oc *models.OperatorClosing, input SubmitInput, recon Reconciliation) {
	oc.CardTotal = recon.CardTotal
	oc.DebitCard = input.Amounts.DebitCard
	oc.CreditCard = input.Amounts.CreditCard
	oc.CreditNotes = recon.NoteTotal
	oc.Pix = input.Amounts.Pix
	oc.Cash = input.Amounts.Cash
	oc.Coins = input.Amounts.Coins
	oc.Voucher = input.Amounts.Voucher
	oc.Conferred = recon.TotalDeclared
	oc.MeterReading = input.MeterReading
	oc.Variance = recon.Variance
	oc.Notes = input.Notes
}

func (s *Service) persistLines(ctx context.Context, child *models.OperatorClosing, operator *models.Operator, stationID uint, date string, entries []CreditNoteEntry) {
	lines := make([]models.CreditNoteLine, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, models.CreditNoteLine{
			OperatorClosingID: child.ID,
			OperatorID:        operator.ID,
			ClientID:          entry.ClientID,
			StationID:         stationID,
			Amount:            entry.Amount,
			Status:            models.CreditNoteStatusPending,
			Date:              date,
		})
	}
	if err := s.stores.CreditNotes.ReplaceLines(ctx, child.ID, lines); err != nil {
		s.logger.Error("failed persisting credit note lines",
			zap.Uint("operator_closing_id", child.ID),
			zap.Int("lines", len(lines)),
			zap.Error(err))
	}
}

func (s *Service) recomputeAggregate(ctx context.Context, closingID uint, notes string) {
	children, err := s.stores.OperatorClosings.ListOperatorClosings(ctx, closingID)
	if err != nil {
		s.logger.Error("failed reading children for aggregate recompute",
			zap.Uint("closing_id", closingID),
			zap.Error(err))
		return
	}

	if err := s.stores.Closings.UpdateClosingAggregate(ctx, closingID, aggregateOf(children, notes)); err != nil {
		s.logger.Error("failed writing closing aggregate",
			zap.Uint("closing_id", closingID),
			zap.Error(err))
	}
}
