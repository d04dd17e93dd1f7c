package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Thyago-vibe/posto-mobile/internal/service/closing"
	"github.com/Thyago-vibe/posto-mobile/pkg/money"
)

// ClosingHandler exposes the shift-closing workflow over HTTP.
type ClosingHandler struct {
	svc    *closing.Service
	auth   closing.IdentityProvider
	logger *zap.Logger
}

// NewClosingHandler constructs the HTTP handler adapter. auth may be nil
// when no hosted auth provider is configured; every caller is then
// anonymous.
func NewClosingHandler(svc *closing.Service, auth closing.IdentityProvider, logger *zap.Logger) *ClosingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClosingHandler{svc: svc, auth: auth, logger: logger}
}

// creditNoteRequest is one drafted pay-later line; the amount arrives as
// the locale-formatted text the attendant typed.
type creditNoteRequest struct {
	ClientID uint   `json:"client_id" binding:"required"`
	Amount   string `json:"amount"`
}

// submitRequest is the closing form as posted by the mobile client.
type submitRequest struct {
	Date         string              `json:"date"`
	ShiftID      uint                `json:"shift_id"`
	StationID    uint                `json:"station_id" binding:"required"`
	OperatorID   uint                `json:"operator_id"`
	DebitCard    string              `json:"debit_card"`
	CreditCard   string              `json:"credit_card"`
	Pix          string              `json:"pix"`
	Cash         string              `json:"cash"`
	Coins        string              `json:"coins"`
	Voucher      string              `json:"voucher"`
	MeterReading string              `json:"meter_reading"`
	Notes        string              `json:"notes"`
	CreditNotes  []creditNoteRequest `json:"credit_notes"`
}

func (r submitRequest) toInput() closing.SubmitInput {
	notes := make([]closing.CreditNoteEntry, 0, len(r.CreditNotes))
	for _, n := range r.CreditNotes {
		notes = append(notes, closing.CreditNoteEntry{
			ClientID: n.ClientID,
			Amount:   money.Parse(n.Amount),
		})
	}
	return closing.SubmitInput{
		Date:       r.Date,
		ShiftID:    r.ShiftID,
		StationID:  r.StationID,
		OperatorID: r.OperatorID,
		Amounts: closing.Amounts{
			DebitCard:  money.Parse(r.DebitCard),
			CreditCard: money.Parse(r.CreditCard),
			Pix:        money.Parse(r.Pix),
			Cash:       money.Parse(r.Cash),
			Coins:      money.Parse(r.Coins),
			Voucher:    money.Parse(r.Voucher),
		},
		MeterReading: money.Parse(r.MeterReading),
		Notes:        r.Notes,
		CreditNotes:  notes,
	}
}

// Submit handles POST /closings.
func (h *ClosingHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid closing payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), req.toInput(), h.session(c))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Preview handles POST /closings/preview: the live reconciliation the
// form shows while the attendant types, without touching the backend.
func (h *ClosingHandler) Preview(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	input := req.toInput()
	c.JSON(http.StatusOK, closing.Reconcile(input.Amounts, input.CreditNotes, input.MeterReading))
}

// CurrentShift handles GET /shifts/current?station_id=.
func (h *ClosingHandler) CurrentShift(c *gin.Context) {
	stationID, ok := queryUint(c, "station_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "station_id is required"})
		return
	}

	shift, err := h.svc.CurrentShift(c.Request.Context(), stationID)
	if err != nil {
		h.logger.Warn("current shift resolution failed",
			zap.Uint("station_id", stationID),
			zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "no shift could be resolved for this station"})
		return
	}

	c.JSON(http.StatusOK, shift)
}

// History handles GET /operators/:id/closings?station_id=&limit=.
func (h *ClosingHandler) History(c *gin.Context) {
	operatorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid operator id"})
		return
	}
	stationID, ok := queryUint(c, "station_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "station_id is required"})
		return
	}
	limit := 10
	if v := c.Query("limit"); v != "" {
		if n, convErr := strconv.Atoi(v); convErr == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := h.svc.OperatorHistory(c.Request.Context(), uint(operatorID), stationID, limit)
	if err != nil {
		h.logger.Error("failed listing operator history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": entries})
}

// session picks the identity strategy for this request: authenticated
// when a bearer token is present and an auth provider is configured,
// anonymous otherwise.
func (h *ClosingHandler) session(c *gin.Context) closing.SessionIdentity {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" || h.auth == nil {
		return closing.AnonymousSession{}
	}
	return closing.AuthenticatedSession{Provider: h.auth, Token: token}
}

func (h *ClosingHandler) renderError(c *gin.Context, err error) {
	var validationErr *closing.ValidationError
	var identityErr *closing.IdentityError
	var shiftErr *closing.ShiftError
	var persistenceErr *closing.PersistenceError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validationErr.Message})
	case errors.As(err, &identityErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": identityErr.Message})
	case errors.As(err, &shiftErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": shiftErr.Message})
	case errors.As(err, &persistenceErr):
		h.logger.Error("closing submission persistence failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": err.Error(), "retryable": true})
	default:
		h.logger.Error("closing submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to submit closing"})
	}
}

func queryUint(c *gin.Context, key string) (uint, bool) {
	v := c.Query(key)
	if v == "" {
		return 0, false
	}
	parsed, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(parsed), true
}
