package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Thyago-vibe/posto-mobile/internal/service/sales"
)

// SalesHandler exposes forecourt product sales over HTTP.
type SalesHandler struct {
	svc    *sales.Service
	logger *zap.Logger
}

// NewSalesHandler constructs the sales handler adapter.
func NewSalesHandler(svc *sales.Service, logger *zap.Logger) *SalesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesHandler{svc: svc, logger: logger}
}

type recordSaleRequest struct {
	OperatorID uint            `json:"operator_id" binding:"required"`
	ProductID  uint            `json:"product_id" binding:"required"`
	StationID  uint            `json:"station_id"`
	Quantity   int             `json:"quantity" binding:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// Record handles POST /sales.
func (h *SalesHandler) Record(c *gin.Context) {
	var req recordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sale, err := h.svc.RecordSale(c.Request.Context(), sales.RecordSaleInput{
		OperatorID: req.OperatorID,
		ProductID:  req.ProductID,
		StationID:  req.StationID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
	})
	if err != nil {
		if errors.Is(err, sales.ErrProductUnavailable) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "product unavailable"})
			return
		}
		h.logger.Error("failed recording sale", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record sale"})
		return
	}

	c.JSON(http.StatusCreated, sale)
}

// TodaySales handles GET /operators/:id/sales.
func (h *SalesHandler) TodaySales(c *gin.Context) {
	operatorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid operator id"})
		return
	}

	items, err := h.svc.TodaySales(c.Request.Context(), uint(operatorID))
	if err != nil {
		h.logger.Error("failed listing sales", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sales"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
