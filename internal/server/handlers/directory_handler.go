package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Thyago-vibe/posto-mobile/internal/domain/models"
)

// Directory is the read-side surface the mobile client browses while
// filling out the closing form.
type Directory interface {
	ListStations(ctx context.Context) ([]models.Station, error)
	GetStation(ctx context.Context, id uint) (*models.Station, error)
	ListShifts(ctx context.Context, stationID uint) ([]models.Shift, error)
	ListOperators(ctx context.Context, stationID uint) ([]models.Operator, error)
	ListClients(ctx context.Context, stationID uint) ([]models.Client, error)
	SearchClients(ctx context.Context, stationID uint, query string, limit int) ([]models.Client, error)
	ListUpcomingDaysOff(ctx context.Context, operatorID uint, fromDate string, limit int) ([]models.ScheduleEntry, error)
}

// DirectoryHandler serves the station/shift/operator/client listings.
type DirectoryHandler struct {
	dir      Directory
	location *time.Location
	logger   *zap.Logger
}

// NewDirectoryHandler constructs the directory read handler.
func NewDirectoryHandler(dir Directory, location *time.Location, logger *zap.Logger) *DirectoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.Local
	}
	return &DirectoryHandler{dir: dir, location: location, logger: logger}
}

// Stations handles GET /stations.
func (h *DirectoryHandler) Stations(c *gin.Context) {
	stations, err := h.dir.ListStations(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing stations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": stations})
}

// Station handles GET /stations/:id.
func (h *DirectoryHandler) Station(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid station id"})
		return
	}

	station, err := h.dir.GetStation(c.Request.Context(), uint(id))
	if err != nil {
		h.logger.Error("failed loading station", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load station"})
		return
	}
	if station == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "station not found"})
		return
	}
	c.JSON(http.StatusOK, station)
}

// Shifts handles GET /shifts?station_id=.
func (h *DirectoryHandler) Shifts(c *gin.Context) {
	stationID, ok := queryUint(c, "station_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "station_id is required"})
		return
	}
	shifts, err := h.dir.ListShifts(c.Request.Context(), stationID)
	if err != nil {
		h.logger.Error("failed listing shifts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load shifts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": shifts})
}

// Operators handles GET /operators?station_id=.
func (h *DirectoryHandler) Operators(c *gin.Context) {
	stationID, ok := queryUint(c, "station_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "station_id is required"})
		return
	}
	operators, err := h.dir.ListOperators(c.Request.Context(), stationID)
	if err != nil {
		h.logger.Error("failed listing operators", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load operators"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": operators})
}

// Clients handles GET /clients?station_id=&q=. With a query it behaves as
// a name search, otherwise it lists every active client.
func (h *DirectoryHandler) Clients(c *gin.Context) {
	stationID, ok := queryUint(c, "station_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "station_id is required"})
		return
	}

	var (
		clients []models.Client
		err     error
	)
	if query := c.Query("q"); query != "" {
		clients, err = h.dir.SearchClients(c.Request.Context(), stationID, query, 20)
	} else {
		clients, err = h.dir.ListClients(c.Request.Context(), stationID)
	}
	if err != nil {
		h.logger.Error("failed listing clients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load clients"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": clients})
}

// Schedule handles GET /operators/:id/schedule: the operator's upcoming
// days off.
func (h *DirectoryHandler) Schedule(c *gin.Context) {
	operatorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid operator id"})
		return
	}

	today := time.Now().In(h.location).Format("2006-01-02")
	entries, err := h.dir.ListUpcomingDaysOff(c.Request.Context(), uint(operatorID), today, 5)
	if err != nil {
		h.logger.Error("failed listing schedule", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load schedule"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}
