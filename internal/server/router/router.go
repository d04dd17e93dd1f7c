package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Thyago-vibe/posto-mobile/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(closingHandler *handlers.ClosingHandler, directoryHandler *handlers.DirectoryHandler, salesHandler *handlers.SalesHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/closings", closingHandler.Submit)
	r.POST("/closings/preview", closingHandler.Preview)

	r.GET("/stations", directoryHandler.Stations)
	r.GET("/stations/:id", directoryHandler.Station)
	r.GET("/shifts", directoryHandler.Shifts)
	r.GET("/shifts/current", closingHandler.CurrentShift)
	r.GET("/operators", directoryHandler.Operators)
	r.GET("/operators/:id/closings", closingHandler.History)
	r.GET("/operators/:id/schedule", directoryHandler.Schedule)
	r.GET("/operators/:id/sales", salesHandler.TodaySales)
	r.GET("/clients", directoryHandler.Clients)

	r.POST("/sales", salesHandler.Record)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
