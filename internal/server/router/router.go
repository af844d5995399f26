package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/vendsim/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.VendingHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/status", handler.Status)
	r.POST("/simulate/day", handler.SimulateDay)

	r.GET("/inventory", handler.Inventory)
	r.POST("/inventory/order", handler.PlaceOrder)
	r.POST("/inventory/restock", handler.ApplyRestock)

	r.GET("/prices", handler.Prices)
	r.POST("/prices", handler.SetPrices)

	r.GET("/sales/today", handler.SalesToday)
	r.GET("/sales/history", handler.SalesHistory)

	r.GET("/financials/daily", handler.FinancialsDaily)
	r.GET("/financials/summary", handler.FinancialsSummary)
	r.GET("/financials/cogs", handler.FinancialsCOGS)

	r.POST("/config", handler.UpdateConfig)
	r.POST("/reset", handler.Reset)

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
