package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/vendsim/internal/domain/models"
	"github.com/mamadbah2/vendsim/internal/scheduler"
	financialsvc "github.com/mamadbah2/vendsim/internal/service/financials"
	inventorysvc "github.com/mamadbah2/vendsim/internal/service/inventory"
	simulationsvc "github.com/mamadbah2/vendsim/internal/service/simulation"
)

// VendingHandler adapts the simulation engine to HTTP. It holds no state of
// its own; every request goes straight to the services.
type VendingHandler struct {
	simSvc       *simulationsvc.Service
	inventorySvc *inventorysvc.Service
	financialSvc *financialsvc.Service
	sched        *scheduler.Scheduler
	logger       *zap.Logger
}

// NewVendingHandler constructs the HTTP handler adapter.
func NewVendingHandler(
	simSvc *simulationsvc.Service,
	inventorySvc *inventorysvc.Service,
	financialSvc *financialsvc.Service,
	sched *scheduler.Scheduler,
	logger *zap.Logger,
) *VendingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VendingHandler{
		simSvc:       simSvc,
		inventorySvc: inventorySvc,
		financialSvc: financialSvc,
		sched:        sched,
		logger:       logger,
	}
}

// Status reports the scheduler state and the simulated clock.
func (h *VendingHandler) Status(c *gin.Context) {
	cfg, err := h.simSvc.CurrentConfig()
	if err != nil {
		h.fail(c, err)
		return
	}
	status := h.sched.Status()
	c.JSON(http.StatusOK, gin.H{
		"simulation":        cfg.Simulation,
		"tick_seconds":      cfg.TickSeconds,
		"scheduler_running": status.Running,
		"next_run_time":     status.NextRunTime,
	})
}

// SimulateDay forces one day advance now.
func (h *VendingHandler) SimulateDay(c *gin.Context) {
	result, err := h.simSvc.SimulateDay(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "summary": result})
}

// Inventory returns every item with stock, pending orders and nearest ETA.
func (h *VendingHandler) Inventory(c *gin.Context) {
	inv, err := h.inventorySvc.GetInventory()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

type orderRequest struct {
	Item string `json:"item" binding:"required"`
	Qty  int    `json:"qty" binding:"required,gt=0"`
}

// PlaceOrder records a supplier order and returns its delivery ETA.
func (h *VendingHandler) PlaceOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "provide item and positive qty"})
		return
	}

	eta, err := h.inventorySvc.PlaceOrder(req.Item, req.Qty)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "order": gin.H{
		"item":     req.Item,
		"qty":      req.Qty,
		"eta_date": eta,
	}})
}

// ApplyRestock folds matured orders into stock as of the simulated date.
func (h *VendingHandler) ApplyRestock(c *gin.Context) {
	applied, err := h.inventorySvc.ApplyRestocks()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "applied": applied})
}

// Prices returns the current sell price per item.
func (h *VendingHandler) Prices(c *gin.Context) {
	prices, err := h.inventorySvc.GetPrices()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, prices)
}

type priceRequest struct {
	Prices    map[string]decimal.Decimal `json:"prices"`
	Item      string                     `json:"item"`
	SellPrice *decimal.Decimal           `json:"sell_price"`
}

// SetPrices updates one item's price or a batch of prices.
func (h *VendingHandler) SetPrices(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}

	var err error
	switch {
	case len(req.Prices) > 0:
		err = h.inventorySvc.AdjustPrices(req.Prices)
	case req.Item != "" && req.SellPrice != nil:
		err = h.inventorySvc.SetPrice(req.Item, *req.SellPrice)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "provide either 'prices' or 'item' and 'sell_price'"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	prices, err := h.inventorySvc.GetPrices()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "prices": prices})
}

// SalesToday lists sales for the last fully simulated day (or ?date=).
func (h *VendingHandler) SalesToday(c *gin.Context) {
	date, records, err := h.financialSvc.SalesFor(c.Query("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "date": date, "sales": records})
}

// SalesHistory lists the full sales log.
func (h *VendingHandler) SalesHistory(c *gin.Context) {
	records, err := h.financialSvc.History()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "sales": records})
}

// FinancialsDaily returns one day's financial record (?date=, default latest).
func (h *VendingHandler) FinancialsDaily(c *gin.Context) {
	date, record, err := h.financialSvc.Daily(c.Query("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "date": date, "financials": record})
}

// FinancialsSummary aggregates the full history.
func (h *VendingHandler) FinancialsSummary(c *gin.Context) {
	summary, err := h.financialSvc.Summary()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "summary": summary})
}

// FinancialsCOGS returns cumulative cost of goods sold per product.
func (h *VendingHandler) FinancialsCOGS(c *gin.Context) {
	cogs, err := h.financialSvc.COGS()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "cogs_per_product": cogs})
}

// UpdateConfig applies a partial simulation config update, then realigns
// the scheduler with the (possibly changed) tick settings.
func (h *VendingHandler) UpdateConfig(c *gin.Context) {
	var partial map[string]json.RawMessage
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}

	cfg, err := h.simSvc.UpdateConfig(partial)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.sched.Reconfigure(cfg.TickSeconds, cfg.Simulation.Running); err != nil {
		h.logger.Error("failed to reconfigure scheduler", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "config": cfg})
}

type resetRequest struct {
	ResetConfig bool `json:"reset_config"`
}

// Reset restores default state, optionally including the config.
func (h *VendingHandler) Reset(c *gin.Context) {
	var req resetRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
			return
		}
	}

	if err := h.simSvc.Reset(req.ResetConfig); err != nil {
		h.fail(c, err)
		return
	}

	if req.ResetConfig {
		if cfg, err := h.simSvc.CurrentConfig(); err == nil {
			if err := h.sched.Reconfigure(cfg.TickSeconds, cfg.Simulation.Running); err != nil {
				h.logger.Error("failed to reconfigure scheduler", zap.Error(err))
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// fail maps domain errors to HTTP responses naming the violated constraint.
func (h *VendingHandler) fail(c *gin.Context, err error) {
	var (
		validationErr *models.ValidationError
		orderErr      *models.InvalidOrderError
		unknownErr    *models.UnknownItemError
		corruptErr    *models.CorruptStateError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &orderErr), errors.As(err, &unknownErr):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, models.ErrBusy), errors.Is(err, models.ErrDayAlreadyProcessed):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.As(err, &corruptErr):
		h.logger.Error("corrupt state document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
