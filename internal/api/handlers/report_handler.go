// internal/api/handlers/report_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/restockd/restockd/internal/forecast"
	"github.com/restockd/restockd/internal/replenish"
	"github.com/restockd/restockd/internal/service"
)

const dateParamLayout = "2006-01-02"

type ReportHandler struct {
	reports *service.ReportService
	sync    *service.SyncService
}

func NewReportHandler(reports *service.ReportService, sync *service.SyncService) *ReportHandler {
	return &ReportHandler{reports: reports, sync: sync}
}

// GetReport returns the full replenishment report for the target date given
// in the required `until` query parameter (YYYY-MM-DD).
func (h *ReportHandler) GetReport(c *gin.Context) {
	until, ok := h.untilParam(c)
	if !ok {
		return
	}

	report, err := h.reports.Generate(c.Request.Context(), until)
	if err != nil {
		h.reportError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetOutOfStock returns only the predicted out-of-stock dates.
func (h *ReportHandler) GetOutOfStock(c *gin.Context) {
	until, ok := h.untilParam(c)
	if !ok {
		return
	}

	report, err := h.reports.Generate(c.Request.Context(), until)
	if err != nil {
		h.reportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"out_of_stock": report.OutOfStock})
}

// GetReplenishment returns only the proposed replenishment quantities.
func (h *ReportHandler) GetReplenishment(c *gin.Context) {
	until, ok := h.untilParam(c)
	if !ok {
		return
	}

	report, err := h.reports.Generate(c.Request.Context(), until)
	if err != nil {
		h.reportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"replenishment": report.Replenishment})
}

// GetLatest returns the most recently persisted report without recomputing.
func (h *ReportHandler) GetLatest(c *gin.Context) {
	report, err := h.reports.Latest(c.Request.Context())
	if err != nil {
		h.reportError(c, err)
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report generated yet"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// TriggerSync pulls recent orders and the inventory snapshot from the
// marketplace.
func (h *ReportHandler) TriggerSync(c *gin.Context) {
	if h.sync == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sync is not configured"})
		return
	}

	daysBack := 7
	if v := c.Query("days_back"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days_back must be a positive integer"})
			return
		}
		daysBack = parsed
	}

	items, err := h.sync.SyncOrders(c.Request.Context(), daysBack)
	if err != nil {
		h.reportError(c, err)
		return
	}
	levels, err := h.sync.SyncInventory(c.Request.Context())
	if err != nil {
		h.reportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_items": items, "inventory_levels": levels})
}

func (h *ReportHandler) untilParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("until")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "until query parameter is required (YYYY-MM-DD)"})
		return time.Time{}, false
	}

	until, err := time.Parse(dateParamLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "until must be formatted as YYYY-MM-DD"})
		return time.Time{}, false
	}
	return until, true
}

// reportError maps domain errors to HTTP statuses: bad input is the caller's
// fault, missing inventory is a data-integrity conflict, everything else is
// internal.
func (h *ReportHandler) reportError(c *gin.Context, err error) {
	var missing *replenish.MissingInventoryLevelError
	var outOfHorizon *replenish.DateOutOfHorizonError

	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "sku": missing.SKU})
	case errors.As(err, &outOfHorizon):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, forecast.ErrInvalidRange), errors.Is(err, forecast.ErrInvalidHorizon):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("report request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
