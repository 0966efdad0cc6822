package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reportapp "github.com/multistore/backend/internal/application/report"
)

// ReportHandler handles sales analytics endpoints
type ReportHandler struct {
	BaseHandler
	analytics *reportapp.AnalyticsService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(analytics *reportapp.AnalyticsService) *ReportHandler {
	return &ReportHandler{analytics: analytics}
}

// Dashboard returns the at-a-glance store dashboard figures
func (h *ReportHandler) Dashboard(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.analytics.Dashboard(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// SalesSummary returns aggregate sales figures for a date range
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	h.report(c, func(ctx context.Context, storeID uuid.UUID, filter reportapp.SalesReportFilter) (any, error) {
		return h.analytics.SalesSummary(ctx, storeID, filter)
	})
}

// DailyTrend returns per-day sales figures for a date range
func (h *ReportHandler) DailyTrend(c *gin.Context) {
	h.report(c, func(ctx context.Context, storeID uuid.UUID, filter reportapp.SalesReportFilter) (any, error) {
		return h.analytics.DailyTrend(ctx, storeID, filter)
	})
}

// TopProducts ranks products by revenue for a date range
func (h *ReportHandler) TopProducts(c *gin.Context) {
	h.report(c, func(ctx context.Context, storeID uuid.UUID, filter reportapp.SalesReportFilter) (any, error) {
		return h.analytics.TopProducts(ctx, storeID, filter)
	})
}

// TopCustomers ranks customers by spend for a date range
func (h *ReportHandler) TopCustomers(c *gin.Context) {
	h.report(c, func(ctx context.Context, storeID uuid.UUID, filter reportapp.SalesReportFilter) (any, error) {
		return h.analytics.TopCustomers(ctx, storeID, filter)
	})
}

// StatusBreakdown returns order counts grouped by status
func (h *ReportHandler) StatusBreakdown(c *gin.Context) {
	h.report(c, func(ctx context.Context, storeID uuid.UUID, filter reportapp.SalesReportFilter) (any, error) {
		return h.analytics.StatusBreakdown(ctx, storeID, filter)
	})
}

func (h *ReportHandler) report(c *gin.Context, fn func(ctx context.Context, storeID uuid.UUID, filter reportapp.SalesReportFilter) (any, error)) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var filter reportapp.SalesReportFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	resp, err := fn(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
