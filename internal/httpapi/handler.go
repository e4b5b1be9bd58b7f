package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"store-report-lab/internal/report"
)

const dateLayout = "2006-01-02"

// Reports is the aggregate report surface served under /reports.
type Reports interface {
	SalesUnoptimized(ctx context.Context, start, end time.Time) (report.SalesReport, error)
	SalesOptimized(ctx context.Context, start, end time.Time) (report.SalesReport, error)
	TopProducts(ctx context.Context, topCount int) ([]report.ProductSales, error)
	StorePerformance(ctx context.Context) ([]report.StorePerformance, error)
}

// Procedures is the raw-query surface served under /stored-procedures.
type Procedures interface {
	OrdersWithStoresUnoptimized(ctx context.Context) (report.Result[report.OrderRow], error)
	OrdersWithStoresOptimized(ctx context.Context) (report.Result[report.OrderStoreRow], error)
	ProductSalesUnoptimized(ctx context.Context) (report.Result[report.ProductSalesRow], error)
	ProductSalesOptimized(ctx context.Context) (report.Result[report.ProductSalesRow], error)
	StoreRankingsUnoptimized(ctx context.Context) (report.Result[report.StoreRankingRow], error)
	StoreRankingsOptimized(ctx context.Context) (report.Result[report.RankedStoreRow], error)
}

// Handler serves the report and procedure endpoints.
type Handler struct {
	reports    Reports
	procedures Procedures
}

// NewHandler wires the handlers to their report sources.
func NewHandler(reports Reports, procedures Procedures) *Handler {
	return &Handler{reports: reports, procedures: procedures}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) SalesUnoptimized(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		respond(c, nil, err)
		return
	}
	result, err := h.reports.SalesUnoptimized(c.Request.Context(), start, end)
	respond(c, result, err)
}

func (h *Handler) SalesOptimized(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		respond(c, nil, err)
		return
	}
	result, err := h.reports.SalesOptimized(c.Request.Context(), start, end)
	respond(c, result, err)
}

func (h *Handler) TopProducts(c *gin.Context) {
	topCount, err := strconv.Atoi(c.DefaultQuery("topCount", strconv.Itoa(report.DefaultTopCount)))
	if err != nil {
		respond(c, nil, fmt.Errorf("invalid topCount: %w", err))
		return
	}
	result, err := h.reports.TopProducts(c.Request.Context(), topCount)
	respond(c, result, err)
}

func (h *Handler) StorePerformance(c *gin.Context) {
	result, err := h.reports.StorePerformance(c.Request.Context())
	respond(c, result, err)
}

func (h *Handler) OrdersUnoptimized(c *gin.Context) {
	result, err := h.procedures.OrdersWithStoresUnoptimized(c.Request.Context())
	respond(c, result, err)
}

func (h *Handler) OrdersOptimized(c *gin.Context) {
	result, err := h.procedures.OrdersWithStoresOptimized(c.Request.Context())
	respond(c, result, err)
}

func (h *Handler) ProductsUnoptimized(c *gin.Context) {
	result, err := h.procedures.ProductSalesUnoptimized(c.Request.Context())
	respond(c, result, err)
}

func (h *Handler) ProductsOptimized(c *gin.Context) {
	result, err := h.procedures.ProductSalesOptimized(c.Request.Context())
	respond(c, result, err)
}

func (h *Handler) StoresUnoptimized(c *gin.Context) {
	result, err := h.procedures.StoreRankingsUnoptimized(c.Request.Context())
	respond(c, result, err)
}

func (h *Handler) StoresOptimized(c *gin.Context) {
	result, err := h.procedures.StoreRankingsOptimized(c.Request.Context())
	respond(c, result, err)
}

// respond writes result as 200, or any error as 400 with its message.
func respond(c *gin.Context, result any, err error) {
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func dateRange(c *gin.Context) (time.Time, time.Time, error) {
	start, err := parseDate(c.Query("startDate"), "startDate", false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(c.Query("endDate"), "endDate", true)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("endDate must not be before startDate")
	}
	return start, end, nil
}

// parseDate accepts 2006-01-02 or RFC 3339. A bare end date covers the whole day.
func parseDate(value, name string, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required", name)
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD or RFC 3339", name, value)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
