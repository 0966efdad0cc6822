package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/report"
	"github.com/multistore/backend/internal/domain/shared"
)

const (
	defaultReportDays = 30
	defaultTopN       = 10
	maxTopN           = 100
)

// AnalyticsService serves the dashboard read models built from order data
type AnalyticsService struct {
	salesRepo report.SalesReportRepository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(salesRepo report.SalesReportRepository) *AnalyticsService {
	return &AnalyticsService{salesRepo: salesRepo}
}

// SalesReportFilter is the query-string filter for report endpoints.
// An empty range defaults to the last 30 days.
type SalesReportFilter struct {
	StartDate  *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate    *time.Time `form:"end_date" time_format:"2006-01-02"`
	ProductID  *uuid.UUID `form:"product_id"`
	CustomerID *uuid.UUID `form:"customer_id"`
	TopN       int        `form:"top_n"`
}

// SalesSummaryResponse is the aggregated sales view for a period
type SalesSummaryResponse struct {
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	TotalOrders   int64           `json:"total_orders"`
	PaidOrders    int64           `json:"paid_orders"`
	TotalItems    int64           `json:"total_items"`
	GrossRevenue  decimal.Decimal `json:"gross_revenue"`
	RefundedTotal decimal.Decimal `json:"refunded_total"`
	NetRevenue    decimal.Decimal `json:"net_revenue"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
}

// DailySalesTrendResponse is one day of the sales time series
type DailySalesTrendResponse struct {
	Date        time.Time       `json:"date"`
	OrderCount  int64           `json:"order_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemsSold   int64           `json:"items_sold"`
}

// ProductRankingResponse is a top-selling product row
type ProductRankingResponse struct {
	Rank          int             `json:"rank"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductSKU    string          `json:"product_sku"`
	ProductName   string          `json:"product_name"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	OrderCount    int64           `json:"order_count"`
}

// CustomerRankingResponse is a top-customer-by-spend row
type CustomerRankingResponse struct {
	Rank         int             `json:"rank"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	TotalOrders  int64           `json:"total_orders"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// StatusBreakdownResponse counts orders per lifecycle status
type StatusBreakdownResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DashboardResponse is the storefront admin landing view
type DashboardResponse struct {
	Summary         SalesSummaryResponse      `json:"summary"`
	StatusBreakdown []StatusBreakdownResponse `json:"status_breakdown"`
	DailyTrend      []DailySalesTrendResponse `json:"daily_trend"`
	TopProducts     []ProductRankingResponse  `json:"top_products"`
	RevenueToday    decimal.Decimal           `json:"revenue_today"`
}

// Dashboard assembles the default landing view over the last 30 days
func (s *AnalyticsService) Dashboard(ctx context.Context, storeID uuid.UUID) (*DashboardResponse, error) {
	filter, err := s.domainFilter(storeID, SalesReportFilter{TopN: 5})
	if err != nil {
		return nil, err
	}

	summary, err := s.salesRepo.GetSalesSummary(ctx, filter)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.salesRepo.GetStatusBreakdown(ctx, filter)
	if err != nil {
		return nil, err
	}
	trend, err := s.salesRepo.GetDailySalesTrend(ctx, filter)
	if err != nil {
		return nil, err
	}
	top, err := s.salesRepo.GetProductSalesRanking(ctx, filter)
	if err != nil {
		return nil, err
	}

	midnight := time.Now().Truncate(24 * time.Hour)
	revenueToday, err := s.salesRepo.GetRevenueSince(ctx, storeID, midnight)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		Summary:         toSummaryResponse(summary),
		StatusBreakdown: toBreakdownResponses(breakdown),
		DailyTrend:      toTrendResponses(trend),
		TopProducts:     toProductRankingResponses(top),
		RevenueToday:    revenueToday,
	}, nil
}

// SalesSummary returns the aggregated sales view for a period
func (s *AnalyticsService) SalesSummary(ctx context.Context, storeID uuid.UUID, req SalesReportFilter) (*SalesSummaryResponse, error) {
	filter, err := s.domainFilter(storeID, req)
	if err != nil {
		return nil, err
	}
	summary, err := s.salesRepo.GetSalesSummary(ctx, filter)
	if err != nil {
		return nil, err
	}
	response := toSummaryResponse(summary)
	return &response, nil
}

// DailyTrend returns the per-day sales series for a period
func (s *AnalyticsService) DailyTrend(ctx context.Context, storeID uuid.UUID, req SalesReportFilter) ([]DailySalesTrendResponse, error) {
	filter, err := s.domainFilter(storeID, req)
	if err != nil {
		return nil, err
	}
	trend, err := s.salesRepo.GetDailySalesTrend(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toTrendResponses(trend), nil
}

// TopProducts returns the best-selling products for a period
func (s *AnalyticsService) TopProducts(ctx context.Context, storeID uuid.UUID, req SalesReportFilter) ([]ProductRankingResponse, error) {
	filter, err := s.domainFilter(storeID, req)
	if err != nil {
		return nil, err
	}
	rankings, err := s.salesRepo.GetProductSalesRanking(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toProductRankingResponses(rankings), nil
}

// TopCustomers returns the highest-spending customers for a period
func (s *AnalyticsService) TopCustomers(ctx context.Context, storeID uuid.UUID, req SalesReportFilter) ([]CustomerRankingResponse, error) {
	filter, err := s.domainFilter(storeID, req)
	if err != nil {
		return nil, err
	}
	rankings, err := s.salesRepo.GetCustomerSalesRanking(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]CustomerRankingResponse, len(rankings))
	for i, r := range rankings {
		responses[i] = CustomerRankingResponse{
			Rank:         r.Rank,
			CustomerID:   r.CustomerID,
			CustomerName: r.CustomerName,
			TotalOrders:  r.TotalOrders,
			TotalAmount:  r.TotalAmount,
		}
	}
	return responses, nil
}

// StatusBreakdown counts the period's orders per lifecycle status
func (s *AnalyticsService) StatusBreakdown(ctx context.Context, storeID uuid.UUID, req SalesReportFilter) ([]StatusBreakdownResponse, error) {
	filter, err := s.domainFilter(storeID, req)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.salesRepo.GetStatusBreakdown(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toBreakdownResponses(breakdown), nil
}

func (s *AnalyticsService) domainFilter(storeID uuid.UUID, req SalesReportFilter) (report.SalesReportFilter, error) {
	end := time.Now()
	if req.EndDate != nil {
		// Treat the end date as inclusive
		end = req.EndDate.AddDate(0, 0, 1)
	}
	start := end.AddDate(0, 0, -defaultReportDays)
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if !start.Before(end) {
		return report.SalesReportFilter{}, shared.NewDomainError("INVALID_DATE_RANGE", "Start date must be before end date")
	}

	topN := req.TopN
	if topN <= 0 {
		topN = defaultTopN
	}
	if topN > maxTopN {
		topN = maxTopN
	}

	return report.SalesReportFilter{
		StoreID:    storeID,
		StartDate:  start,
		EndDate:    end,
		ProductID:  req.ProductID,
		CustomerID: req.CustomerID,
		TopN:       topN,
	}, nil
}

func toSummaryResponse(sum *report.SalesSummary) SalesSummaryResponse {
	return SalesSummaryResponse{
		PeriodStart:   sum.PeriodStart,
		PeriodEnd:     sum.PeriodEnd,
		TotalOrders:   sum.TotalOrders,
		PaidOrders:    sum.PaidOrders,
		TotalItems:    sum.TotalItems,
		GrossRevenue:  sum.GrossRevenue,
		RefundedTotal: sum.RefundedTotal,
		NetRevenue:    sum.NetRevenue,
		AvgOrderValue: sum.AvgOrderValue,
	}
}

func toTrendResponses(trend []report.DailySalesTrend) []DailySalesTrendResponse {
	responses := make([]DailySalesTrendResponse, len(trend))
	for i, t := range trend {
		responses[i] = DailySalesTrendResponse{
			Date:        t.Date,
			OrderCount:  t.OrderCount,
			TotalAmount: t.TotalAmount,
			ItemsSold:   t.ItemsSold,
		}
	}
	return responses
}

func toProductRankingResponses(rankings []report.ProductSalesRanking) []ProductRankingResponse {
	responses := make([]ProductRankingResponse, len(rankings))
	for i, r := range rankings {
		responses[i] = ProductRankingResponse{
			Rank:          r.Rank,
			ProductID:     r.ProductID,
			ProductSKU:    r.ProductSKU,
			ProductName:   r.ProductName,
			TotalQuantity: r.TotalQuantity,
			TotalAmount:   r.TotalAmount,
			OrderCount:    r.OrderCount,
		}
	}
	return responses
}

func toBreakdownResponses(breakdown []report.StatusBreakdown) []StatusBreakdownResponse {
	responses := make([]StatusBreakdownResponse, len(breakdown))
	for i, b := range breakdown {
		responses[i] = StatusBreakdownResponse{Status: b.Status, Count: b.Count}
	}
	return responses
}
