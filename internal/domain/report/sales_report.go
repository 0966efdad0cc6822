package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesSummary provides aggregated order statistics for a period.
// This is a CQRS read model optimized for querying.
type SalesSummary struct {
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

// DailySalesTrend represents one day in the sales time series
type DailySalesTrend struct {
	Date        time.Time       `json:"date"`
	OrderCount  int64           `json:"order_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemsSold   int64           `json:"items_sold"`
}

// ProductSalesRanking represents a top-selling product
type ProductSalesRanking struct {
	Rank          int             `json:"rank"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductSKU    string          `json:"product_sku"`
	ProductName   string          `json:"product_name"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	OrderCount    int64           `json:"order_count"`
}

// StatusBreakdown counts orders per lifecycle status
type StatusBreakdown struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// CustomerSalesRanking represents a top customer by spend
type CustomerSalesRanking struct {
	Rank         int             `json:"rank"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	TotalOrders  int64           `json:"total_orders"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// SalesReportFilter defines filtering options for sales reports
type SalesReportFilter struct {
	StoreID    uuid.UUID  `json:"-"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`
	ProductID  *uuid.UUID `json:"product_id,omitempty"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	TopN       int        `json:"top_n,omitempty"` // For rankings
}

// SalesReportRepository defines the interface for sales report queries
type SalesReportRepository interface {
	// GetSalesSummary returns aggregated sales summary for the period
	GetSalesSummary(ctx context.Context, filter SalesReportFilter) (*SalesSummary, error)

	// GetDailySalesTrend returns daily sales trend data
	GetDailySalesTrend(ctx context.Context, filter SalesReportFilter) ([]DailySalesTrend, error)

	// GetProductSalesRanking returns top N products by sales
	GetProductSalesRanking(ctx context.Context, filter SalesReportFilter) ([]ProductSalesRanking, error)

	// GetStatusBreakdown counts orders per status for the period
	GetStatusBreakdown(ctx context.Context, filter SalesReportFilter) ([]StatusBreakdown, error)

	// GetCustomerSalesRanking returns top N customers by spend
	GetCustomerSalesRanking(ctx context.Context, filter SalesReportFilter) ([]CustomerSalesRanking, error)

	// GetRevenueSince sums paid order totals since a point in time
	GetRevenueSince(ctx context.Context, storeID uuid.UUID, since time.Time) (decimal.Decimal, error)
}
