package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/multistore/backend/internal/domain/order"
	"github.com/multistore/backend/internal/domain/report"
)

// paidPaymentStatuses are the payment states that count towards revenue
var paidPaymentStatuses = []string{
	string(order.PaymentStatusPaid),
	string(order.PaymentStatusPartiallyRefunded),
}

// GormSalesReportRepository implements SalesReportRepository using GORM
type GormSalesReportRepository struct {
	db *gorm.DB
}

// NewGormSalesReportRepository creates a new GormSalesReportRepository
func NewGormSalesReportRepository(db *gorm.DB) *GormSalesReportRepository {
	return &GormSalesReportRepository{db: db}
}

// GetSalesSummary returns aggregated order statistics for the period
func (r *GormSalesReportRepository) GetSalesSummary(ctx context.Context, filter report.SalesReportFilter) (*report.SalesSummary, error) {
	type summaryResult struct {
		TotalOrders   int64
		PaidOrders    int64
		GrossRevenue  decimal.Decimal
		RefundedTotal decimal.Decimal
	}

	var result summaryResult

	// Order totals and item counts are aggregated separately so the
	// items join cannot multiply the revenue sums.
	query := r.db.WithContext(ctx).Table("orders").
		Select(`
			COUNT(*) as total_orders,
			COALESCE(SUM(CASE WHEN payment_status IN ? THEN 1 ELSE 0 END), 0) as paid_orders,
			COALESCE(SUM(CASE WHEN payment_status IN ? THEN total_amount ELSE 0 END), 0) as gross_revenue,
			COALESCE(SUM(refunded_amount), 0) as refunded_total
		`, paidPaymentStatuses, paidPaymentStatuses).
		Where("store_id = ?", filter.StoreID).
		Where("created_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate).
		Where("status != ?", order.OrderStatusCancelled)

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}

	if err := query.Scan(&result).Error; err != nil {
		return nil, err
	}

	var totalItems int64
	itemsQuery := r.db.WithContext(ctx).Table("order_items oi").
		Select("COALESCE(SUM(oi.quantity), 0)").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.store_id = ?", filter.StoreID).
		Where("o.created_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate).
		Where("o.status != ?", order.OrderStatusCancelled)

	if filter.ProductID != nil {
		itemsQuery = itemsQuery.Where("oi.product_id = ?", *filter.ProductID)
	}
	if filter.CustomerID != nil {
		itemsQuery = itemsQuery.Where("o.customer_id = ?", *filter.CustomerID)
	}

	if err := itemsQuery.Scan(&totalItems).Error; err != nil {
		return nil, err
	}

	netRevenue := result.GrossRevenue.Sub(result.RefundedTotal)
	var avgOrderValue decimal.Decimal
	if result.PaidOrders > 0 {
		avgOrderValue = result.GrossRevenue.Div(decimal.NewFromInt(result.PaidOrders)).Round(2)
	}

	return &report.SalesSummary{
		PeriodStart:   filter.StartDate,
		PeriodEnd:     filter.EndDate,
		TotalOrders:   result.TotalOrders,
		PaidOrders:    result.PaidOrders,
		TotalItems:    totalItems,
		GrossRevenue:  result.GrossRevenue,
		RefundedTotal: result.RefundedTotal,
		NetRevenue:    netRevenue,
		AvgOrderValue: avgOrderValue,
	}, nil
}

// GetDailySalesTrend returns daily sales trend data
func (r *GormSalesReportRepository) GetDailySalesTrend(ctx context.Context, filter report.SalesReportFilter) ([]report.DailySalesTrend, error) {
	type dailyResult struct {
		Date        time.Time
		OrderCount  int64
		TotalAmount decimal.Decimal
	}

	var results []dailyResult

	err := r.db.WithContext(ctx).Table("orders").
		Select(`
			DATE(created_at) as date,
			COUNT(*) as order_count,
			COALESCE(SUM(CASE WHEN payment_status IN ? THEN total_amount ELSE 0 END), 0) as total_amount
		`, paidPaymentStatuses).
		Where("store_id = ?", filter.StoreID).
		Where("created_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate).
		Where("status != ?", order.OrderStatusCancelled).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	type itemsResult struct {
		Date      time.Time
		ItemsSold int64
	}

	var itemResults []itemsResult
	err = r.db.WithContext(ctx).Table("order_items oi").
		Select(`
			DATE(o.created_at) as date,
			COALESCE(SUM(oi.quantity), 0) as items_sold
		`).
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.store_id = ?", filter.StoreID).
		Where("o.created_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate).
		Where("o.status != ?", order.OrderStatusCancelled).
		Group("DATE(o.created_at)").
		Scan(&itemResults).Error
	if err != nil {
		return nil, err
	}

	itemsByDay := make(map[string]int64, len(itemResults))
	for _, ir := range itemResults {
		itemsByDay[ir.Date.Format("2006-01-02")] = ir.ItemsSold
	}

	trends := make([]report.DailySalesTrend, len(results))
	for i, res := range results {
		trends[i] = report.DailySalesTrend{
			Date:        res.Date,
			OrderCount:  res.OrderCount,
			TotalAmount: res.TotalAmount,
			ItemsSold:   itemsByDay[res.Date.Format("2006-01-02")],
		}
	}

	return trends, nil
}

// GetProductSalesRanking returns top N products by sales
func (r *GormSalesReportRepository) GetProductSalesRanking(ctx context.Context, filter report.SalesReportFilter) ([]report.ProductSalesRanking, error) {
	type rankingResult struct {
		ProductID     uuid.UUID
		ProductSKU    string
		ProductName   string
		TotalQuantity int64
		TotalAmount   decimal.Decimal
		OrderCount    int64
	}

	var results []rankingResult

	topN := filter.TopN
	if topN <= 0 {
		topN = 10
	}

	query := r.db.WithContext(ctx).Table("order_items oi").
		Select(`
			oi.product_id,
			oi.sku as product_sku,
			oi.product_name,
			COALESCE(SUM(oi.quantity), 0) as total_quantity,
			COALESCE(SUM(oi.total_price), 0) as total_amount,
			COUNT(DISTINCT o.id) as order_count
		`).
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.store_id = ?", filter.StoreID).
		Where("o.created_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate).
		Where("o.payment_status IN ?", paidPaymentStatuses).
		Where("o.status != ?", order.OrderStatusCancelled).
		Group("oi.product_id, oi.sku, oi.product_name").
		Order("total_amount DESC").
		Limit(topN)

	if filter.ProductID != nil {
		query = query.Where("oi.product_id = ?", *filter.ProductID)
	}

	if err := query.Scan(&results).Error; err != nil {
		return nil, err
	}

	rankings := make([]report.ProductSalesRanking, len(results))
	for i, res := range results {
		rankings[i] = report.ProductSalesRanking{
			Rank:          i + 1,
			ProductID:     res.ProductID,
			ProductSKU:    res.ProductSKU,
			ProductName:   res.ProductName,
			TotalQuantity: res.TotalQuantity,
			TotalAmount:   res.TotalAmount,
			OrderCount:    res.OrderCount,
		}
	}

	return rankings, nil
}

// GetStatusBreakdown counts orders per lifecycle status for the period
func (r *GormSalesReportRepository) GetStatusBreakdown(ctx context.Context, filter report.SalesReportFilter) ([]report.StatusBreakdown, error) {
	var results []report.StatusBreakdown

	err := r.db.WithContext(ctx).Table("orders").
		Select("status, COUNT(*) as count").
		Where("store_id = ?", filter.StoreID).
		Where("created_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate).
		Group("status").
		Order("count DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

// GetCustomerSalesRanking returns top N customers by spend
func (r *GormSalesReportRepository) GetCustomerSalesRanking(ctx context.Context, filter report.SalesReportFilter) ([]report.CustomerSalesRanking, error) {
	type rankingResult struct {
		CustomerID   uuid.UUID
		CustomerName string
		TotalOrders  int64
		TotalAmount  decimal.Decimal
	}

	var results []rankingResult

	topN := filter.TopN
	if topN <= 0 {
		topN = 10
	}

	err := r.db.WithContext(ctx).Table("orders").
		Select(`
			customer_id,
			customer_name,
			COUNT(*) as total_orders,
			COALESCE(SUM(total_amount), 0) as total_amount
		`).
		Where("store_id = ?", filter.StoreID).
		Where("customer_id IS NOT NULL").
		Where("created_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate).
		Where("payment_status IN ?", paidPaymentStatuses).
		Where("status != ?", order.OrderStatusCancelled).
		Group("customer_id, customer_name").
		Order("total_amount DESC").
		Limit(topN).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	rankings := make([]report.CustomerSalesRanking, len(results))
	for i, res := range results {
		rankings[i] = report.CustomerSalesRanking{
			Rank:         i + 1,
			CustomerID:   res.CustomerID,
			CustomerName: res.CustomerName,
			TotalOrders:  res.TotalOrders,
			TotalAmount:  res.TotalAmount,
		}
	}

	return rankings, nil
}

// GetRevenueSince returns the net paid revenue accrued since the given time
func (r *GormSalesReportRepository) GetRevenueSince(ctx context.Context, storeID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	var revenue decimal.Decimal

	err := r.db.WithContext(ctx).Table("orders").
		Select("COALESCE(SUM(total_amount - refunded_amount), 0)").
		Where("store_id = ?", storeID).
		Where("created_at >= ?", since).
		Where("payment_status IN ?", paidPaymentStatuses).
		Where("status != ?", order.OrderStatusCancelled).
		Scan(&revenue).Error
	if err != nil {
		return decimal.Zero, err
	}

	return revenue, nil
}

// Ensure GormSalesReportRepository implements SalesReportRepository
var _ report.SalesReportRepository = (*GormSalesReportRepository)(nil)
