package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/multistore/backend/internal/domain/report"
	"github.com/multistore/backend/internal/domain/shared"
)

// MockSalesReportRepository is a mock implementation of report.SalesReportRepository
type MockSalesReportRepository struct {
	mock.Mock
}

func (m *MockSalesReportRepository) GetSalesSummary(ctx context.Context, filter report.SalesReportFilter) (*report.SalesSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.SalesSummary), args.Error(1)
}

func (m *MockSalesReportRepository) GetDailySalesTrend(ctx context.Context, filter report.SalesReportFilter) ([]report.DailySalesTrend, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.DailySalesTrend), args.Error(1)
}

func (m *MockSalesReportRepository) GetProductSalesRanking(ctx context.Context, filter report.SalesReportFilter) ([]report.ProductSalesRanking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.ProductSalesRanking), args.Error(1)
}

func (m *MockSalesReportRepository) GetStatusBreakdown(ctx context.Context, filter report.SalesReportFilter) ([]report.StatusBreakdown, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.StatusBreakdown), args.Error(1)
}

func (m *MockSalesReportRepository) GetCustomerSalesRanking(ctx context.Context, filter report.SalesReportFilter) ([]report.CustomerSalesRanking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.CustomerSalesRanking), args.Error(1)
}

func (m *MockSalesReportRepository) GetRevenueSince(ctx context.Context, storeID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, storeID, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var testReportStoreID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func testSalesSummary() *report.SalesSummary {
	return &report.SalesSummary{
		TotalOrders:   42,
		PaidOrders:    38,
		TotalItems:    97,
		GrossRevenue:  decimal.NewFromInt(52000),
		RefundedTotal: decimal.NewFromInt(1500),
		NetRevenue:    decimal.NewFromInt(50500),
		AvgOrderValue: decimal.NewFromFloat(1238.10),
	}
}

func TestAnalyticsService_SalesSummary_DefaultsToLast30Days(t *testing.T) {
	salesRepo := new(MockSalesReportRepository)
	svc := NewAnalyticsService(salesRepo)
	ctx := context.Background()

	salesRepo.On("GetSalesSummary", ctx, mock.MatchedBy(func(f report.SalesReportFilter) bool {
		days := f.EndDate.Sub(f.StartDate).Hours() / 24
		return f.StoreID == testReportStoreID && days > 29 && days < 31
	})).Return(testSalesSummary(), nil)

	resp, err := svc.SalesSummary(ctx, testReportStoreID, SalesReportFilter{})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), resp.TotalOrders)
	assert.True(t, resp.NetRevenue.Equal(decimal.NewFromInt(50500)))
	salesRepo.AssertExpectations(t)
}

func TestAnalyticsService_SalesSummary_InclusiveEndDate(t *testing.T) {
	salesRepo := new(MockSalesReportRepository)
	svc := NewAnalyticsService(salesRepo)
	ctx := context.Background()

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	salesRepo.On("GetSalesSummary", ctx, mock.MatchedBy(func(f report.SalesReportFilter) bool {
		return f.StartDate.Equal(start) && f.EndDate.Equal(end.AddDate(0, 0, 1))
	})).Return(testSalesSummary(), nil)

	_, err := svc.SalesSummary(ctx, testReportStoreID, SalesReportFilter{StartDate: &start, EndDate: &end})

	assert.NoError(t, err)
	salesRepo.AssertExpectations(t)
}

func TestAnalyticsService_SalesSummary_InvertedRangeRejected(t *testing.T) {
	salesRepo := new(MockSalesReportRepository)
	svc := NewAnalyticsService(salesRepo)
	ctx := context.Background()

	start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.SalesSummary(ctx, testReportStoreID, SalesReportFilter{StartDate: &start, EndDate: &end})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DATE_RANGE", domainErr.Code)
	salesRepo.AssertNotCalled(t, "GetSalesSummary", mock.Anything, mock.Anything)
}

func TestAnalyticsService_TopProducts_CapsTopN(t *testing.T) {
	salesRepo := new(MockSalesReportRepository)
	svc := NewAnalyticsService(salesRepo)
	ctx := context.Background()
	productID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	salesRepo.On("GetProductSalesRanking", ctx, mock.MatchedBy(func(f report.SalesReportFilter) bool {
		return f.TopN == maxTopN
	})).Return([]report.ProductSalesRanking{
		{Rank: 1, ProductID: productID, ProductSKU: "MUG-001", ProductName: "Masala Chai Mug", TotalQuantity: 120, TotalAmount: decimal.NewFromInt(59880), OrderCount: 97},
	}, nil)

	resp, err := svc.TopProducts(ctx, testReportStoreID, SalesReportFilter{TopN: 5000})

	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, "MUG-001", resp[0].ProductSKU)
}

func TestAnalyticsService_Dashboard_AssemblesAllSections(t *testing.T) {
	salesRepo := new(MockSalesReportRepository)
	svc := NewAnalyticsService(salesRepo)
	ctx := context.Background()

	salesRepo.On("GetSalesSummary", ctx, mock.Anything).Return(testSalesSummary(), nil)
	salesRepo.On("GetStatusBreakdown", ctx, mock.Anything).Return([]report.StatusBreakdown{
		{Status: "pending", Count: 3},
		{Status: "delivered", Count: 35},
	}, nil)
	salesRepo.On("GetDailySalesTrend", ctx, mock.Anything).Return([]report.DailySalesTrend{
		{Date: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), OrderCount: 4, TotalAmount: decimal.NewFromInt(4200), ItemsSold: 9},
	}, nil)
	salesRepo.On("GetProductSalesRanking", ctx, mock.MatchedBy(func(f report.SalesReportFilter) bool {
		return f.TopN == 5
	})).Return([]report.ProductSalesRanking{}, nil)
	salesRepo.On("GetRevenueSince", ctx, testReportStoreID, mock.AnythingOfType("time.Time")).Return(decimal.NewFromInt(2100), nil)

	resp, err := svc.Dashboard(ctx, testReportStoreID)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), resp.Summary.TotalOrders)
	assert.Len(t, resp.StatusBreakdown, 2)
	assert.Len(t, resp.DailyTrend, 1)
	assert.True(t, resp.RevenueToday.Equal(decimal.NewFromInt(2100)))
	salesRepo.AssertExpectations(t)
}
