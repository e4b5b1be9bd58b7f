package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"store-report-lab/internal/data"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultTopCount is used when the caller does not ask for a specific size.
const DefaultTopCount = 10

// ErrInvalidTopCount rejects a negative report size.
var ErrInvalidTopCount = errors.New("topCount must not be negative")

// SalesReport summarizes the orders placed in a date window.
type SalesReport struct {
	TotalOrders         int64           `json:"totalOrders"`
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue   decimal.Decimal `json:"averageOrderValue"`
	StoreCount          int64           `json:"storeCount"`
	AverageDeliveryTime decimal.Decimal `json:"averageDeliveryTime"`
}

// ProductSales is one row of the top products report.
type ProductSales struct {
	ProductID         uint            `json:"productId"`
	ProductName       string          `json:"productName"`
	TotalQuantitySold int64           `json:"totalQuantitySold"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageSalePrice  decimal.Decimal `json:"averageSalePrice"`
}

// StorePerformance is one row of the store performance report.
type StorePerformance struct {
	StoreID             uint            `json:"storeId"`
	StoreName           string          `json:"storeName"`
	Location            string          `json:"location"`
	TotalOrders         int64           `json:"totalOrders"`
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue   decimal.Decimal `json:"averageOrderValue"`
	AverageDeliveryTime decimal.Decimal `json:"averageDeliveryTime"`
}

// Service computes the aggregate reports.
type Service struct {
	db *gorm.DB
}

// NewService returns a Service reading through db.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SalesUnoptimized loads every matching order and its stores, then
// aggregates in memory.
func (s *Service) SalesUnoptimized(ctx context.Context, start, end time.Time) (SalesReport, error) {
	start, end = start.UTC(), end.UTC()
	tx := s.db.WithContext(ctx)

	var orders []data.Order
	if err := tx.Where("order_date >= ? AND order_date <= ?", start, end).Find(&orders).Error; err != nil {
		return SalesReport{}, fmt.Errorf("unoptimized sales report: load orders: %w", err)
	}

	seen := make(map[uint]struct{})
	storeIDs := make([]uint, 0)
	revenue := decimal.Zero
	var deliveryMinutes int64
	for _, o := range orders {
		revenue = revenue.Add(o.Total)
		deliveryMinutes += int64(o.DeliveryTimeMinutes)
		if _, ok := seen[o.StoreID]; !ok {
			seen[o.StoreID] = struct{}{}
			storeIDs = append(storeIDs, o.StoreID)
		}
	}

	var stores []data.Store
	if len(storeIDs) > 0 {
		if err := tx.Where("id IN ?", storeIDs).Find(&stores).Error; err != nil {
			return SalesReport{}, fmt.Errorf("unoptimized sales report: load stores: %w", err)
		}
	}

	return summarize(int64(len(orders)), revenue, deliveryMinutes, int64(len(stores))), nil
}

// SalesOptimized pushes the join and aggregation into a single query.
func (s *Service) SalesOptimized(ctx context.Context, start, end time.Time) (SalesReport, error) {
	start, end = start.UTC(), end.UTC()
	var row struct {
		TotalOrders     int64
		TotalRevenue    decimal.Decimal
		DeliveryMinutes int64
		StoreCount      int64
	}

	err := s.db.WithContext(ctx).
		Table("orders AS o").
		Select(`COUNT(*) AS total_orders,
			COALESCE(SUM(o.total), 0) AS total_revenue,
			COALESCE(SUM(o.delivery_time_minutes), 0) AS delivery_minutes,
			COUNT(DISTINCT s.id) AS store_count`).
		Joins("JOIN stores AS s ON s.id = o.store_id").
		Where("o.order_date >= ? AND o.order_date <= ?", start, end).
		Scan(&row).Error
	if err != nil {
		return SalesReport{}, err
	}

	return summarize(row.TotalOrders, row.TotalRevenue, row.DeliveryMinutes, row.StoreCount), nil
}

// summarize is shared by both sales variants so they agree to the cent.
func summarize(orders int64, revenue decimal.Decimal, deliveryMinutes, stores int64) SalesReport {
	if orders == 0 {
		return SalesReport{
			TotalRevenue:        decimal.Zero,
			AverageOrderValue:   decimal.Zero,
			AverageDeliveryTime: decimal.Zero,
		}
	}
	count := decimal.NewFromInt(orders)
	revenue = revenue.Round(2)
	return SalesReport{
		TotalOrders:         orders,
		TotalRevenue:        revenue,
		AverageOrderValue:   revenue.Div(count).Round(2),
		StoreCount:          stores,
		AverageDeliveryTime: decimal.NewFromInt(deliveryMinutes).Div(count).Round(2),
	}
}

// TopProducts ranks products by revenue across all order items.
func (s *Service) TopProducts(ctx context.Context, topCount int) ([]ProductSales, error) {
	if topCount < 0 {
		return nil, ErrInvalidTopCount
	}
	rows := make([]ProductSales, 0)
	if topCount == 0 {
		return rows, nil
	}

	err := s.db.WithContext(ctx).
		Table("order_items AS oi").
		Select(`p.id AS product_id,
			p.name AS product_name,
			SUM(oi.quantity) AS total_quantity_sold,
			SUM(oi.line_total) AS total_revenue,
			AVG(oi.line_total) AS average_sale_price`).
		Joins("JOIN products AS p ON p.id = oi.product_id").
		Group("p.id, p.name").
		Order("total_revenue DESC, p.id").
		Limit(topCount).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].TotalRevenue = rows[i].TotalRevenue.Round(2)
		rows[i].AverageSalePrice = rows[i].AverageSalePrice.Round(2)
	}
	return rows, nil
}

// StorePerformance reports per-store totals for every store with orders.
func (s *Service) StorePerformance(ctx context.Context) ([]StorePerformance, error) {
	rows := make([]StorePerformance, 0)
	err := s.db.WithContext(ctx).
		Table("orders AS o").
		Select(`s.id AS store_id,
			s.name AS store_name,
			s.location AS location,
			COUNT(*) AS total_orders,
			SUM(o.total) AS total_revenue,
			AVG(o.total) AS average_order_value,
			AVG(o.delivery_time_minutes) AS average_delivery_time`).
		Joins("JOIN stores AS s ON s.id = o.store_id").
		Group("s.id, s.name, s.location").
		Order("total_revenue DESC, s.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].TotalRevenue = rows[i].TotalRevenue.Round(2)
		rows[i].AverageOrderValue = rows[i].AverageOrderValue.Round(2)
		rows[i].AverageDeliveryTime = rows[i].AverageDeliveryTime.Round(2)
	}
	return rows, nil
}
