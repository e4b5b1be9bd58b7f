package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	Unoptimized = "Unoptimized"
	Optimized   = "Optimized"
)

// Procedure names. Each has an unoptimized and an optimized definition.
const (
	OrdersWithStores = "orders_with_stores"
	ProductSalesPair = "product_sales"
	StoreRankings    = "store_rankings"
)

// ErrUnknownProcedure is returned for a pair/variant with no definition.
var ErrUnknownProcedure = errors.New("unknown procedure")

// Procedure describes one named query variant and the technique it shows.
type Procedure struct {
	Pair        string
	Variant     string
	Version     int
	Description string
}

// QueryName is the name of the SQL definition backing p.
func (p Procedure) QueryName() string {
	if p.Variant == Optimized {
		return p.Pair + "_optimized"
	}
	return p.Pair + "_unoptimized"
}

// Procedures lists every pair, unoptimized first.
var Procedures = []Procedure{
	{
		Pair:        OrdersWithStores,
		Variant:     Unoptimized,
		Version:     1,
		Description: "Simple SELECT without JOIN - requires additional queries to get store info",
	},
	{
		Pair:        OrdersWithStores,
		Variant:     Optimized,
		Version:     1,
		Description: "Single query with JOIN and window functions for store-level metrics",
	},
	{
		Pair:        ProductSalesPair,
		Variant:     Unoptimized,
		Version:     1,
		Description: "Missing index on foreign key - table scan required",
	},
	{
		Pair:        ProductSalesPair,
		Variant:     Optimized,
		Version:     1,
		Description: "Index on OrderItems.ProductId for efficient joins",
	},
	{
		Pair:        StoreRankings,
		Variant:     Unoptimized,
		Version:     1,
		Description: "Correlated subqueries - runs subquery for each store (N+1 problem)",
	},
	{
		Pair:        StoreRankings,
		Variant:     Optimized,
		Version:     1,
		Description: "Window functions and CTE - single pass through data",
	},
}

// LookupProcedure finds the procedure for a pair and variant.
func LookupProcedure(pair, variant string) (Procedure, error) {
	for _, p := range Procedures {
		if p.Pair == pair && p.Variant == variant {
			return p, nil
		}
	}
	return Procedure{}, fmt.Errorf("%w: %s/%s", ErrUnknownProcedure, pair, variant)
}

// Result wraps the rows of a procedure with timing metadata.
type Result[T any] struct {
	Data            []T    `json:"data"`
	ExecutionTimeMs int64  `json:"executionTimeMs"`
	QueryType       string `json:"queryType"`
	Description     string `json:"description"`
}

// OrderRow is an order without store details.
type OrderRow struct {
	OrderID             uint            `json:"orderId"`
	StoreID             uint            `json:"storeId"`
	OrderDate           time.Time       `json:"orderDate"`
	OrderTotal          decimal.Decimal `json:"orderTotal"`
	DeliveryTimeMinutes int             `json:"deliveryTimeMinutes"`
}

// OrderStoreRow is an order joined to its store, with per-store metrics.
type OrderStoreRow struct {
	OrderID               uint            `json:"orderId"`
	StoreID               uint            `json:"storeId"`
	StoreName             string          `json:"storeName"`
	Location              string          `json:"location"`
	OrderDate             time.Time       `json:"orderDate"`
	OrderTotal            decimal.Decimal `json:"orderTotal"`
	DeliveryTimeMinutes   int             `json:"deliveryTimeMinutes"`
	OrderCountPerStore    int64           `json:"orderCountPerStore"`
	AvgOrderValuePerStore decimal.Decimal `json:"avgOrderValuePerStore"`
}

// ProductSalesRow is the quantity and revenue sold for one product.
type ProductSalesRow struct {
	ProductID    uint            `json:"productId"`
	ProductName  string          `json:"productName"`
	TotalSold    int64           `json:"totalSold"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// StoreRankingRow carries nullable totals: stores without orders still appear.
type StoreRankingRow struct {
	StoreID         uint                `json:"storeId"`
	StoreName       string              `json:"storeName"`
	OrderCount      int64               `json:"orderCount"`
	TotalRevenue    decimal.NullDecimal `json:"totalRevenue"`
	AvgDeliveryTime decimal.NullDecimal `json:"avgDeliveryTime"`
}

// RankedStoreRow is a store total with its dense revenue rank.
type RankedStoreRow struct {
	StoreID         uint            `json:"storeId"`
	StoreName       string          `json:"storeName"`
	OrderCount      int64           `json:"orderCount"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	AvgDeliveryTime decimal.Decimal `json:"avgDeliveryTime"`
	RevenueRank     int64           `json:"revenueRank"`
}

// Runner executes the named query pairs.
type Runner struct {
	db *gorm.DB
}

// NewRunner returns a Runner reading through db.
func NewRunner(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

func (r *Runner) OrdersWithStoresUnoptimized(ctx context.Context) (Result[OrderRow], error) {
	return run[OrderRow](ctx, r.db, OrdersWithStores, Unoptimized)
}

func (r *Runner) OrdersWithStoresOptimized(ctx context.Context) (Result[OrderStoreRow], error) {
	res, err := run[OrderStoreRow](ctx, r.db, OrdersWithStores, Optimized)
	for i := range res.Data {
		res.Data[i].AvgOrderValuePerStore = res.Data[i].AvgOrderValuePerStore.Round(2)
	}
	return res, err
}

func (r *Runner) ProductSalesUnoptimized(ctx context.Context) (Result[ProductSalesRow], error) {
	return r.productSales(ctx, Unoptimized)
}

func (r *Runner) ProductSalesOptimized(ctx context.Context) (Result[ProductSalesRow], error) {
	return r.productSales(ctx, Optimized)
}

func (r *Runner) productSales(ctx context.Context, variant string) (Result[ProductSalesRow], error) {
	res, err := run[ProductSalesRow](ctx, r.db, ProductSalesPair, variant)
	for i := range res.Data {
		res.Data[i].TotalRevenue = res.Data[i].TotalRevenue.Round(2)
	}
	return res, err
}

func (r *Runner) StoreRankingsUnoptimized(ctx context.Context) (Result[StoreRankingRow], error) {
	res, err := run[StoreRankingRow](ctx, r.db, StoreRankings, Unoptimized)
	for i := range res.Data {
		row := &res.Data[i]
		if row.TotalRevenue.Valid {
			row.TotalRevenue.Decimal = row.TotalRevenue.Decimal.Round(2)
		}
		if row.AvgDeliveryTime.Valid {
			row.AvgDeliveryTime.Decimal = row.AvgDeliveryTime.Decimal.Round(2)
		}
	}
	return res, err
}

func (r *Runner) StoreRankingsOptimized(ctx context.Context) (Result[RankedStoreRow], error) {
	res, err := run[RankedStoreRow](ctx, r.db, StoreRankings, Optimized)
	for i := range res.Data {
		res.Data[i].TotalRevenue = res.Data[i].TotalRevenue.Round(2)
		res.Data[i].AvgDeliveryTime = res.Data[i].AvgDeliveryTime.Round(2)
	}
	return res, err
}

// run times the round trip for one procedure: dispatch through row materialization.
func run[T any](ctx context.Context, db *gorm.DB, pair, variant string) (Result[T], error) {
	proc, err := LookupProcedure(pair, variant)
	if err != nil {
		return Result[T]{}, err
	}
	query, err := LoadQuery(proc.QueryName(), proc.Version)
	if err != nil {
		return Result[T]{}, err
	}

	rows := make([]T, 0)
	start := time.Now()
	err = db.WithContext(ctx).Raw(query.SQL).Scan(&rows).Error
	elapsed := time.Since(start)
	if err != nil {
		return Result[T]{}, fmt.Errorf("%s: %w", query.Name, err)
	}

	log.Printf("%s -- total time took: %.3f ms (%d rows)", query.Name, float64(elapsed.Microseconds())/1000, len(rows))

	return Result[T]{
		Data:            rows,
		ExecutionTimeMs: elapsed.Milliseconds(),
		QueryType:       proc.Variant,
		Description:     proc.Description,
	}, nil
}
