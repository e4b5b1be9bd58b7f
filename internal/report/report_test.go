package report

import (
	"context"
	"encoding/json"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"store-report-lab/internal/data"
	"store-report-lab/internal/db"
)

const testOrders = 120

var testAnchor = time.Date(2025, time.March, 31, 18, 30, 0, 0, time.UTC)

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(db.Config{Driver: db.DriverSQLite, Path: filepath.Join(t.TempDir(), "report.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	require.NoError(t, data.EnsureSchema(gdb))
	require.NoError(t, data.Seed(context.Background(), gdb, data.SeedConfig{
		Orders: testOrders,
		Anchor: testAnchor,
	}))
	return gdb
}

func fullWindow() (time.Time, time.Time) {
	return testAnchor.AddDate(0, 0, -100), testAnchor
}

func TestSalesReportEmptyWindow(t *testing.T) {
	svc := NewService(seededDB(t))
	ctx := context.Background()
	start := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2001, time.January, 31, 0, 0, 0, 0, time.UTC)

	for name, fn := range map[string]func(context.Context, time.Time, time.Time) (SalesReport, error){
		"unoptimized": svc.SalesUnoptimized,
		"optimized":   svc.SalesOptimized,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := fn(ctx, start, end)
			require.NoError(t, err)
			assert.Zero(t, got.TotalOrders)
			assert.Zero(t, got.StoreCount)
			assert.True(t, got.TotalRevenue.IsZero())
			assert.True(t, got.AverageOrderValue.IsZero())
			assert.True(t, got.AverageDeliveryTime.IsZero())

			body, err := json.Marshal(got)
			require.NoError(t, err)
			assert.JSONEq(t, `{"totalOrders":0,"totalRevenue":0,"averageOrderValue":0,"storeCount":0,"averageDeliveryTime":0}`, string(body))
		})
	}
}

func TestSalesReportVariantsAgree(t *testing.T) {
	svc := NewService(seededDB(t))
	ctx := context.Background()

	windows := [][2]time.Time{
		{testAnchor.AddDate(0, 0, -100), testAnchor},
		{testAnchor.AddDate(0, 0, -30), testAnchor},
		{testAnchor.AddDate(0, 0, -60), testAnchor.AddDate(0, 0, -45)},
		{testAnchor.AddDate(0, 0, -1), testAnchor.AddDate(0, 0, -1)},
	}
	for _, w := range windows {
		slow, err := svc.SalesUnoptimized(ctx, w[0], w[1])
		require.NoError(t, err)
		fast, err := svc.SalesOptimized(ctx, w[0], w[1])
		require.NoError(t, err)

		assert.Equal(t, slow.TotalOrders, fast.TotalOrders)
		assert.Equal(t, slow.StoreCount, fast.StoreCount)
		assert.True(t, slow.TotalRevenue.Equal(fast.TotalRevenue), "%s != %s", slow.TotalRevenue, fast.TotalRevenue)
		assert.True(t, slow.AverageOrderValue.Equal(fast.AverageOrderValue))
		assert.True(t, slow.AverageDeliveryTime.Equal(fast.AverageDeliveryTime))
	}
}

func TestSalesOptimizedMatchesSeededOrders(t *testing.T) {
	svc := NewService(seededDB(t))

	stores := data.FixtureStores()
	for i := range stores {
		stores[i].ID = uint(i + 1)
	}
	rnd := rand.New(rand.NewSource(data.DefaultRandSeed))
	orders := data.GenerateOrders(rnd, stores, testOrders, testAnchor)

	revenue := decimal.Zero
	var minutes int64
	storeSet := map[uint]struct{}{}
	for _, o := range orders {
		revenue = revenue.Add(o.Total)
		minutes += int64(o.DeliveryTimeMinutes)
		storeSet[o.StoreID] = struct{}{}
	}
	count := decimal.NewFromInt(testOrders)

	start, end := fullWindow()
	got, err := svc.SalesOptimized(context.Background(), start, end)
	require.NoError(t, err)

	assert.EqualValues(t, testOrders, got.TotalOrders)
	assert.EqualValues(t, len(storeSet), got.StoreCount)
	assert.Equal(t, revenue.StringFixed(2), got.TotalRevenue.StringFixed(2))
	assert.Equal(t, revenue.Div(count).StringFixed(2), got.AverageOrderValue.StringFixed(2))
	assert.Equal(t, decimal.NewFromInt(minutes).Div(count).StringFixed(2), got.AverageDeliveryTime.StringFixed(2))
}

func TestTopProducts(t *testing.T) {
	svc := NewService(seededDB(t))
	ctx := context.Background()

	top, err := svc.TopProducts(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	for i := 1; i < len(top); i++ {
		assert.True(t, top[i-1].TotalRevenue.GreaterThanOrEqual(top[i].TotalRevenue))
	}

	all, err := svc.TopProducts(ctx, 100)
	require.NoError(t, err)
	var distinct int64
	require.NoError(t, svc.db.Raw("SELECT COUNT(DISTINCT product_id) FROM order_items").Scan(&distinct).Error)
	assert.Len(t, all, int(distinct))

	seen := map[uint]bool{}
	for _, p := range all {
		assert.False(t, seen[p.ProductID], "duplicate product %d", p.ProductID)
		seen[p.ProductID] = true
		assert.Positive(t, p.TotalQuantitySold)
		assert.NotEmpty(t, p.ProductName)
		assert.True(t, p.AverageSalePrice.LessThanOrEqual(p.TotalRevenue))
	}
}

func TestTopProductsBounds(t *testing.T) {
	svc := NewService(seededDB(t))
	ctx := context.Background()

	none, err := svc.TopProducts(ctx, 0)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = svc.TopProducts(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidTopCount)

	huge, err := svc.TopProducts(ctx, 1_000_000_000_000)
	require.NoError(t, err)
	assert.NotEmpty(t, huge)
	assert.LessOrEqual(t, len(huge), len(data.FixtureProducts()))
}

func TestStorePerformance(t *testing.T) {
	gdb := seededDB(t)
	svc := NewService(gdb)
	ctx := context.Background()

	rows, err := svc.StorePerformance(ctx)
	require.NoError(t, err)

	var storesWithOrders int64
	require.NoError(t, gdb.Raw("SELECT COUNT(DISTINCT store_id) FROM orders").Scan(&storesWithOrders).Error)
	require.Len(t, rows, int(storesWithOrders))

	seen := map[uint]bool{}
	total := decimal.Zero
	var orders int64
	for i, r := range rows {
		assert.False(t, seen[r.StoreID])
		seen[r.StoreID] = true
		assert.NotEmpty(t, r.StoreName)
		assert.NotEmpty(t, r.Location)
		if i > 0 {
			assert.True(t, rows[i-1].TotalRevenue.GreaterThanOrEqual(r.TotalRevenue))
		}
		total = total.Add(r.TotalRevenue)
		orders += r.TotalOrders
	}

	start, end := fullWindow()
	sales, err := svc.SalesOptimized(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, sales.TotalOrders, orders)
	assert.Equal(t, sales.TotalRevenue.StringFixed(2), total.StringFixed(2))
}

func TestSalesUnoptimizedWrapsErrors(t *testing.T) {
	gdb := seededDB(t)
	svc := NewService(gdb)
	require.NoError(t, db.Close(gdb))

	start, end := fullWindow()
	_, err := svc.SalesUnoptimized(context.Background(), start, end)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unoptimized sales report")
}

func TestSalesReportNormalizesTimeZones(t *testing.T) {
	svc := NewService(seededDB(t))
	ctx := context.Background()
	eastern := time.FixedZone("UTC-5", -5*60*60)

	start, end := testAnchor.AddDate(0, 0, -30), testAnchor.AddDate(0, 0, -1)
	want, err := svc.SalesOptimized(ctx, start, end)
	require.NoError(t, err)
	require.Positive(t, want.TotalOrders)

	slow, err := svc.SalesUnoptimized(ctx, start.In(eastern), end.In(eastern))
	require.NoError(t, err)
	fast, err := svc.SalesOptimized(ctx, start.In(eastern), end.In(eastern))
	require.NoError(t, err)

	assert.Equal(t, want.TotalOrders, slow.TotalOrders)
	assert.Equal(t, want.TotalOrders, fast.TotalOrders)
	assert.True(t, want.TotalRevenue.Equal(slow.TotalRevenue))
	assert.True(t, want.TotalRevenue.Equal(fast.TotalRevenue))
}
