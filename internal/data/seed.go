package data

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultSeedOrders    = 500
	DefaultSeedBatchSize = 100
	DefaultRandSeed      = 42
	orderWindowDays      = 90
	deliveredStatus      = "Delivered"
)

// SeedConfig controls how the sample dataset is generated.
type SeedConfig struct {
	Orders    int
	BatchSize int
	RandSeed  int64
	// Anchor is the newest possible order date. Orders fall in the 90 days before it.
	Anchor time.Time
}

func (cfg SeedConfig) withDefaults() SeedConfig {
	if cfg.Orders <= 0 {
		cfg.Orders = DefaultSeedOrders
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultSeedBatchSize
	}
	if cfg.RandSeed == 0 {
		cfg.RandSeed = DefaultRandSeed
	}
	if cfg.Anchor.IsZero() {
		cfg.Anchor = time.Now().UTC().Truncate(time.Second)
	}
	return cfg
}

// EnsureSchema applies the required database schema.
func EnsureSchema(db *gorm.DB) error {
	return db.AutoMigrate(&Store{}, &Product{}, &Order{}, &OrderItem{})
}

// FixtureStores returns the fixed set of stores every dataset starts with.
func FixtureStores() []Store {
	return []Store{
		{Name: "Ann Arbor Downtown", Location: "Ann Arbor, MI", Manager: "John Smith", OpenedDate: date(2010, time.May, 15)},
		{Name: "Ann Arbor West Side", Location: "Ann Arbor, MI", Manager: "Sarah Johnson", OpenedDate: date(2012, time.March, 20)},
		{Name: "Ypsilanti Main", Location: "Ypsilanti, MI", Manager: "Mike Davis", OpenedDate: date(2008, time.January, 10)},
		{Name: "Canton Center", Location: "Canton, MI", Manager: "Jennifer Lee", OpenedDate: date(2015, time.July, 25)},
		{Name: "Plymouth North", Location: "Plymouth, MI", Manager: "Robert Martinez", OpenedDate: date(2011, time.November, 5)},
	}
}

// FixtureProducts returns the fixed menu.
func FixtureProducts() []Product {
	return []Product{
		{Name: "Large Pepperoni Pizza", Category: "Pizza", Price: price("14.99")},
		{Name: "Large ExtravaganZZa", Category: "Pizza", Price: price("18.99")},
		{Name: "Medium MeatZZa Mania", Category: "Pizza", Price: price("12.99")},
		{Name: "Cali Chicken Bacon Ranch", Category: "Pizza", Price: price("13.99")},
		{Name: "Honolulu Hawaiian", Category: "Pizza", Price: price("13.99")},
		{Name: "Buffalo Chicken", Category: "Wings", Price: price("7.99")},
		{Name: "Marinated Buffalo Chicken", Category: "Wings", Price: price("8.99")},
		{Name: "Parmesan Bread Bites", Category: "Sides", Price: price("5.99")},
		{Name: "Marbled Cookie Brownie", Category: "Dessert", Price: price("3.99")},
		{Name: "Coca-Cola 2L", Category: "Beverage", Price: price("2.99")},
	}
}

// Seed populates an empty store with the sample dataset. It does nothing
// when at least one store already exists.
func Seed(ctx context.Context, db *gorm.DB, cfg SeedConfig) error {
	cfg = cfg.withDefaults()
	tx := db.WithContext(ctx)

	var existing int64
	if err := tx.Model(&Store{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("count stores: %w", err)
	}
	if existing > 0 {
		log.Printf("seed skipped: %d stores already present", existing)
		return nil
	}

	stores := FixtureStores()
	if err := tx.CreateInBatches(&stores, cfg.BatchSize).Error; err != nil {
		return fmt.Errorf("insert stores: %w", err)
	}

	products := FixtureProducts()
	if err := tx.CreateInBatches(&products, cfg.BatchSize).Error; err != nil {
		return fmt.Errorf("insert products: %w", err)
	}

	rnd := rand.New(rand.NewSource(cfg.RandSeed))

	orders := GenerateOrders(rnd, stores, cfg.Orders, cfg.Anchor)
	if err := tx.CreateInBatches(&orders, cfg.BatchSize).Error; err != nil {
		return fmt.Errorf("insert orders: %w", err)
	}

	items := GenerateOrderItems(rnd, orders, products)
	if err := tx.CreateInBatches(&items, cfg.BatchSize).Error; err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}

	log.Printf("seeded %d stores, %d products, %d orders, %d order items",
		len(stores), len(products), len(orders), len(items))
	return nil
}

// GenerateOrders draws n orders from rnd. Stores must already carry their IDs.
func GenerateOrders(rnd *rand.Rand, stores []Store, n int, anchor time.Time) []Order {
	orders := make([]Order, 0, n)
	for i := 0; i < n; i++ {
		storeID := stores[rnd.Intn(len(stores))].ID
		orderDate := anchor.AddDate(0, 0, -rnd.Intn(orderWindowDays))
		itemCount := rnd.Intn(5) + 1
		total := decimal.NewFromFloat(rnd.Float64()*60 + 15).Round(2)

		orders = append(orders, Order{
			StoreID:             storeID,
			OrderDate:           orderDate,
			Total:               total,
			DeliveryTimeMinutes: rnd.Intn(45) + 15,
			Status:              deliveredStatus,
			ItemCount:           itemCount,
		})
	}
	return orders
}

// GenerateOrderItems draws one to three lines for every order.
func GenerateOrderItems(rnd *rand.Rand, orders []Order, products []Product) []OrderItem {
	items := make([]OrderItem, 0, len(orders)*2)
	for _, order := range orders {
		lines := rnd.Intn(3) + 1
		for i := 0; i < lines; i++ {
			product := products[rnd.Intn(len(products))]
			quantity := rnd.Intn(2) + 1

			items = append(items, OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  quantity,
				LineTotal: product.Price.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
			})
		}
	}
	return items
}

func date(year int, month time.Month, day int) datatypes.Date {
	return datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}
