package data

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Store is a physical pizza store that orders are placed against.
type Store struct {
	ID         uint           `gorm:"primaryKey" json:"storeId"`
	Name       string         `gorm:"size:100;not null" json:"storeName"`
	Location   string         `gorm:"size:100" json:"location"`
	Manager    string         `gorm:"size:100" json:"manager"`
	OpenedDate datatypes.Date `json:"openedDate"`
}

// Product is a menu item sold through order items.
type Product struct {
	ID       uint            `gorm:"primaryKey" json:"productId"`
	Name     string          `gorm:"size:100;not null" json:"productName"`
	Category string          `gorm:"size:50" json:"category"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

// Order is a delivered order. Total is not reconciled against its items.
type Order struct {
	ID                  uint            `gorm:"primaryKey" json:"orderId"`
	StoreID             uint            `gorm:"not null;index:idx_orders_store_id" json:"storeId"`
	Store               *Store          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Total               decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"orderTotal"`
	OrderDate           time.Time       `gorm:"not null;index:idx_orders_order_date" json:"orderDate"`
	DeliveryTimeMinutes int             `gorm:"not null" json:"deliveryTimeMinutes"`
	Status              string          `gorm:"size:32" json:"orderStatus"`
	ItemCount           int             `json:"itemCount"`
}

// OrderItem is one product line of an order.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"orderItemId"`
	OrderID   uint            `gorm:"not null;index:idx_order_items_order_id" json:"orderId"`
	Order     *Order          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID uint            `gorm:"not null;index:idx_order_items_product_id" json:"productId"`
	Product   *Product        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	LineTotal decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"lineTotal"`
}
