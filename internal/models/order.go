package models

import "time"

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusCaptainApproved OrderStatus = "captain_approved"
	OrderStatusInKitchen       OrderStatus = "in_kitchen"
	OrderStatusReady           OrderStatus = "ready"
	OrderStatusServed          OrderStatus = "served"
	OrderStatusInvoiced        OrderStatus = "invoiced"
	OrderStatusCancelled       OrderStatus = "cancelled"
)

// Order: Masa bazlı sipariş. Durum akışı:
// pending → captain_approved → in_kitchen → ready → served → invoiced
// captain_approved → in_kitchen geçişi stok tüketimiyle birlikte tek
// transaction içinde yapılır (kitchen.Orchestrator).
type Order struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	RestaurantID uint `gorm:"index;not null" json:"restaurant_id"`
	TableID      uint `gorm:"index;not null" json:"table_id"`
	Table        DiningTable
	OrderNumber  string      `gorm:"size:36;uniqueIndex;not null" json:"order_number"`
	WaiterID     uint        `json:"waiter_id"`
	Status       OrderStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	Note         string      `gorm:"size:255" json:"note"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

type OrderItem struct {
	ID                  uint `gorm:"primaryKey" json:"id"`
	OrderID             uint `gorm:"index;not null" json:"order_id"`
	MenuItemID          uint `gorm:"index;not null" json:"menu_item_id"`
	MenuItem            MenuItem
	Quantity            int     `gorm:"not null" json:"quantity"`
	UnitPrice           float64 `gorm:"not null" json:"unit_price"` // sipariş anındaki fiyat
	SpecialInstructions string  `gorm:"size:255" json:"special_instructions"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type OrderStatusHistory struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	OrderID    uint        `gorm:"index;not null" json:"order_id"`
	FromStatus OrderStatus `gorm:"size:20" json:"from_status"`
	ToStatus   OrderStatus `gorm:"size:20;not null" json:"to_status"`
	ChangedBy  uint        `json:"changed_by"`
	Note       string      `gorm:"size:255" json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
