package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type KitchenAssignment struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	OrderID          uint `gorm:"index;not null" json:"order_id"`
	AssignedTo       uint `json:"assigned_to"`
	StartedAt        time.Time  `gorm:"not null" json:"started_at"`
	EstimatedReadyAt time.Time  `gorm:"not null" json:"estimated_ready_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderIngredientConsumption: Sipariş hazırlığında hangi malzemenin hangi
// partilerden ne kadar düşüldüğünün denetim kaydı. BatchBreakdown, tüketim
// motorunun döndürdüğü {batch_id, batch_number, consumed_quantity} listesidir.
type OrderIngredientConsumption struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	OrderID         uint `gorm:"index;not null" json:"order_id"`
	OrderItemID     uint `gorm:"index;not null" json:"order_item_id"`
	InventoryItemID uint `gorm:"index;not null" json:"inventory_item_id"`
	Quantity        decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"quantity"`
	BatchBreakdown  string          `gorm:"type:jsonb" json:"batch_breakdown"`
	CreatedAt       time.Time       `json:"created_at"`
}
