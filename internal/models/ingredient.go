package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ingredient: Bir menü kaleminin bir porsiyonu için gereken stok miktarı (reçete satırı).
type Ingredient struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	RestaurantID    uint `gorm:"index;not null" json:"restaurant_id"`
	MenuItemID      uint `gorm:"index;not null" json:"menu_item_id"`
	MenuItem        MenuItem
	InventoryItemID uint `gorm:"index;not null" json:"inventory_item_id"`
	InventoryItem   InventoryItem
	Quantity        decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"quantity"` // > 0
	Unit            string          `gorm:"size:20" json:"unit"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}
