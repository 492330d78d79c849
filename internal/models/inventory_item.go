package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem: Restoran bazlı takip edilen stok kalemi (ör: "Domates").
// Quantity denormalize toplamdır; parti girişinde artar, tüketimde azalır.
// Stok yeterlilik kararları her zaman parti toplamı üzerinden verilir,
// bu alan rapor/gösterim içindir.
type InventoryItem struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	RestaurantID     uint `gorm:"index;not null" json:"restaurant_id"`
	Restaurant       Restaurant
	Name             string          `gorm:"size:100;not null" json:"name"`
	Quantity         decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"quantity"`
	Unit             string          `gorm:"size:20;not null" json:"unit"` // kg, litre, adet vs.
	ReorderThreshold decimal.Decimal `gorm:"type:decimal(14,3)" json:"reorder_threshold"`
	UnitPrice        float64         `json:"unit_price"`
	Currency         string          `gorm:"size:3;default:TRY" json:"currency"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}
