package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BatchStatus string

const (
	BatchStatusActive   BatchStatus = "active"
	BatchStatusExpired  BatchStatus = "expired"
	BatchStatusConsumed BatchStatus = "consumed"
	BatchStatusDamaged  BatchStatus = "damaged"
)

// InventoryBatch: Tek bir mal kabul partisi. CurrentQuantity sadece tüketim
// motoru üzerinden azalır; 0 ≤ CurrentQuantity ≤ InitialQuantity her an geçerlidir.
// Kayıtlar hiçbir zaman fiziksel silinmez.
type InventoryBatch struct {
	ID                uint `gorm:"primaryKey" json:"id"`
	InventoryItemID   uint `gorm:"index;not null;uniqueIndex:uniq_batch_number_per_item,where:deleted_at IS NULL" json:"inventory_item_id"`
	InventoryItem     InventoryItem
	// Parti numarası kalem başına tekildir (silinmemişler arasında); kısmi
	// unique index eşzamanlı girişlere karşı son savunmadır
	BatchNumber       string          `gorm:"size:50;not null;uniqueIndex:uniq_batch_number_per_item,where:deleted_at IS NULL" json:"batch_number"`
	Unit              string          `gorm:"size:20" json:"unit"`
	InitialQuantity   decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"initial_quantity"`
	CurrentQuantity   decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"current_quantity"`
	PurchasePrice     float64         `json:"purchase_price"`
	SellingPrice      float64         `json:"selling_price"`
	PurchaseDate      time.Time       `gorm:"index;not null" json:"purchase_date"`
	ExpiryDate        *time.Time      `gorm:"index" json:"expiry_date"`
	ManufacturingDate *time.Time      `json:"manufacturing_date"`
	LotNumber         string          `gorm:"size:50" json:"lot_number"`
	Status            BatchStatus     `gorm:"size:20;not null;default:active" json:"status"`
	SupplierID        *uint           `json:"supplier_id"`
	Supplier          *Supplier
	Notes             string `gorm:"size:500" json:"notes"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

type MovementType string

const (
	MovementTypeReceipt     MovementType = "receipt"
	MovementTypeConsumption MovementType = "consumption"
)

type ReferenceType string

const (
	ReferenceTypeOrder  ReferenceType = "order"
	ReferenceTypeManual ReferenceType = "manual"
	ReferenceTypeImport ReferenceType = "import"
	ReferenceTypeSystem ReferenceType = "system"
)

// BatchMovement: Parti hareket defteri. Sadece eklenir, asla güncellenmez
// veya silinmez; parti miktar değişimleriyle birebir mutabakat sağlamalıdır.
type BatchMovement struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	BatchID       uint `gorm:"index;not null" json:"batch_id"`
	Batch         InventoryBatch
	MovementType  MovementType    `gorm:"size:20;not null" json:"movement_type"`
	Quantity      decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"quantity"`
	ReferenceType ReferenceType   `gorm:"size:20;not null" json:"reference_type"`
	ReferenceID   *uint           `gorm:"index" json:"reference_id"`
	Notes         string          `gorm:"size:255" json:"notes"`
	CreatedBy     uint            `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}
