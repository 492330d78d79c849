package inventory

import (
	"errors"

	"lokanta-backend/internal/apperrors"
	"lokanta-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConsumedBatch: Bir tüketim çağrısında tek partiden düşülen miktar.
// Sıra, tüketim sırasıdır (en eski parti önce).
type ConsumedBatch struct {
	BatchID          uint            `json:"batch_id"`
	BatchNumber      string          `json:"batch_number"`
	ConsumedQuantity decimal.Decimal `json:"consumed_quantity"`
}

type ConsumeResult struct {
	InventoryItemID uint            `json:"inventory_item_id"`
	TotalConsumed   decimal.Decimal `json:"total_consumed"`
	Batches         []ConsumedBatch `json:"batches"`
}

// Engine: Parti stoğunu personel düzenlemesi dışında azaltabilen tek bileşen.
// Partiler satın alma tarihi sırasıyla (gerçek FIFO, son kullanma tarihinden
// bağımsız) tüketilir; eşitlikte created_at, sonra id belirleyicidir.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Consume: Tek başına çağrılan tüketim; kontrol ve tüm yazmalar tek
// transaction içinde yapılır.
func (e *Engine) Consume(itemID uint, qty decimal.Decimal, refType models.ReferenceType, refID *uint, actorID uint) (*ConsumeResult, error) {
	var result *ConsumeResult
	err := e.db.Transaction(func(tx *gorm.DB) error {
		r, err := e.ConsumeTx(tx, itemID, qty, refType, refID, actorID)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConsumeTx: Açık bir transaction içinde FIFO tüketim. Sipariş hazırlığı gibi
// çok malzemeli akışlar, tüm çağrıları aynı tx ile yapar ki ilk yetersizlikte
// önceki düşüşler de geri alınabilsin. Kendi transaction'ını AÇMAZ.
func (e *Engine) ConsumeTx(tx *gorm.DB, itemID uint, qty decimal.Decimal, refType models.ReferenceType, refID *uint, actorID uint) (*ConsumeResult, error) {
	if qty.Sign() <= 0 {
		return nil, apperrors.BusinessLogic("Tüketim miktarı 0'dan büyük olmalı")
	}

	var item models.InventoryItem
	if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("Stok kalemi bulunamadı (ID: %d)", itemID)
		}
		return nil, apperrors.Database("stok kalemi okunamadı", err)
	}

	// Satırları kilitle: iki eşzamanlı tüketim aynı bayat toplamı görüp
	// ikisi de geçemesin. SQLite yazıcıları zaten serileştirdiği için
	// FOR UPDATE sadece Postgres'te uygulanır.
	q := tx.Where("inventory_item_id = ? AND status = ? AND current_quantity > 0", itemID, models.BatchStatusActive)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var batches []models.InventoryBatch
	if err := q.Order("purchase_date ASC, created_at ASC, id ASC").Find(&batches).Error; err != nil {
		return nil, apperrors.Database("partiler okunamadı", err)
	}

	totalAvailable := decimal.Zero
	for _, b := range batches {
		totalAvailable = totalAvailable.Add(b.CurrentQuantity)
	}
	if totalAvailable.LessThan(qty) {
		return nil, apperrors.BusinessLogicf("Yetersiz stok: %s için %s %s gerekli, %s %s mevcut",
			item.Name, qty.String(), item.Unit, totalAvailable.String(), item.Unit)
	}

	result := &ConsumeResult{InventoryItemID: itemID, TotalConsumed: qty}
	remaining := qty

	for i := range batches {
		if remaining.Sign() == 0 {
			break
		}
		b := &batches[i]

		take := b.CurrentQuantity
		if remaining.LessThan(take) {
			take = remaining
		}
		newQty := b.CurrentQuantity.Sub(take)

		if err := tx.Model(&models.InventoryBatch{}).
			Where("id = ?", b.ID).
			Update("current_quantity", newQty).Error; err != nil {
			return nil, apperrors.Database("parti güncellenemedi", err)
		}

		movement := models.BatchMovement{
			BatchID:       b.ID,
			MovementType:  models.MovementTypeConsumption,
			Quantity:      take,
			ReferenceType: refType,
			ReferenceID:   refID,
			CreatedBy:     actorID,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return nil, apperrors.Database("hareket kaydı oluşturulamadı", err)
		}

		result.Batches = append(result.Batches, ConsumedBatch{
			BatchID:          b.ID,
			BatchNumber:      b.BatchNumber,
			ConsumedQuantity: take,
		})
		remaining = remaining.Sub(take)
	}

	// Denormalize toplamı aynı tx içinde düş, kayma olmasın
	if err := tx.Model(&models.InventoryItem{}).
		Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity - ?", qty)).Error; err != nil {
		return nil, apperrors.Database("stok kalemi toplamı güncellenemedi", err)
	}

	return result, nil
}
