package inventory

import (
	"errors"
	"time"

	"lokanta-backend/internal/apperrors"
	"lokanta-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BatchStore: InventoryBatch ve BatchMovement üzerinde CRUD/sorgu katmanı.
// Parti miktarları bu katmandan DEĞİŞTİRİLEMEZ; miktar sadece tüketim
// motoru üzerinden azalır, mal kabulüyle artar.
type BatchStore struct {
	db *gorm.DB
}

func NewBatchStore(db *gorm.DB) *BatchStore {
	return &BatchStore{db: db}
}

type CreateBatchInput struct {
	InventoryItemID   uint
	BatchNumber       string
	Unit              string
	InitialQuantity   decimal.Decimal
	PurchasePrice     float64
	SellingPrice      float64
	PurchaseDate      time.Time
	ExpiryDate        *time.Time
	ManufacturingDate *time.Time
	LotNumber         string
	SupplierID        *uint
	Notes             string
	ReferenceType     models.ReferenceType
	CreatedBy         uint
}

// CreateBatch: Mal kabul. Parti kaydı, stok kaleminin denormalize toplam
// artışı ve "receipt" hareketi tek atomik birimdir; kısmi uygulanmış hali
// asla gözlemlenemez.
func (s *BatchStore) CreateBatch(in CreateBatchInput) (*models.InventoryBatch, error) {
	if in.InitialQuantity.Sign() <= 0 {
		return nil, apperrors.BusinessLogic("Başlangıç miktarı 0'dan büyük olmalı")
	}
	if in.BatchNumber == "" {
		return nil, apperrors.BusinessLogic("Parti numarası zorunlu")
	}
	refType := in.ReferenceType
	if refType == "" {
		refType = models.ReferenceTypeManual
	}

	var batch models.InventoryBatch
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item models.InventoryItem
		if err := tx.First(&item, "id = ?", in.InventoryItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("Stok kalemi bulunamadı (ID: %d)", in.InventoryItemID)
			}
			return apperrors.Database("stok kalemi okunamadı", err)
		}

		// Aynı kalem için aynı parti numarası (silinmemişler arasında) tekil.
		// Bu ön kontrol okunur mesaj içindir; eşzamanlı girişlere karşı asıl
		// güvence modeldeki kısmi unique index'tir
		var count int64
		if err := tx.Model(&models.InventoryBatch{}).
			Where("inventory_item_id = ? AND batch_number = ?", in.InventoryItemID, in.BatchNumber).
			Count(&count).Error; err != nil {
			return apperrors.Database("parti numarası kontrol edilemedi", err)
		}
		if count > 0 {
			return apperrors.Conflictf("Bu parti numarası zaten kayıtlı: %s", in.BatchNumber)
		}

		unit := in.Unit
		if unit == "" {
			unit = item.Unit
		}

		batch = models.InventoryBatch{
			InventoryItemID:   in.InventoryItemID,
			BatchNumber:       in.BatchNumber,
			Unit:              unit,
			InitialQuantity:   in.InitialQuantity,
			CurrentQuantity:   in.InitialQuantity,
			PurchasePrice:     in.PurchasePrice,
			SellingPrice:      in.SellingPrice,
			PurchaseDate:      in.PurchaseDate,
			ExpiryDate:        in.ExpiryDate,
			ManufacturingDate: in.ManufacturingDate,
			LotNumber:         in.LotNumber,
			Status:            models.BatchStatusActive,
			SupplierID:        in.SupplierID,
			Notes:             in.Notes,
		}
		if err := tx.Create(&batch).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflictf("Bu parti numarası zaten kayıtlı: %s", in.BatchNumber)
			}
			return apperrors.Database("parti oluşturulamadı", err)
		}

		if err := tx.Model(&models.InventoryItem{}).
			Where("id = ?", item.ID).
			Update("quantity", gorm.Expr("quantity + ?", in.InitialQuantity)).Error; err != nil {
			return apperrors.Database("stok kalemi toplamı güncellenemedi", err)
		}

		movement := models.BatchMovement{
			BatchID:       batch.ID,
			MovementType:  models.MovementTypeReceipt,
			Quantity:      in.InitialQuantity,
			ReferenceType: refType,
			Notes:         "Parti girişi",
			CreatedBy:     in.CreatedBy,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return apperrors.Database("hareket kaydı oluşturulamadı", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// GetBatch: Tek parti; restaurantID verilirse kapsam dışı kayıt NotFound sayılır.
func (s *BatchStore) GetBatch(id uint, restaurantID *uint) (*models.InventoryBatch, error) {
	var batch models.InventoryBatch
	if err := s.db.Preload("InventoryItem").First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("Parti bulunamadı (ID: %d)", id)
		}
		return nil, apperrors.Database("parti okunamadı", err)
	}
	if restaurantID != nil && batch.InventoryItem.RestaurantID != *restaurantID {
		return nil, apperrors.NotFoundf("Parti bulunamadı (ID: %d)", id)
	}
	return &batch, nil
}

type UpdateBatchInput struct {
	Notes        *string
	SellingPrice *float64
	Status       *models.BatchStatus
}

// UpdateBatch: Sadece not, satış fiyatı ve durum değişebilir. Miktar alanları
// bu operasyondan geçmez. restaurantID verilirse kapsam dışı parti
// NotFound sayılır (kısıtlı roller için).
func (s *BatchStore) UpdateBatch(id uint, restaurantID *uint, in UpdateBatchInput) (*models.InventoryBatch, error) {
	batch, err := s.GetBatch(id, restaurantID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if in.SellingPrice != nil {
		updates["selling_price"] = *in.SellingPrice
	}
	if in.Status != nil {
		switch *in.Status {
		case models.BatchStatusActive, models.BatchStatusExpired, models.BatchStatusDamaged:
			updates["status"] = *in.Status
		default:
			return nil, apperrors.BusinessLogicf("Geçersiz parti durumu: %s", *in.Status)
		}
	}
	if len(updates) == 0 {
		return batch, nil
	}

	if err := s.db.Model(batch).Updates(updates).Error; err != nil {
		return nil, apperrors.Database("parti güncellenemedi", err)
	}
	return batch, nil
}

// BatchView: Okuma anında türetilen alanlarla parti projeksiyonu.
type BatchView struct {
	models.InventoryBatch
	InventoryItemName string      `json:"inventory_item_name"`
	AlertStatus       AlertStatus `json:"alert_status"`
	DaysUntilExpiry   *int        `json:"days_until_expiry"`
}

type BatchFilters struct {
	RestaurantID    *uint
	InventoryItemID *uint
	Status          *models.BatchStatus
	OnlyInStock     bool
}

func (s *BatchStore) toViews(batches []models.InventoryBatch, today time.Time) []BatchView {
	views := make([]BatchView, 0, len(batches))
	for _, b := range batches {
		views = append(views, BatchView{
			InventoryBatch:    b,
			InventoryItemName: b.InventoryItem.Name,
			AlertStatus:       DeriveAlertStatus(b, today),
			DaysUntilExpiry:   DaysUntilExpiry(b, today),
		})
	}
	return views
}

func (s *BatchStore) ListBatches(f BatchFilters) ([]BatchView, error) {
	dbq := s.db.Preload("InventoryItem").
		Joins("JOIN inventory_items ON inventory_items.id = inventory_batches.inventory_item_id AND inventory_items.deleted_at IS NULL")

	if f.RestaurantID != nil {
		dbq = dbq.Where("inventory_items.restaurant_id = ?", *f.RestaurantID)
	}
	if f.InventoryItemID != nil {
		dbq = dbq.Where("inventory_batches.inventory_item_id = ?", *f.InventoryItemID)
	}
	if f.Status != nil {
		dbq = dbq.Where("inventory_batches.status = ?", *f.Status)
	}
	if f.OnlyInStock {
		dbq = dbq.Where("inventory_batches.current_quantity > 0")
	}

	var batches []models.InventoryBatch
	if err := dbq.Order("inventory_batches.purchase_date ASC, inventory_batches.id ASC").Find(&batches).Error; err != nil {
		return nil, apperrors.Database("partiler listelenemedi", err)
	}
	return s.toViews(batches, time.Now()), nil
}

func (s *BatchStore) ListBatchesForItem(inventoryItemID uint) ([]BatchView, error) {
	var item models.InventoryItem
	if err := s.db.First(&item, "id = ?", inventoryItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("Stok kalemi bulunamadı (ID: %d)", inventoryItemID)
		}
		return nil, apperrors.Database("stok kalemi okunamadı", err)
	}
	return s.ListBatches(BatchFilters{InventoryItemID: &inventoryItemID})
}

// GetExpiringBatches: Stoğu olan ve son kullanma tarihi [bugün, bugün+daysAhead]
// aralığına düşen partiler.
func (s *BatchStore) GetExpiringBatches(restaurantID uint, daysAhead int) ([]BatchView, error) {
	if daysAhead <= 0 {
		daysAhead = ExpiringSoonDays
	}
	today := truncateToDay(time.Now())
	until := today.AddDate(0, 0, daysAhead+1) // aralık sonu hariç

	var batches []models.InventoryBatch
	err := s.db.Preload("InventoryItem").
		Joins("JOIN inventory_items ON inventory_items.id = inventory_batches.inventory_item_id AND inventory_items.deleted_at IS NULL").
		Where("inventory_items.restaurant_id = ?", restaurantID).
		Where("inventory_batches.current_quantity > 0").
		Where("inventory_batches.expiry_date >= ? AND inventory_batches.expiry_date < ?", today, until).
		Order("inventory_batches.expiry_date ASC").
		Find(&batches).Error
	if err != nil {
		return nil, apperrors.Database("partiler listelenemedi", err)
	}
	return s.toViews(batches, time.Now()), nil
}
