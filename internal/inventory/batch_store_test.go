package inventory

import (
	"errors"
	"testing"
	"time"

	"lokanta-backend/internal/apperrors"
	"lokanta-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestCreateBatchReceipt(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)

	item := createTestItem(t, db, "Domates")
	batch := createTestBatch(t, store, item.ID, "B-001", "12.5", day(2025, 6, 1), nil)

	if !batch.CurrentQuantity.Equal(batch.InitialQuantity) {
		t.Error("yeni parti başlangıç miktarıyla açılmalı")
	}
	if batch.Status != models.BatchStatusActive {
		t.Errorf("yeni parti active olmalı, gelen %s", batch.Status)
	}
	if batch.Unit != "kg" {
		t.Errorf("birim stok kaleminden devralınmalı, gelen %s", batch.Unit)
	}

	var afterItem models.InventoryItem
	if err := db.First(&afterItem, item.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !afterItem.Quantity.Equal(mustDecimal(t, "12.5")) {
		t.Errorf("denormalize toplam artmalı, gelen %s", afterItem.Quantity)
	}

	var movement models.BatchMovement
	if err := db.First(&movement, "batch_id = ?", batch.ID).Error; err != nil {
		t.Fatal("mal kabul hareketi yazılmalı:", err)
	}
	if movement.MovementType != models.MovementTypeReceipt || !movement.Quantity.Equal(mustDecimal(t, "12.5")) {
		t.Errorf("beklenmeyen hareket: %+v", movement)
	}
}

func TestCreateBatchValidation(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)
	item := createTestItem(t, db, "Un")

	_, err := store.CreateBatch(CreateBatchInput{
		InventoryItemID: item.ID,
		BatchNumber:     "B-001",
		InitialQuantity: decimal.Zero,
		PurchaseDate:    day(2025, 6, 1),
	})
	var blErr *apperrors.BusinessLogicError
	if !errors.As(err, &blErr) {
		t.Errorf("sıfır miktar reddedilmeli, gelen %v", err)
	}

	_, err = store.CreateBatch(CreateBatchInput{
		InventoryItemID: 9999,
		BatchNumber:     "B-001",
		InitialQuantity: mustDecimal(t, "1"),
		PurchaseDate:    day(2025, 6, 1),
	})
	var nfErr *apperrors.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Errorf("bilinmeyen kalem NotFound dönmeli, gelen %v", err)
	}
}

func TestCreateBatchDuplicateNumber(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)

	item := createTestItem(t, db, "Peynir")
	other := createTestItem(t, db, "Süt")
	createTestBatch(t, store, item.ID, "B-001", "5", day(2025, 6, 1), nil)

	_, err := store.CreateBatch(CreateBatchInput{
		InventoryItemID: item.ID,
		BatchNumber:     "B-001",
		InitialQuantity: mustDecimal(t, "3"),
		PurchaseDate:    day(2025, 6, 2),
	})
	var cErr *apperrors.ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("aynı kalemde tekrar eden parti numarası Conflict dönmeli, gelen %v", err)
	}

	// Farklı kalemde aynı numara serbest
	if _, err := store.CreateBatch(CreateBatchInput{
		InventoryItemID: other.ID,
		BatchNumber:     "B-001",
		InitialQuantity: mustDecimal(t, "3"),
		PurchaseDate:    day(2025, 6, 2),
	}); err != nil {
		t.Errorf("farklı kalemde aynı numara kabul edilmeli, gelen %v", err)
	}
}

// Ön kontrol atlatılsa bile (eşzamanlı iki giriş gibi) kısmi unique index
// tekrarı engeller; soft-delete edilen parti numarayı serbest bırakır.
func TestDuplicateBatchNumberBlockedByIndex(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)

	item := createTestItem(t, db, "Nohut")
	createTestBatch(t, store, item.ID, "B-001", "5", day(2025, 6, 1), nil)

	dup := models.InventoryBatch{
		InventoryItemID: item.ID,
		BatchNumber:     "B-001",
		InitialQuantity: mustDecimal(t, "3"),
		CurrentQuantity: mustDecimal(t, "3"),
		PurchaseDate:    day(2025, 6, 2),
		Status:          models.BatchStatusActive,
	}
	err := db.Create(&dup).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("doğrudan insert unique index'e takılmalı, gelen %v", err)
	}

	if err := db.Delete(&models.InventoryBatch{},
		"inventory_item_id = ? AND batch_number = ?", item.ID, "B-001").Error; err != nil {
		t.Fatal(err)
	}

	if _, err := store.CreateBatch(CreateBatchInput{
		InventoryItemID: item.ID,
		BatchNumber:     "B-001",
		InitialQuantity: mustDecimal(t, "3"),
		PurchaseDate:    day(2025, 6, 3),
	}); err != nil {
		t.Errorf("silinen parti numarası yeniden kullanılabilmeli, gelen %v", err)
	}
}

func TestUpdateBatchAllowedFieldsOnly(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)

	item := createTestItem(t, db, "Yağ")
	batch := createTestBatch(t, store, item.ID, "B-001", "5", day(2025, 6, 1), nil)

	notes := "soğuk zincir kırıldı"
	status := models.BatchStatusDamaged
	updated, err := store.UpdateBatch(batch.ID, nil, UpdateBatchInput{Notes: &notes, Status: &status})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Notes != notes || updated.Status != models.BatchStatusDamaged {
		t.Errorf("güncelleme uygulanmamış: %+v", updated)
	}
	if !updated.CurrentQuantity.Equal(mustDecimal(t, "5")) {
		t.Error("güncelleme miktara dokunmamalı")
	}

	bad := models.BatchStatusConsumed
	_, err = store.UpdateBatch(batch.ID, nil, UpdateBatchInput{Status: &bad})
	var blErr *apperrors.BusinessLogicError
	if !errors.As(err, &blErr) {
		t.Errorf("consumed elle atanamaz, gelen %v", err)
	}
}

func TestUpdateBatchRestaurantScope(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)

	item := createTestItem(t, db, "Domates") // restaurant 1
	batch := createTestBatch(t, store, item.ID, "B-001", "5", day(2025, 6, 1), nil)

	otherRestaurant := uint(2)
	notes := "x"
	_, err := store.UpdateBatch(batch.ID, &otherRestaurant, UpdateBatchInput{Notes: &notes})
	var nfErr *apperrors.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Errorf("başka restoranın partisi NotFound görünmeli, gelen %v", err)
	}
}

func TestGetExpiringBatchesWindow(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)

	item := createTestItem(t, db, "Süt")
	today := truncateToDay(time.Now())

	createTestBatch(t, store, item.ID, "B-PAST", "5", day(2025, 6, 1), datePtr(today.AddDate(0, 0, -2)))
	createTestBatch(t, store, item.ID, "B-SOON", "5", day(2025, 6, 1), datePtr(today.AddDate(0, 0, 3)))
	createTestBatch(t, store, item.ID, "B-EDGE", "5", day(2025, 6, 1), datePtr(today.AddDate(0, 0, 7)))
	createTestBatch(t, store, item.ID, "B-FAR", "5", day(2025, 6, 1), datePtr(today.AddDate(0, 0, 30)))
	empty := createTestBatch(t, store, item.ID, "B-EMPTY", "5", day(2025, 6, 1), datePtr(today.AddDate(0, 0, 2)))
	if err := db.Model(empty).Update("current_quantity", decimal.Zero).Error; err != nil {
		t.Fatal(err)
	}

	views, err := store.GetExpiringBatches(1, 7)
	if err != nil {
		t.Fatal(err)
	}

	got := map[string]bool{}
	for _, v := range views {
		got[v.BatchNumber] = true
		if v.AlertStatus != AlertStatusExpiringSoon {
			t.Errorf("%s expiring_soon görünmeli, gelen %s", v.BatchNumber, v.AlertStatus)
		}
	}

	if !got["B-SOON"] || !got["B-EDGE"] {
		t.Errorf("pencere içindeki partiler eksik: %v", got)
	}
	if got["B-PAST"] || got["B-FAR"] || got["B-EMPTY"] {
		t.Errorf("pencere dışı veya boş parti listelenmemeli: %v", got)
	}
}

func TestListBatchesFilters(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)

	item := createTestItem(t, db, "Pirinç")
	createTestBatch(t, store, item.ID, "B-NEW", "5", day(2025, 6, 10), nil)
	createTestBatch(t, store, item.ID, "B-OLD", "5", day(2025, 6, 1), nil)
	depleted := createTestBatch(t, store, item.ID, "B-EMPTY", "5", day(2025, 6, 5), nil)
	if err := db.Model(depleted).Update("current_quantity", decimal.Zero).Error; err != nil {
		t.Fatal(err)
	}

	views, err := store.ListBatches(BatchFilters{InventoryItemID: &item.ID, OnlyInStock: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 2 {
		t.Fatalf("stoklu iki parti beklenir, gelen %d", len(views))
	}
	// Satın alma tarihi sırası
	if views[0].BatchNumber != "B-OLD" || views[1].BatchNumber != "B-NEW" {
		t.Errorf("liste satın alma tarihine göre sıralanmalı: %s, %s", views[0].BatchNumber, views[1].BatchNumber)
	}
	if views[0].InventoryItemName != "Pirinç" {
		t.Errorf("kalem adı projeksiyona eklenmiş olmalı, gelen %q", views[0].InventoryItemName)
	}
}
