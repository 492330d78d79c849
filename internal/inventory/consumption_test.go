package inventory

import (
	"errors"
	"testing"
	"time"

	"lokanta-backend/internal/apperrors"
	"lokanta-backend/internal/models"

	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestConsumeSingleBatchPartial(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)
	engine := NewEngine(db)

	item := createTestItem(t, db, "Domates")
	batch := createTestBatch(t, store, item.ID, "B-001", "10", day(2025, 6, 1), nil)

	result, err := engine.Consume(item.ID, mustDecimal(t, "3"), models.ReferenceTypeManual, nil, 1)
	if err != nil {
		t.Fatal("tüketim başarısız:", err)
	}

	if len(result.Batches) != 1 {
		t.Fatalf("tek parti beklenir, gelen %d", len(result.Batches))
	}
	if !result.Batches[0].ConsumedQuantity.Equal(mustDecimal(t, "3")) {
		t.Errorf("partiden 3 düşülmeli, gelen %s", result.Batches[0].ConsumedQuantity)
	}

	var after models.InventoryBatch
	if err := db.First(&after, batch.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !after.CurrentQuantity.Equal(mustDecimal(t, "7")) {
		t.Errorf("parti kalan 7 olmalı, gelen %s", after.CurrentQuantity)
	}

	var afterItem models.InventoryItem
	if err := db.First(&afterItem, item.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !afterItem.Quantity.Equal(mustDecimal(t, "7")) {
		t.Errorf("denormalize toplam 7 olmalı, gelen %s", afterItem.Quantity)
	}
}

func TestConsumeSpansMultipleBatchesFIFO(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)
	engine := NewEngine(db)

	item := createTestItem(t, db, "Un")
	// Son kullanma tarihi FIFO sırasını ETKİLEMEZ: en yeni partiye en erken
	// tarih verip satın alma sırasının kazandığını doğruluyoruz.
	createTestBatch(t, store, item.ID, "B-OLD", "4", day(2025, 6, 1), datePtr(day(2025, 12, 1)))
	createTestBatch(t, store, item.ID, "B-MID", "5", day(2025, 6, 5), datePtr(day(2025, 11, 1)))
	createTestBatch(t, store, item.ID, "B-NEW", "8", day(2025, 6, 10), datePtr(day(2025, 7, 1)))

	result, err := engine.Consume(item.ID, mustDecimal(t, "7"), models.ReferenceTypeManual, nil, 1)
	if err != nil {
		t.Fatal("tüketim başarısız:", err)
	}

	if len(result.Batches) != 2 {
		t.Fatalf("iki partiden düşülmeli, gelen %d", len(result.Batches))
	}
	if result.Batches[0].BatchNumber != "B-OLD" || !result.Batches[0].ConsumedQuantity.Equal(mustDecimal(t, "4")) {
		t.Errorf("önce B-OLD tamamen tükenmeli: %+v", result.Batches[0])
	}
	if result.Batches[1].BatchNumber != "B-MID" || !result.Batches[1].ConsumedQuantity.Equal(mustDecimal(t, "3")) {
		t.Errorf("kalan 3 B-MID'den düşülmeli: %+v", result.Batches[1])
	}

	var newest models.InventoryBatch
	if err := db.First(&newest, "batch_number = ?", "B-NEW").Error; err != nil {
		t.Fatal(err)
	}
	if !newest.CurrentQuantity.Equal(mustDecimal(t, "8")) {
		t.Errorf("en yeni partiye dokunulmamalı, gelen %s", newest.CurrentQuantity)
	}
}

// Aynı satın alma tarihi ve aynı created_at: sıra id'ye göre belirlenir,
// düşük id önce tükenir.
func TestConsumeTieBreakByID(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	item := createTestItem(t, db, "Mercimek")
	purchase := day(2025, 6, 1)
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	first := models.InventoryBatch{
		InventoryItemID: item.ID,
		BatchNumber:     "B-FIRST",
		InitialQuantity: mustDecimal(t, "10"),
		CurrentQuantity: mustDecimal(t, "10"),
		PurchaseDate:    purchase,
		Status:          models.BatchStatusActive,
		CreatedAt:       created,
	}
	second := models.InventoryBatch{
		InventoryItemID: item.ID,
		BatchNumber:     "B-SECOND",
		InitialQuantity: mustDecimal(t, "10"),
		CurrentQuantity: mustDecimal(t, "10"),
		PurchaseDate:    purchase,
		Status:          models.BatchStatusActive,
		CreatedAt:       created,
	}
	if err := db.Create(&first).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&second).Error; err != nil {
		t.Fatal(err)
	}
	if first.ID >= second.ID {
		t.Fatalf("kurulum hatası: id sırası bekleniyor (%d, %d)", first.ID, second.ID)
	}

	result, err := engine.Consume(item.ID, mustDecimal(t, "3"), models.ReferenceTypeManual, nil, 1)
	if err != nil {
		t.Fatal("tüketim başarısız:", err)
	}

	if len(result.Batches) != 1 || result.Batches[0].BatchID != first.ID {
		t.Fatalf("eşitlikte düşük id'li parti önce tüketilmeli: %+v", result.Batches)
	}

	var afterFirst, afterSecond models.InventoryBatch
	if err := db.First(&afterFirst, first.ID).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.First(&afterSecond, second.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !afterFirst.CurrentQuantity.Equal(mustDecimal(t, "7")) {
		t.Errorf("düşük id'li partiden düşülmeli, kalan %s", afterFirst.CurrentQuantity)
	}
	if !afterSecond.CurrentQuantity.Equal(mustDecimal(t, "10")) {
		t.Errorf("yüksek id'li partiye dokunulmamalı, kalan %s", afterSecond.CurrentQuantity)
	}
}

func TestConsumeInsufficientStockChangesNothing(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)
	engine := NewEngine(db)

	item := createTestItem(t, db, "Peynir")
	createTestBatch(t, store, item.ID, "B-001", "2", day(2025, 6, 1), nil)
	createTestBatch(t, store, item.ID, "B-002", "3", day(2025, 6, 2), nil)

	var beforeBatches []models.InventoryBatch
	if err := db.Order("id ASC").Find(&beforeBatches).Error; err != nil {
		t.Fatal(err)
	}
	var beforeMovements int64
	db.Model(&models.BatchMovement{}).Count(&beforeMovements)

	_, err := engine.Consume(item.ID, mustDecimal(t, "6"), models.ReferenceTypeManual, nil, 1)
	var blErr *apperrors.BusinessLogicError
	if !errors.As(err, &blErr) {
		t.Fatalf("iş kuralı hatası beklenir, gelen %v", err)
	}

	var afterBatches []models.InventoryBatch
	if err := db.Order("id ASC").Find(&afterBatches).Error; err != nil {
		t.Fatal(err)
	}
	for i := range beforeBatches {
		if !beforeBatches[i].CurrentQuantity.Equal(afterBatches[i].CurrentQuantity) {
			t.Errorf("parti %s miktarı değişmemeliydi: %s → %s",
				beforeBatches[i].BatchNumber, beforeBatches[i].CurrentQuantity, afterBatches[i].CurrentQuantity)
		}
	}

	var afterMovements int64
	db.Model(&models.BatchMovement{}).Count(&afterMovements)
	if afterMovements != beforeMovements {
		t.Errorf("başarısız tüketim hareket kaydı bırakmamalı: %d → %d", beforeMovements, afterMovements)
	}
}

func TestConsumeSkipsInactiveAndEmptyBatches(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)
	engine := NewEngine(db)

	item := createTestItem(t, db, "Süt")
	damaged := createTestBatch(t, store, item.ID, "B-DMG", "10", day(2025, 6, 1), nil)
	if err := db.Model(damaged).Update("status", models.BatchStatusDamaged).Error; err != nil {
		t.Fatal(err)
	}
	createTestBatch(t, store, item.ID, "B-OK", "5", day(2025, 6, 2), nil)

	result, err := engine.Consume(item.ID, mustDecimal(t, "4"), models.ReferenceTypeManual, nil, 1)
	if err != nil {
		t.Fatal("tüketim başarısız:", err)
	}
	if len(result.Batches) != 1 || result.Batches[0].BatchNumber != "B-OK" {
		t.Fatalf("sadece aktif partiden düşülmeli: %+v", result.Batches)
	}

	var after models.InventoryBatch
	if err := db.First(&after, damaged.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !after.CurrentQuantity.Equal(mustDecimal(t, "10")) {
		t.Error("hasarlı partiye dokunulmamalı")
	}
}

func TestConsumeExactDepletion(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)
	engine := NewEngine(db)

	item := createTestItem(t, db, "Tuz")
	batch := createTestBatch(t, store, item.ID, "B-001", "5", day(2025, 6, 1), nil)

	if _, err := engine.Consume(item.ID, mustDecimal(t, "5"), models.ReferenceTypeManual, nil, 1); err != nil {
		t.Fatal(err)
	}

	var after models.InventoryBatch
	if err := db.First(&after, batch.ID).Error; err != nil {
		t.Fatal(err)
	}
	if after.CurrentQuantity.Sign() != 0 {
		t.Errorf("parti tamamen tükenmeli, kalan %s", after.CurrentQuantity)
	}
	// Tükenmişlik saklanmaz, okuma anında türetilir
	if got := DeriveAlertStatus(after, time.Now()); got != AlertStatusConsumed {
		t.Errorf("tükenen parti consumed görünmeli, gelen %s", got)
	}

	// Sıfır stokta ikinci tüketim reddedilir
	_, err := engine.Consume(item.ID, mustDecimal(t, "0.001"), models.ReferenceTypeManual, nil, 1)
	var blErr *apperrors.BusinessLogicError
	if !errors.As(err, &blErr) {
		t.Fatalf("iş kuralı hatası beklenir, gelen %v", err)
	}
}

func TestConsumeInvalidInputs(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	item := createTestItem(t, db, "Şeker")

	_, err := engine.Consume(item.ID, decimal.Zero, models.ReferenceTypeManual, nil, 1)
	var blErr *apperrors.BusinessLogicError
	if !errors.As(err, &blErr) {
		t.Errorf("sıfır miktar reddedilmeli, gelen %v", err)
	}

	_, err = engine.Consume(9999, mustDecimal(t, "1"), models.ReferenceTypeManual, nil, 1)
	var nfErr *apperrors.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Errorf("bilinmeyen kalem NotFound dönmeli, gelen %v", err)
	}
}

func TestConsumeWritesMovementLedger(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)
	engine := NewEngine(db)

	item := createTestItem(t, db, "Yağ")
	createTestBatch(t, store, item.ID, "B-001", "3", day(2025, 6, 1), nil)
	createTestBatch(t, store, item.ID, "B-002", "3", day(2025, 6, 2), nil)

	orderID := uint(42)
	if _, err := engine.Consume(item.ID, mustDecimal(t, "5"), models.ReferenceTypeOrder, &orderID, 7); err != nil {
		t.Fatal(err)
	}

	var movements []models.BatchMovement
	if err := db.Where("movement_type = ?", models.MovementTypeConsumption).
		Order("id ASC").Find(&movements).Error; err != nil {
		t.Fatal(err)
	}
	if len(movements) != 2 {
		t.Fatalf("parti başına bir hareket beklenir, gelen %d", len(movements))
	}

	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.Quantity)
		if m.ReferenceType != models.ReferenceTypeOrder || m.ReferenceID == nil || *m.ReferenceID != orderID {
			t.Errorf("hareket sipariş referansı taşımalı: %+v", m)
		}
		if m.CreatedBy != 7 {
			t.Errorf("hareketi yapan kullanıcı kaydedilmeli: %+v", m)
		}
	}
	if !total.Equal(mustDecimal(t, "5")) {
		t.Errorf("hareket toplamı tüketimle eşleşmeli: %s", total)
	}
}

// Parti toplamı ile denormalize toplam aynı tx'te güncellendiği için
// mutabakat korunur.
func TestAggregateStaysReconciledWithBatchSum(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)
	engine := NewEngine(db)

	item := createTestItem(t, db, "Pirinç")
	createTestBatch(t, store, item.ID, "B-001", "10", day(2025, 6, 1), nil)
	createTestBatch(t, store, item.ID, "B-002", "20", day(2025, 6, 2), nil)

	if _, err := engine.Consume(item.ID, mustDecimal(t, "12.5"), models.ReferenceTypeManual, nil, 1); err != nil {
		t.Fatal(err)
	}

	var afterItem models.InventoryItem
	if err := db.First(&afterItem, item.ID).Error; err != nil {
		t.Fatal(err)
	}

	var batches []models.InventoryBatch
	if err := db.Where("inventory_item_id = ?", item.ID).Find(&batches).Error; err != nil {
		t.Fatal(err)
	}
	batchSum := decimal.Zero
	for _, b := range batches {
		batchSum = batchSum.Add(b.CurrentQuantity)
	}

	if !afterItem.Quantity.Equal(batchSum) {
		t.Errorf("denormalize toplam (%s) parti toplamından (%s) sapmış", afterItem.Quantity, batchSum)
	}
}
