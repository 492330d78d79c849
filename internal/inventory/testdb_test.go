package inventory

import (
	"testing"
	"time"

	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB: Bellek içi SQLite. Tek bağlantıya sabitlenir, yoksa her yeni
// bağlantı boş bir veritabanı görür.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatal("test veritabanı açılamadı:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatal("migration başarısız:", err)
	}
	return db
}

func createTestItem(t *testing.T, db *gorm.DB, name string) models.InventoryItem {
	t.Helper()
	item := models.InventoryItem{
		RestaurantID:     1,
		Name:             name,
		Quantity:         decimal.Zero,
		Unit:             "kg",
		ReorderThreshold: decimal.NewFromInt(5),
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatal("stok kalemi oluşturulamadı:", err)
	}
	return item
}

func createTestBatch(t *testing.T, store *BatchStore, itemID uint, number string, qty string, purchaseDate time.Time, expiry *time.Time) *models.InventoryBatch {
	t.Helper()
	batch, err := store.CreateBatch(CreateBatchInput{
		InventoryItemID: itemID,
		BatchNumber:     number,
		InitialQuantity: mustDecimal(t, qty),
		PurchaseDate:    purchaseDate,
		ExpiryDate:      expiry,
		CreatedBy:       1,
	})
	if err != nil {
		t.Fatal("parti oluşturulamadı:", err)
	}
	return batch
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal("geçersiz decimal:", s)
	}
	return d
}

func datePtr(t time.Time) *time.Time {
	return &t
}
