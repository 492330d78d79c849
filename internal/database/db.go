package database

import (
	"fmt"
	"time"

	"lokanta-backend/internal/config"
	"lokanta-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open: Postgres bağlantısını açar ve sağlık kontrolü yapar. Migration ayrı
// bir adımdır (Migrate), açılışta main çağırır. Paket seviyesinde global
// bağlantı tutulmaz; dönen *gorm.DB ana fonksiyonda store/engine
// constructor'larına enjekte edilir.
func Open(cfg *config.Config) (*gorm.DB, error) {
	// TranslateError: unique ihlalleri sürücüden bağımsız gorm.ErrDuplicatedKey
	// olarak gelsin
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("bağlantı havuzu alınamadı: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("veritabanı sağlık kontrolü başarısız: %w", err)
	}

	return db, nil
}

// Close: Uygulama kapanışında bağlantı havuzunu kapatır.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Restaurant{},
		&models.DiningTable{},
		&models.User{},
		&models.Supplier{},
		&models.MenuItem{},
		&models.InventoryItem{},
		&models.InventoryBatch{},
		&models.BatchMovement{},
		&models.Ingredient{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.KitchenAssignment{},
		&models.OrderIngredientConsumption{},
		&models.Invoice{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate hatası: %w", err)
	}
	return nil
}
