package inventory

import (
	"time"

	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LowStockItem struct {
	InventoryItemID    uint            `json:"inventory_item_id"`
	Name               string          `json:"name"`
	Unit               string          `json:"unit"`
	AvailableInBatches decimal.Decimal `json:"available_in_batches"`
	ReorderThreshold   decimal.Decimal `json:"reorder_threshold"`
}

type AggregateDrift struct {
	InventoryItemID uint            `json:"inventory_item_id"`
	Name            string          `json:"name"`
	Aggregate       decimal.Decimal `json:"aggregate"`
	BatchSum        decimal.Decimal `json:"batch_sum"`
	Drift           decimal.Decimal `json:"drift"`
}

type StockReport struct {
	ExpiringBatchCount int              `json:"expiring_batch_count"`
	ExpiredBatchCount  int              `json:"expired_batch_count"`
	LowStockItems      []LowStockItem   `json:"low_stock_items"`
	TotalStockValue    float64          `json:"total_stock_value"`
	AggregateDrifts    []AggregateDrift `json:"aggregate_drifts"`
}

// GET /api/inventory/reports/summary
// Mutfak/yönetici panosu: yaklaşan SKT'ler, eşik altı kalemler, parti alım
// fiyatıyla stok değeri ve denormalize toplam ile parti toplamı arasındaki
// kaymalar. Düz satırlar çekilir, toplamlar uygulamada hesaplanır.
func StockReportHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.ResolveRestaurantID(c, queryRestaurantID(c))
		if err != nil {
			return err
		}

		var items []models.InventoryItem
		if err := db.Where("restaurant_id = ?", restaurantID).Order("name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kalemleri okunamadı")
		}

		report := StockReport{
			LowStockItems:   []LowStockItem{},
			AggregateDrifts: []AggregateDrift{},
		}
		today := time.Now()

		for _, item := range items {
			var batches []models.InventoryBatch
			if err := db.Where("inventory_item_id = ?", item.ID).Find(&batches).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Partiler okunamadı")
			}

			batchSum := decimal.Zero
			for _, b := range batches {
				switch DeriveAlertStatus(b, today) {
				case AlertStatusExpiringSoon:
					report.ExpiringBatchCount++
				case AlertStatusExpired:
					if b.CurrentQuantity.Sign() > 0 {
						report.ExpiredBatchCount++
					}
				}
				if b.Status == models.BatchStatusActive && b.CurrentQuantity.Sign() > 0 {
					batchSum = batchSum.Add(b.CurrentQuantity)
					qty, _ := b.CurrentQuantity.Float64()
					report.TotalStockValue += qty * b.PurchasePrice
				}
			}

			if batchSum.LessThan(item.ReorderThreshold) {
				report.LowStockItems = append(report.LowStockItems, LowStockItem{
					InventoryItemID:    item.ID,
					Name:               item.Name,
					Unit:               item.Unit,
					AvailableInBatches: batchSum,
					ReorderThreshold:   item.ReorderThreshold,
				})
			}

			if !item.Quantity.Equal(batchSum) {
				report.AggregateDrifts = append(report.AggregateDrifts, AggregateDrift{
					InventoryItemID: item.ID,
					Name:            item.Name,
					Aggregate:       item.Quantity,
					BatchSum:        batchSum,
					Drift:           item.Quantity.Sub(batchSum),
				})
			}
		}

		return c.JSON(report)
	}
}
