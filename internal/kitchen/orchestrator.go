package kitchen

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"lokanta-backend/internal/apperrors"
	"lokanta-backend/internal/inventory"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/notify"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultEstimatedMinutes: Tahmini hazırlık süresi belirtilmezse kullanılır.
const DefaultEstimatedMinutes = 20

// Orchestrator: Siparişin "hazırlanıyor" durumuna geçişini malzeme tüketimiyle
// birleştiren tek giriş noktası. Durum güncellemesi ve TÜM malzemelerin FIFO
// tüketimi tek transaction'dır: herhangi bir malzeme yetersizse sipariş durumu
// değişmez ve aynı çağrıda düşülmüş hiçbir miktar düşülmüş kalmaz.
type Orchestrator struct {
	db       *gorm.DB
	engine   *inventory.Engine
	notifier notify.Notifier
}

func NewOrchestrator(db *gorm.DB, engine *inventory.Engine, notifier notify.Notifier) *Orchestrator {
	return &Orchestrator{db: db, engine: engine, notifier: notifier}
}

// StartPreparation: captain_approved → in_kitchen geçişi.
// Her sipariş satırı reçetesine açılır, her malzeme için
// totalNeeded = reçete miktarı × satır adedi tüketilir. Malzemeler sırayla
// (paralel değil) tüketilir ki ilk yetersizlik önceki düşüşleri de rollback
// edebilsin. Başarıda durum geçişi, durum geçmişi, mutfak ataması ve
// (satır, malzeme) başına parti kırılımlı tüketim denetim kaydı yazılır.
func (o *Orchestrator) StartPreparation(orderID, actorID uint, estimatedMinutes int) (*models.Order, error) {
	if estimatedMinutes <= 0 {
		estimatedMinutes = DefaultEstimatedMinutes
	}

	var order models.Order
	err := o.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Preload("Items.MenuItem").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("Sipariş bulunamadı (ID: %d)", orderID)
			}
			return apperrors.Database("sipariş okunamadı", err)
		}

		if order.Status != models.OrderStatusCaptainApproved {
			return apperrors.BusinessLogicf("Sipariş mutfağa gönderilemez: mevcut durum '%s'", order.Status)
		}

		for _, orderItem := range order.Items {
			var ingredients []models.Ingredient
			if err := tx.Where("menu_item_id = ?", orderItem.MenuItemID).
				Order("id ASC").
				Find(&ingredients).Error; err != nil {
				return apperrors.Database("reçete okunamadı", err)
			}
			// Boş reçete: stok düşümü gerektirmez

			for _, ing := range ingredients {
				totalNeeded := ing.Quantity.Mul(decimal.NewFromInt(int64(orderItem.Quantity)))

				result, err := o.engine.ConsumeTx(tx, ing.InventoryItemID, totalNeeded,
					models.ReferenceTypeOrder, &order.ID, actorID)
				if err != nil {
					var blErr *apperrors.BusinessLogicError
					if errors.As(err, &blErr) {
						var invItem models.InventoryItem
						name := "malzeme"
						if lookErr := tx.Unscoped().First(&invItem, "id = ?", ing.InventoryItemID).Error; lookErr == nil {
							name = invItem.Name
						}
						return apperrors.BusinessLogicf("%s hazırlanamıyor: %s yetersiz", orderItem.MenuItem.Name, name)
					}
					return err
				}

				breakdown, _ := json.Marshal(result.Batches)
				consumption := models.OrderIngredientConsumption{
					OrderID:         order.ID,
					OrderItemID:     orderItem.ID,
					InventoryItemID: ing.InventoryItemID,
					Quantity:        totalNeeded,
					BatchBreakdown:  string(breakdown),
				}
				if err := tx.Create(&consumption).Error; err != nil {
					return apperrors.Database("tüketim kaydı oluşturulamadı", err)
				}
			}
		}

		if err := tx.Model(&order).Update("status", models.OrderStatusInKitchen).Error; err != nil {
			return apperrors.Database("sipariş durumu güncellenemedi", err)
		}

		history := models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: models.OrderStatusCaptainApproved,
			ToStatus:   models.OrderStatusInKitchen,
			ChangedBy:  actorID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return apperrors.Database("durum geçmişi oluşturulamadı", err)
		}

		now := time.Now()
		assignment := models.KitchenAssignment{
			OrderID:          order.ID,
			AssignedTo:       actorID,
			StartedAt:        now,
			EstimatedReadyAt: now.Add(time.Duration(estimatedMinutes) * time.Minute),
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return apperrors.Database("mutfak ataması oluşturulamadı", err)
		}

		order.Status = models.OrderStatusInKitchen
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CompletePreparation: in_kitchen → ready geçişi. Stok kontrolü yapılmaz
// (malzeme zaten düşüldü). Bildirim best-effort'tur: teslimat hatası durum
// geçişini asla geri almaz.
func (o *Orchestrator) CompletePreparation(orderID, actorID uint) (*models.Order, error) {
	var order models.Order
	err := o.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("Sipariş bulunamadı (ID: %d)", orderID)
			}
			return apperrors.Database("sipariş okunamadı", err)
		}

		if order.Status != models.OrderStatusInKitchen {
			return apperrors.BusinessLogicf("Sipariş tamamlanamaz: mevcut durum '%s'", order.Status)
		}

		if err := tx.Model(&order).Update("status", models.OrderStatusReady).Error; err != nil {
			return apperrors.Database("sipariş durumu güncellenemedi", err)
		}

		history := models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: models.OrderStatusInKitchen,
			ToStatus:   models.OrderStatusReady,
			ChangedBy:  actorID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return apperrors.Database("durum geçmişi oluşturulamadı", err)
		}

		now := time.Now()
		if err := tx.Model(&models.KitchenAssignment{}).
			Where("order_id = ? AND completed_at IS NULL", order.ID).
			Update("completed_at", now).Error; err != nil {
			return apperrors.Database("mutfak ataması güncellenemedi", err)
		}

		order.Status = models.OrderStatusReady
		return nil
	})
	if err != nil {
		return nil, err
	}

	if o.notifier != nil {
		if nErr := o.notifier.OrderReady(order.ID, order.TableID, len(order.Items)); nErr != nil {
			log.Printf("[WARN] Sipariş hazır bildirimi gönderilemedi (sipariş %d): %v", order.ID, nErr)
		}
	}

	return &order, nil
}
