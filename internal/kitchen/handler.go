package kitchen

import (
	"strconv"

	"lokanta-backend/internal/audit"
	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StartPreparationHandler: Siparişi mutfağa alır ve reçetedeki tüm
// malzemeleri FIFO olarak düşer. Yetersiz stokta 422 döner, hiçbir şey değişmez.
func StartPreparationHandler(orch *Orchestrator, db *gorm.DB) fiber.Handler {
	type startInput struct {
		EstimatedMinutes int `json:"estimated_minutes"`
	}

	return func(c *fiber.Ctx) error {
		orderID, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}

		var input startInput
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&input); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
			}
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		order, err := orch.StartPreparation(uint(orderID), userID, input.EstimatedMinutes)
		if err != nil {
			return err
		}

		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: "Sipariş mutfağa alındı: " + order.OrderNumber,
			After:       order,
		})

		return c.JSON(fiber.Map{
			"message": "Sipariş mutfağa alındı",
			"order":   order,
		})
	}
}

// CompletePreparationHandler: in_kitchen → ready.
func CompletePreparationHandler(orch *Orchestrator, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		order, err := orch.CompletePreparation(uint(orderID), userID)
		if err != nil {
			return err
		}

		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: "Sipariş hazır: " + order.OrderNumber,
			After:       order,
		})

		return c.JSON(fiber.Map{
			"message": "Sipariş hazır",
			"order":   order,
		})
	}
}

// KitchenQueueHandler: Mutfaktaki aktif siparişleri, atama bilgisiyle listeler.
func KitchenQueueHandler(db *gorm.DB) fiber.Handler {
	type queueEntry struct {
		Order      models.Order              `json:"order"`
		Assignment *models.KitchenAssignment `json:"assignment"`
	}

	return func(c *fiber.Ctx) error {
		q := db.Preload("Items").Preload("Items.MenuItem").Preload("Table").
			Where("status = ?", models.OrderStatusInKitchen).
			Order("created_at ASC")

		// super_admin tüm restoranları görür, diğer roller kendi restoranını
		roleVal := c.Locals(auth.CtxUserRoleKey)
		if role, ok := roleVal.(models.UserRole); ok && role != models.RoleSuperAdmin {
			restaurantID, err := auth.ResolveRestaurantID(c, nil)
			if err != nil {
				return err
			}
			q = q.Where("restaurant_id = ?", restaurantID)
		}

		var orders []models.Order
		if err := q.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mutfak kuyruğu okunamadı")
		}

		entries := make([]queueEntry, 0, len(orders))
		for _, order := range orders {
			entry := queueEntry{Order: order}
			var assignment models.KitchenAssignment
			if err := db.Where("order_id = ? AND completed_at IS NULL", order.ID).
				Order("id DESC").First(&assignment).Error; err == nil {
				entry.Assignment = &assignment
			}
			entries = append(entries, entry)
		}

		return c.JSON(entries)
	}
}

// OrderConsumptionHandler: Bir siparişin malzeme tüketim kırılımı.
func OrderConsumptionHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}

		var consumptions []models.OrderIngredientConsumption
		if err := db.Where("order_id = ?", orderID).
			Order("id ASC").Find(&consumptions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tüketim kayıtları okunamadı")
		}

		return c.JSON(consumptions)
	}
}
