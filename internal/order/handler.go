package order

import (
	"errors"
	"fmt"
	"strconv"

	"lokanta-backend/internal/apperrors"
	"lokanta-backend/internal/audit"
	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderItemInput struct {
	MenuItemID          uint   `json:"menu_item_id"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions"`
}

type createOrderInput struct {
	TableID      uint             `json:"table_id"`
	RestaurantID *uint            `json:"restaurant_id"`
	Note         string           `json:"note"`
	Items        []orderItemInput `json:"items"`
}

// CreateOrderHandler: Garson masaya yeni sipariş açar. Sipariş 'pending'
// durumunda doğar; stok bu aşamada düşülmez. Birim fiyat sipariş anında
// menüden kopyalanır, sonraki fiyat değişiklikleri eski siparişleri etkilemez.
func CreateOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input createOrderInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if input.TableID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "table_id zorunlu")
		}
		if len(input.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sipariş en az bir kalem içermeli")
		}

		restaurantID, err := auth.ResolveRestaurantID(c, input.RestaurantID)
		if err != nil {
			return err
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var order models.Order
		err = db.Transaction(func(tx *gorm.DB) error {
			var table models.DiningTable
			if err := tx.First(&table, "id = ? AND restaurant_id = ?", input.TableID, restaurantID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFoundf("Masa bulunamadı (ID: %d)", input.TableID)
				}
				return apperrors.Database("masa okunamadı", err)
			}

			order = models.Order{
				RestaurantID: restaurantID,
				TableID:      table.ID,
				OrderNumber:  uuid.NewString(),
				WaiterID:     userID,
				Status:       models.OrderStatusPending,
				Note:         input.Note,
			}
			if err := tx.Create(&order).Error; err != nil {
				return apperrors.Database("sipariş oluşturulamadı", err)
			}

			for _, item := range input.Items {
				if item.Quantity <= 0 {
					return apperrors.BusinessLogicf("Geçersiz adet: menü kalemi %d için %d", item.MenuItemID, item.Quantity)
				}

				var menuItem models.MenuItem
				if err := tx.First(&menuItem, "id = ? AND restaurant_id = ?", item.MenuItemID, restaurantID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperrors.NotFoundf("Menü kalemi bulunamadı (ID: %d)", item.MenuItemID)
					}
					return apperrors.Database("menü kalemi okunamadı", err)
				}
				if !menuItem.IsActive {
					return apperrors.BusinessLogicf("'%s' şu anda satışta değil", menuItem.Name)
				}

				orderItem := models.OrderItem{
					OrderID:             order.ID,
					MenuItemID:          menuItem.ID,
					Quantity:            item.Quantity,
					UnitPrice:           menuItem.Price,
					SpecialInstructions: item.SpecialInstructions,
				}
				if err := tx.Create(&orderItem).Error; err != nil {
					return apperrors.Database("sipariş kalemi oluşturulamadı", err)
				}
			}

			history := models.OrderStatusHistory{
				OrderID:   order.ID,
				ToStatus:  models.OrderStatusPending,
				ChangedBy: userID,
			}
			if err := tx.Create(&history).Error; err != nil {
				return apperrors.Database("durum geçmişi oluşturulamadı", err)
			}

			return nil
		})
		if err != nil {
			return err
		}

		if err := db.Preload("Items").Preload("Items.MenuItem").First(&order, order.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş okunamadı")
		}

		_ = audit.WriteLog(db, audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			EntityType:   "order",
			EntityID:     order.ID,
			Action:       models.AuditActionCreate,
			Description:  fmt.Sprintf("Sipariş oluşturuldu: %s (masa %d)", order.OrderNumber, order.TableID),
			After:        order,
		})

		return c.Status(fiber.StatusCreated).JSON(order)
	}
}

// transitionOrder: Basit (stok içermeyen) durum geçişlerinin ortak yolu.
// captain_approved → in_kitchen geçişi burada DEĞİL, kitchen.Orchestrator'da
// yapılır çünkü o geçiş stok tüketimiyle atomiktir.
func transitionOrder(db *gorm.DB, orderID, actorID uint, from, to models.OrderStatus, note string) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("Sipariş bulunamadı (ID: %d)", orderID)
			}
			return apperrors.Database("sipariş okunamadı", err)
		}

		if order.Status != from {
			return apperrors.BusinessLogicf("Sipariş '%s' durumundan '%s' durumuna geçemez (mevcut: '%s')", from, to, order.Status)
		}

		if err := tx.Model(&order).Update("status", to).Error; err != nil {
			return apperrors.Database("sipariş durumu güncellenemedi", err)
		}

		history := models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: from,
			ToStatus:   to,
			ChangedBy:  actorID,
			Note:       note,
		}
		if err := tx.Create(&history).Error; err != nil {
			return apperrors.Database("durum geçmişi oluşturulamadı", err)
		}

		order.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ApproveOrderHandler: Kaptan onayı, pending → captain_approved.
func ApproveOrderHandler(db *gorm.DB) fiber.Handler {
	return statusHandler(db, models.OrderStatusPending, models.OrderStatusCaptainApproved, "Sipariş onaylandı")
}

// ServeOrderHandler: ready → served, garson masaya götürdü.
func ServeOrderHandler(db *gorm.DB) fiber.Handler {
	return statusHandler(db, models.OrderStatusReady, models.OrderStatusServed, "Sipariş servis edildi")
}

func statusHandler(db *gorm.DB, from, to models.OrderStatus, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		order, err := transitionOrder(db, uint(orderID), userID, from, to, "")
		if err != nil {
			return err
		}

		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: message + ": " + order.OrderNumber,
			After:       order,
		})

		return c.JSON(fiber.Map{
			"message": message,
			"order":   order,
		})
	}
}

// CancelOrderHandler: pending veya captain_approved sipariş iptal edilir.
// Mutfağa girmiş (stok düşmüş) sipariş bu uçtan iptal edilemez.
func CancelOrderHandler(db *gorm.DB) fiber.Handler {
	type cancelInput struct {
		Reason string `json:"reason"`
	}

	return func(c *fiber.Ctx) error {
		orderID, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}

		var input cancelInput
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&input); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
			}
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var order models.Order
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFoundf("Sipariş bulunamadı (ID: %d)", orderID)
				}
				return apperrors.Database("sipariş okunamadı", err)
			}

			if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusCaptainApproved {
				return apperrors.BusinessLogicf("Sipariş iptal edilemez: mevcut durum '%s'", order.Status)
			}

			fromStatus := order.Status
			if err := tx.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
				return apperrors.Database("sipariş durumu güncellenemedi", err)
			}

			history := models.OrderStatusHistory{
				OrderID:    order.ID,
				FromStatus: fromStatus,
				ToStatus:   models.OrderStatusCancelled,
				ChangedBy:  userID,
				Note:       input.Reason,
			}
			if err := tx.Create(&history).Error; err != nil {
				return apperrors.Database("durum geçmişi oluşturulamadı", err)
			}

			order.Status = models.OrderStatusCancelled
			return nil
		})
		if err != nil {
			return err
		}

		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: "Sipariş iptal edildi: " + order.OrderNumber,
			After:       order,
		})

		return c.JSON(fiber.Map{
			"message": "Sipariş iptal edildi",
			"order":   order,
		})
	}
}

// ListOrdersHandler: GET /api/orders?status=pending&table_id=4
func ListOrdersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := db.Preload("Items").Preload("Items.MenuItem").Preload("Table").
			Order("created_at DESC")

		roleVal := c.Locals(auth.CtxUserRoleKey)
		if role, ok := roleVal.(models.UserRole); ok && role != models.RoleSuperAdmin {
			restaurantID, err := auth.ResolveRestaurantID(c, nil)
			if err != nil {
				return err
			}
			q = q.Where("restaurant_id = ?", restaurantID)
		} else if ridStr := c.Query("restaurant_id"); ridStr != "" {
			rid, err := strconv.Atoi(ridStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz restaurant_id")
			}
			q = q.Where("restaurant_id = ?", rid)
		}

		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		if tableIDStr := c.Query("table_id"); tableIDStr != "" {
			tableID, err := strconv.Atoi(tableIDStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz table_id")
			}
			q = q.Where("table_id = ?", tableID)
		}

		var orders []models.Order
		if err := q.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler okunamadı")
		}

		return c.JSON(orders)
	}
}

// GetOrderHandler: Tek sipariş, kalemleri ve durum geçmişiyle birlikte.
func GetOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
		}

		var order models.Order
		if err := db.Preload("Items").Preload("Items.MenuItem").Preload("Table").
			First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş okunamadı")
		}

		var history []models.OrderStatusHistory
		if err := db.Where("order_id = ?", order.ID).Order("id ASC").Find(&history).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Durum geçmişi okunamadı")
		}

		return c.JSON(fiber.Map{
			"order":   order,
			"history": history,
		})
	}
}
