package inventory

import (
	"fmt"
	"strings"

	"lokanta-backend/internal/audit"
	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateInventoryItemRequest struct {
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	ReorderThreshold decimal.Decimal `json:"reorder_threshold"`
	UnitPrice        float64         `json:"unit_price"`
	Currency         string          `json:"currency"`
	RestaurantID     *uint           `json:"restaurant_id"` // super_admin için
}

type UpdateInventoryItemRequest struct {
	Name             *string          `json:"name"`
	Unit             *string          `json:"unit"`
	ReorderThreshold *decimal.Decimal `json:"reorder_threshold"`
	UnitPrice        *float64         `json:"unit_price"`
}

type InventoryItemResponse struct {
	ID               uint            `json:"id"`
	RestaurantID     uint            `json:"restaurant_id"`
	Name             string          `json:"name"`
	Quantity         decimal.Decimal `json:"quantity"`
	Unit             string          `json:"unit"`
	ReorderThreshold decimal.Decimal `json:"reorder_threshold"`
	UnitPrice        float64         `json:"unit_price"`
	Currency         string          `json:"currency"`
}

func toItemResponse(item models.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:               item.ID,
		RestaurantID:     item.RestaurantID,
		Name:             item.Name,
		Quantity:         item.Quantity,
		Unit:             item.Unit,
		ReorderThreshold: item.ReorderThreshold,
		UnitPrice:        item.UnitPrice,
		Currency:         item.Currency,
	}
}

// POST /api/inventory-items
func CreateInventoryItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInventoryItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Unit = strings.TrimSpace(body.Unit)
		if body.Name == "" || body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name ve unit zorunlu")
		}

		restaurantID, err := auth.ResolveRestaurantID(c, body.RestaurantID)
		if err != nil {
			return err
		}

		currency := body.Currency
		if currency == "" {
			currency = "TRY"
		}

		item := models.InventoryItem{
			RestaurantID:     restaurantID,
			Name:             body.Name,
			Quantity:         decimal.Zero,
			Unit:             body.Unit,
			ReorderThreshold: body.ReorderThreshold,
			UnitPrice:        body.UnitPrice,
			Currency:         currency,
		}

		if err := db.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kalemi oluşturulamadı")
		}

		if userID, uErr := auth.CurrentUserID(c); uErr == nil {
			_ = audit.WriteLog(db, audit.LogOptions{
				RestaurantID: &restaurantID,
				UserID:       userID,
				EntityType:   "inventory_item",
				EntityID:     item.ID,
				Action:       models.AuditActionCreate,
				Description:  fmt.Sprintf("Stok kalemi eklendi: %s", item.Name),
				After:        item,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toItemResponse(item))
	}
}

// GET /api/inventory-items
func ListInventoryItemsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.ResolveRestaurantID(c, queryRestaurantID(c))
		if err != nil {
			return err
		}

		var items []models.InventoryItem
		if err := db.Where("restaurant_id = ?", restaurantID).Order("name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kalemleri listelenemedi")
		}

		res := make([]InventoryItemResponse, 0, len(items))
		for _, item := range items {
			res = append(res, toItemResponse(item))
		}
		return c.JSON(res)
	}
}

// PUT /api/inventory-items/:id
func UpdateInventoryItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var item models.InventoryItem
		if err := db.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stok kalemi bulunamadı")
		}

		var body UpdateInventoryItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			item.Name = name
		}
		if body.Unit != nil {
			unit := strings.TrimSpace(*body.Unit)
			if unit == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Unit boş olamaz")
			}
			item.Unit = unit
		}
		if body.ReorderThreshold != nil {
			item.ReorderThreshold = *body.ReorderThreshold
		}
		if body.UnitPrice != nil {
			item.UnitPrice = *body.UnitPrice
		}

		if err := db.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kalemi güncellenemedi")
		}

		return c.JSON(toItemResponse(item))
	}
}

// DELETE /api/inventory-items/:id (soft delete; partiler referans verdiği
// sürece fiziksel silme yok)
func DeleteInventoryItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := db.Delete(&models.InventoryItem{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kalemi silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func queryRestaurantID(c *fiber.Ctx) *uint {
	ridStr := c.Query("restaurant_id")
	if ridStr == "" {
		return nil
	}
	var rid uint
	if _, err := fmt.Sscan(ridStr, &rid); err != nil || rid == 0 {
		return nil
	}
	return &rid
}
