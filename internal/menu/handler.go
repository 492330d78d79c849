package menu

import (
	"strconv"
	"strings"

	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/inventory"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateMenuItemRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
	RestaurantID *uint   `json:"restaurant_id"` // super_admin için
}

type UpdateMenuItemRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	IsActive    *bool    `json:"is_active"`
}

type SetRecipeRequest struct {
	Ingredients []RecipeLine `json:"ingredients"`
}

type ValidateAvailabilityRequest struct {
	Quantity int `json:"quantity"`
}

type ValidateOrderRequest struct {
	Lines []inventory.OrderLine `json:"lines"`
}

// POST /api/menu-items
func CreateMenuItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.Price <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu, price 0'dan büyük olmalı")
		}

		restaurantID, err := auth.ResolveRestaurantID(c, body.RestaurantID)
		if err != nil {
			return err
		}

		item := models.MenuItem{
			RestaurantID: restaurantID,
			Name:         body.Name,
			Category:     strings.TrimSpace(body.Category),
			Price:        body.Price,
			Description:  body.Description,
			IsActive:     true,
		}

		if err := db.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü kalemi oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// GET /api/menu-items?category=ana+yemek
func ListMenuItemsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.ResolveRestaurantID(c, queryRestaurantID(c))
		if err != nil {
			return err
		}

		dbq := db.Where("restaurant_id = ?", restaurantID)
		if category := c.Query("category"); category != "" {
			dbq = dbq.Where("category = ?", category)
		}
		if c.Query("active") == "true" {
			dbq = dbq.Where("is_active = ?", true)
		}

		var items []models.MenuItem
		if err := dbq.Order("category asc, name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü listelenemedi")
		}
		return c.JSON(items)
	}
}

// PUT /api/menu-items/:id
func UpdateMenuItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var item models.MenuItem
		if err := db.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Menü kalemi bulunamadı")
		}

		var body UpdateMenuItemRequest
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
		if body.Category != nil {
			item.Category = strings.TrimSpace(*body.Category)
		}
		if body.Price != nil {
			if *body.Price <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Price 0'dan büyük olmalı")
			}
			item.Price = *body.Price
		}
		if body.Description != nil {
			item.Description = *body.Description
		}
		if body.IsActive != nil {
			item.IsActive = *body.IsActive
		}

		if err := db.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü kalemi güncellenemedi")
		}
		return c.JSON(item)
	}
}

// DELETE /api/menu-items/:id (soft delete)
func DeleteMenuItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := db.Delete(&models.MenuItem{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü kalemi silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/menu-items/:id/recipe
func GetRecipeHandler(registry *Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz menü kalemi ID")
		}

		ingredients, err := registry.GetRecipe(uint(id))
		if err != nil {
			return err
		}
		return c.JSON(ingredients)
	}
}

// PUT /api/menu-items/:id/recipe
func SetRecipeHandler(registry *Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz menü kalemi ID")
		}

		var body SetRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		restaurantID, err := auth.ResolveRestaurantID(c, queryRestaurantID(c))
		if err != nil {
			return err
		}

		saved, err := registry.SetRecipe(uint(id), restaurantID, body.Ingredients)
		if err != nil {
			return err
		}
		return c.JSON(saved)
	}
}

// GET /api/menu-items/:id/availability
func GetAvailabilityHandler(evaluator *inventory.Evaluator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz menü kalemi ID")
		}

		result, err := evaluator.GetAvailabilityForItem(uint(id))
		if err != nil {
			return err
		}
		return c.JSON(result)
	}
}

// POST /api/menu-items/:id/validate-availability
func ValidateAvailabilityHandler(evaluator *inventory.Evaluator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz menü kalemi ID")
		}

		var body ValidateAvailabilityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		result, err := evaluator.ValidateAvailability(uint(id), body.Quantity)
		if err != nil {
			return err
		}
		return c.JSON(result)
	}
}

// POST /api/orders/validate-availability
// Sepet/ön kontrol: kesin karar sipariş hazırlığındaki atomik tüketimdedir.
func ValidateOrderAvailabilityHandler(evaluator *inventory.Evaluator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ValidateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if len(body.Lines) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "En az bir satır gerekli")
		}

		result, err := evaluator.ValidateMultiple(body.Lines)
		if err != nil {
			return err
		}
		return c.JSON(result)
	}
}

func queryRestaurantID(c *fiber.Ctx) *uint {
	ridStr := c.Query("restaurant_id")
	if ridStr == "" {
		return nil
	}
	rid, err := strconv.ParseUint(ridStr, 10, 32)
	if err != nil || rid == 0 {
		return nil
	}
	id := uint(rid)
	return &id
}
