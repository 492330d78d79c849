package admin

import (
	"errors"
	"strconv"

	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateTableHandler: Restorana masa ekler. Masa numarası restoran içinde
// benzersizdir.
func CreateTableHandler(db *gorm.DB) fiber.Handler {
	type tableInput struct {
		Number       int   `json:"number"`
		Capacity     int   `json:"capacity"`
		RestaurantID *uint `json:"restaurant_id"`
	}

	return func(c *fiber.Ctx) error {
		var input tableInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if input.Number <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Masa numarası pozitif olmalı")
		}

		restaurantID, err := auth.ResolveRestaurantID(c, input.RestaurantID)
		if err != nil {
			return err
		}

		var existing int64
		if err := db.Model(&models.DiningTable{}).
			Where("restaurant_id = ? AND number = ?", restaurantID, input.Number).
			Count(&existing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masa kontrolü yapılamadı")
		}
		if existing > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu masa numarası zaten kayıtlı")
		}

		capacity := input.Capacity
		if capacity <= 0 {
			capacity = 4
		}

		table := models.DiningTable{
			RestaurantID: restaurantID,
			Number:       input.Number,
			Capacity:     capacity,
			IsActive:     true,
		}
		if err := db.Create(&table).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masa oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(table)
	}
}

// ListTablesHandler: GET /api/tables?active=true
func ListTablesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var fromQuery *uint
		if ridStr := c.Query("restaurant_id"); ridStr != "" {
			rid, err := strconv.Atoi(ridStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz restaurant_id")
			}
			ridU := uint(rid)
			fromQuery = &ridU
		}

		restaurantID, err := auth.ResolveRestaurantID(c, fromQuery)
		if err != nil {
			return err
		}

		q := db.Where("restaurant_id = ?", restaurantID).Order("number ASC")
		if c.Query("active") == "true" {
			q = q.Where("is_active = ?", true)
		}

		var tables []models.DiningTable
		if err := q.Find(&tables).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masalar okunamadı")
		}

		return c.JSON(tables)
	}
}

// UpdateTableHandler: Kapasite ve aktiflik güncellenir; numara değişmez.
func UpdateTableHandler(db *gorm.DB) fiber.Handler {
	type tableInput struct {
		Capacity *int  `json:"capacity"`
		IsActive *bool `json:"is_active"`
	}

	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz masa ID")
		}

		var table models.DiningTable
		if err := db.First(&table, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Masa bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Masa okunamadı")
		}

		// manager kendi restoranının masasını düzenleyebilir
		roleVal := c.Locals(auth.CtxUserRoleKey)
		if role, ok := roleVal.(models.UserRole); ok && role != models.RoleSuperAdmin {
			restaurantID, err := auth.ResolveRestaurantID(c, nil)
			if err != nil {
				return err
			}
			if table.RestaurantID != restaurantID {
				return fiber.NewError(fiber.StatusForbidden, "Bu masa başka bir restorana ait")
			}
		}

		var input tableInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if input.Capacity != nil {
			if *input.Capacity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Kapasite pozitif olmalı")
			}
			table.Capacity = *input.Capacity
		}
		if input.IsActive != nil {
			table.IsActive = *input.IsActive
		}

		if err := db.Save(&table).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masa güncellenemedi")
		}

		return c.JSON(table)
	}
}
