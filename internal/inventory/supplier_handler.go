package inventory

import (
	"strings"

	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateSupplierRequest struct {
	Name         string `json:"name"`
	ContactName  string `json:"contact_name"`
	Phone        string `json:"phone"`
	Description  string `json:"description"`
	RestaurantID *uint  `json:"restaurant_id"` // super_admin için
}

type UpdateSupplierRequest struct {
	Name        *string `json:"name"`
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`
	Description *string `json:"description"`
}

// POST /api/suppliers
func CreateSupplierHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "isim boş olamaz")
		}

		restaurantID, err := auth.ResolveRestaurantID(c, body.RestaurantID)
		if err != nil {
			return err
		}

		supplier := models.Supplier{
			RestaurantID: restaurantID,
			Name:         strings.TrimSpace(body.Name),
			ContactName:  strings.TrimSpace(body.ContactName),
			Phone:        strings.TrimSpace(body.Phone),
			Description:  strings.TrimSpace(body.Description),
		}

		if err := db.Create(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçi kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(supplier)
	}
}

// GET /api/suppliers
func ListSuppliersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.ResolveRestaurantID(c, queryRestaurantID(c))
		if err != nil {
			return err
		}

		var suppliers []models.Supplier
		if err := db.Where("restaurant_id = ?", restaurantID).Order("name asc").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçiler listelenemedi")
		}
		return c.JSON(suppliers)
	}
}

// PUT /api/suppliers/:id
func UpdateSupplierHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var supplier models.Supplier
		if err := db.First(&supplier, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tedarikçi bulunamadı")
		}

		var body UpdateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "isim boş olamaz")
			}
			supplier.Name = name
		}
		if body.ContactName != nil {
			supplier.ContactName = strings.TrimSpace(*body.ContactName)
		}
		if body.Phone != nil {
			supplier.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Description != nil {
			supplier.Description = strings.TrimSpace(*body.Description)
		}

		if err := db.Save(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçi güncellenemedi")
		}
		return c.JSON(supplier)
	}
}
