package admin

import (
	"errors"
	"strconv"

	"lokanta-backend/internal/audit"
	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateRestaurantHandler: Sadece super_admin. Yeni restoran açar.
func CreateRestaurantHandler(db *gorm.DB) fiber.Handler {
	type restaurantInput struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
	}

	return func(c *fiber.Ctx) error {
		var input restaurantInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if input.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Restoran adı zorunlu")
		}

		restaurant := models.Restaurant{
			Name:    input.Name,
			Address: input.Address,
			Phone:   input.Phone,
		}
		if err := db.Create(&restaurant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Restoran oluşturulamadı")
		}

		if userID, uErr := auth.CurrentUserID(c); uErr == nil {
			_ = audit.WriteLog(db, audit.LogOptions{
				UserID:      userID,
				EntityType:  "restaurant",
				EntityID:    restaurant.ID,
				Action:      models.AuditActionCreate,
				Description: "Restoran oluşturuldu: " + restaurant.Name,
				After:       restaurant,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(restaurant)
	}
}

func ListRestaurantsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var restaurants []models.Restaurant
		if err := db.Order("id ASC").Find(&restaurants).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Restoranlar okunamadı")
		}
		return c.JSON(restaurants)
	}
}

func UpdateRestaurantHandler(db *gorm.DB) fiber.Handler {
	type restaurantInput struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
	}

	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz restoran ID")
		}

		var restaurant models.Restaurant
		if err := db.First(&restaurant, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Restoran bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Restoran okunamadı")
		}
		before := restaurant

		var input restaurantInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if input.Name != "" {
			restaurant.Name = input.Name
		}
		if input.Address != "" {
			restaurant.Address = input.Address
		}
		if input.Phone != "" {
			restaurant.Phone = input.Phone
		}

		if err := db.Save(&restaurant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Restoran güncellenemedi")
		}

		if userID, uErr := auth.CurrentUserID(c); uErr == nil {
			_ = audit.WriteLog(db, audit.LogOptions{
				UserID:      userID,
				EntityType:  "restaurant",
				EntityID:    restaurant.ID,
				Action:      models.AuditActionUpdate,
				Description: "Restoran güncellendi: " + restaurant.Name,
				Before:      before,
				After:       restaurant,
			})
		}

		return c.JSON(restaurant)
	}
}
