package admin

import (
	"strconv"

	"lokanta-backend/internal/audit"
	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var staffRoles = map[models.UserRole]bool{
	models.RoleManager: true,
	models.RoleCaptain: true,
	models.RoleKitchen: true,
	models.RoleCashier: true,
	models.RoleWaiter:  true,
}

// CreateStaffHandler: Restoran personeli oluşturur. super_admin herhangi bir
// restorana, manager sadece kendi restoranına personel ekleyebilir.
// super_admin rolü bu uçtan ASLA verilemez.
func CreateStaffHandler(db *gorm.DB) fiber.Handler {
	type staffInput struct {
		Name         string          `json:"name"`
		Email        string          `json:"email"`
		Password     string          `json:"password"`
		Role         models.UserRole `json:"role"`
		RestaurantID *uint           `json:"restaurant_id"`
	}

	return func(c *fiber.Ctx) error {
		var input staffInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if input.Name == "" || input.Email == "" || input.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name, email ve password zorunlu")
		}
		if len(input.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "Şifre en az 8 karakter olmalı")
		}
		if !staffRoles[input.Role] {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz rol: "+string(input.Role))
		}

		restaurantID, err := auth.ResolveRestaurantID(c, input.RestaurantID)
		if err != nil {
			return err
		}

		var restaurant models.Restaurant
		if err := db.First(&restaurant, "id = ?", restaurantID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Restoran bulunamadı")
		}

		var existing int64
		if err := db.Model(&models.User{}).Where("email = ?", input.Email).Count(&existing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "E-posta kontrolü yapılamadı")
		}
		if existing > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu e-posta zaten kayıtlı")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre işlenemedi")
		}

		user := models.User{
			RestaurantID: &restaurantID,
			Name:         input.Name,
			Email:        input.Email,
			PasswordHash: string(hash),
			Role:         input.Role,
		}
		if err := db.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		if userID, uErr := auth.CurrentUserID(c); uErr == nil {
			_ = audit.WriteLog(db, audit.LogOptions{
				RestaurantID: &restaurantID,
				UserID:       userID,
				EntityType:   "user",
				EntityID:     user.ID,
				Action:       models.AuditActionCreate,
				Description:  "Personel oluşturuldu: " + user.Name + " (" + string(user.Role) + ")",
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"role":          user.Role,
			"restaurant_id": user.RestaurantID,
		})
	}
}

// ListStaffHandler: Restoranın personel listesi, şifre hash'i dönülmez.
func ListStaffHandler(db *gorm.DB) fiber.Handler {
	type staffView struct {
		ID           uint            `json:"id"`
		Name         string          `json:"name"`
		Email        string          `json:"email"`
		Role         models.UserRole `json:"role"`
		RestaurantID *uint           `json:"restaurant_id"`
	}

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

		var users []models.User
		if err := db.Where("restaurant_id = ?", restaurantID).Order("id ASC").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel listesi okunamadı")
		}

		views := make([]staffView, 0, len(users))
		for _, u := range users {
			views = append(views, staffView{
				ID:           u.ID,
				Name:         u.Name,
				Email:        u.Email,
				Role:         u.Role,
				RestaurantID: u.RestaurantID,
			})
		}

		return c.JSON(views)
	}
}
