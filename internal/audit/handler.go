package audit

import (
	"fmt"

	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuditLogResponse struct {
	ID           uint               `json:"id"`
	CreatedAt    string             `json:"created_at"`
	RestaurantID *uint              `json:"restaurant_id"`
	UserID       uint               `json:"user_id"`
	UserName     string             `json:"user_name"`
	EntityType   string             `json:"entity_type"`
	EntityID     uint               `json:"entity_id"`
	Action       models.AuditAction `json:"action"`
	Description  string             `json:"description"`
}

// GET /api/audit-logs?entity_type=inventory_batch&entity_id=1&restaurant_id=1
func ListAuditLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(auth.CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
		}

		// Restoran filtresini çöz
		var restaurantID *uint
		if role != models.RoleSuperAdmin {
			rVal := c.Locals(auth.CtxRestaurantIDKey)
			rPtr, ok := rVal.(*uint)
			if ok && rPtr != nil {
				restaurantID = rPtr
			}
		} else {
			ridStr := c.Query("restaurant_id")
			if ridStr != "" {
				var rid uint
				if _, err := fmt.Sscan(ridStr, &rid); err == nil && rid > 0 {
					restaurantID = &rid
				}
			}
		}

		dbq := db.Model(&models.AuditLog{})

		if restaurantID != nil {
			dbq = dbq.Where("restaurant_id = ?", *restaurantID)
		}
		if entityType := c.Query("entity_type"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if entityIDStr := c.Query("entity_id"); entityIDStr != "" {
			var eid uint
			if _, err := fmt.Sscan(entityIDStr, &eid); err == nil && eid > 0 {
				dbq = dbq.Where("entity_id = ?", eid)
			}
		}
		if userIDStr := c.Query("user_id"); userIDStr != "" {
			var uid uint
			if _, err := fmt.Sscan(userIDStr, &uid); err == nil && uid > 0 {
				dbq = dbq.Where("user_id = ?", uid)
			}
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at desc").Limit(200).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Loglar listelenemedi")
		}

		res := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			res = append(res, AuditLogResponse{
				ID:           l.ID,
				CreatedAt:    l.CreatedAt.Format("2006-01-02 15:04:05"),
				RestaurantID: l.RestaurantID,
				UserID:       l.UserID,
				UserName:     l.UserName,
				EntityType:   l.EntityType,
				EntityID:     l.EntityID,
				Action:       l.Action,
				Description:  l.Description,
			})
		}
		return c.JSON(res)
	}
}
