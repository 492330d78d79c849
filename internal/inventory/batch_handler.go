package inventory

import (
	"fmt"
	"strconv"
	"time"

	"lokanta-backend/internal/apperrors"
	"lokanta-backend/internal/audit"
	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateBatchRequest struct {
	InventoryItemID   uint            `json:"inventory_item_id"`
	BatchNumber       string          `json:"batch_number"`
	Unit              string          `json:"unit"`
	InitialQuantity   decimal.Decimal `json:"initial_quantity"`
	PurchasePrice     float64         `json:"purchase_price"`
	SellingPrice      float64         `json:"selling_price"`
	PurchaseDate      string          `json:"purchase_date"`      // "2025-12-09"
	ExpiryDate        string          `json:"expiry_date"`        // opsiyonel
	ManufacturingDate string          `json:"manufacturing_date"` // opsiyonel
	LotNumber         string          `json:"lot_number"`
	SupplierID        *uint           `json:"supplier_id"`
	Notes             string          `json:"notes"`
}

type UpdateBatchRequest struct {
	Notes        *string             `json:"notes"`
	SellingPrice *float64            `json:"selling_price"`
	Status       *models.BatchStatus `json:"status"`
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("tarih formatı 'YYYY-MM-DD' olmalı: %s", s)
	}
	return &d, nil
}

// POST /api/inventory-batches
func CreateBatchHandler(store *BatchStore, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBatchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.InventoryItemID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "inventory_item_id zorunlu")
		}

		purchaseDate, err := parseDate(body.PurchaseDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if purchaseDate == nil {
			now := time.Now()
			purchaseDate = &now
		}
		expiryDate, err := parseDate(body.ExpiryDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		mfgDate, err := parseDate(body.ManufacturingDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		batch, err := store.CreateBatch(CreateBatchInput{
			InventoryItemID:   body.InventoryItemID,
			BatchNumber:       body.BatchNumber,
			Unit:              body.Unit,
			InitialQuantity:   body.InitialQuantity,
			PurchasePrice:     body.PurchasePrice,
			SellingPrice:      body.SellingPrice,
			PurchaseDate:      *purchaseDate,
			ExpiryDate:        expiryDate,
			ManufacturingDate: mfgDate,
			LotNumber:         body.LotNumber,
			SupplierID:        body.SupplierID,
			Notes:             body.Notes,
			CreatedBy:         userID,
		})
		if err != nil {
			return err
		}

		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			EntityType:  "inventory_batch",
			EntityID:    batch.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Parti girişi: %s (%s)", batch.BatchNumber, batch.InitialQuantity.String()),
			After:       batch,
		})

		return c.Status(fiber.StatusCreated).JSON(batch)
	}
}

// PUT /api/inventory-batches/:id
func UpdateBatchHandler(store *BatchStore, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz parti ID")
		}

		var body UpdateBatchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		// super_admin tüm restoranları düzenleyebilir, diğer roller kendi
		// restoranının partileriyle sınırlıdır
		var scope *uint
		roleVal := c.Locals(auth.CtxUserRoleKey)
		if role, ok := roleVal.(models.UserRole); ok && role != models.RoleSuperAdmin {
			rid, err := auth.ResolveRestaurantID(c, nil)
			if err != nil {
				return err
			}
			scope = &rid
		}

		before, _ := store.GetBatch(uint(id), scope)

		batch, err := store.UpdateBatch(uint(id), scope, UpdateBatchInput{
			Notes:        body.Notes,
			SellingPrice: body.SellingPrice,
			Status:       body.Status,
		})
		if err != nil {
			return err
		}

		if userID, uErr := auth.CurrentUserID(c); uErr == nil {
			_ = audit.WriteLog(db, audit.LogOptions{
				UserID:      userID,
				EntityType:  "inventory_batch",
				EntityID:    batch.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Parti güncellendi: %s", batch.BatchNumber),
				Before:      before,
				After:       batch,
			})
		}

		return c.JSON(batch)
	}
}

// GET /api/inventory-batches?inventory_item_id=3&status=active&in_stock=true
func ListBatchesHandler(store *BatchStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filters := BatchFilters{}

		restaurantID, err := auth.ResolveRestaurantID(c, queryRestaurantID(c))
		if err != nil {
			return err
		}
		filters.RestaurantID = &restaurantID

		if itemIDStr := c.Query("inventory_item_id"); itemIDStr != "" {
			itemID, err := strconv.ParseUint(itemIDStr, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz inventory_item_id")
			}
			id := uint(itemID)
			filters.InventoryItemID = &id
		}
		if statusStr := c.Query("status"); statusStr != "" {
			status := models.BatchStatus(statusStr)
			filters.Status = &status
		}
		filters.OnlyInStock = c.Query("in_stock") == "true"

		views, err := store.ListBatches(filters)
		if err != nil {
			return err
		}
		return c.JSON(views)
	}
}

// GET /api/inventory-items/:id/batches
func ListBatchesForItemHandler(store *BatchStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz stok kalemi ID")
		}

		views, err := store.ListBatchesForItem(uint(id))
		if err != nil {
			return err
		}
		return c.JSON(views)
	}
}

// GET /api/inventory-batches/expiring?days=7
func GetExpiringBatchesHandler(store *BatchStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.ResolveRestaurantID(c, queryRestaurantID(c))
		if err != nil {
			return err
		}

		days := ExpiringSoonDays
		if daysStr := c.Query("days"); daysStr != "" {
			d, err := strconv.Atoi(daysStr)
			if err != nil || d <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz days parametresi")
			}
			days = d
		}

		views, err := store.GetExpiringBatches(restaurantID, days)
		if err != nil {
			return err
		}
		return c.JSON(views)
	}
}

// GET /api/inventory-batches/:id/movements
func ListBatchMovementsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz parti ID")
		}

		var movements []models.BatchMovement
		if err := db.Where("batch_id = ?", id).Order("created_at asc, id asc").Find(&movements).Error; err != nil {
			return apperrors.Database("hareketler listelenemedi", err)
		}
		return c.JSON(movements)
	}
}
