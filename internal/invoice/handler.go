package invoice

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"lokanta-backend/internal/apperrors"
	"lokanta-backend/internal/audit"
	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultTaxRate: KDV oranı, fatura bazında ezilmezse kullanılır.
const DefaultTaxRate = 0.1

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CreateInvoiceHandler: served → invoiced. Ara toplam sipariş kalemlerinin
// sipariş anındaki birim fiyatlarından hesaplanır; fatura kesildikten sonra
// sipariş kapanır ve bir daha faturalanamaz (order_id unique).
func CreateInvoiceHandler(db *gorm.DB) fiber.Handler {
	type invoiceInput struct {
		OrderID       uint                 `json:"order_id"`
		PaymentMethod models.PaymentMethod `json:"payment_method"`
		TaxRate       *float64             `json:"tax_rate"`
	}

	return func(c *fiber.Ctx) error {
		var input invoiceInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if input.OrderID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "order_id zorunlu")
		}
		if input.PaymentMethod != models.PaymentMethodCash && input.PaymentMethod != models.PaymentMethodCard {
			return fiber.NewError(fiber.StatusBadRequest, "payment_method 'cash' veya 'card' olmalı")
		}

		taxRate := DefaultTaxRate
		if input.TaxRate != nil {
			if *input.TaxRate < 0 || *input.TaxRate > 1 {
				return fiber.NewError(fiber.StatusBadRequest, "tax_rate 0 ile 1 arasında olmalı")
			}
			taxRate = *input.TaxRate
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var invoice models.Invoice
		err = db.Transaction(func(tx *gorm.DB) error {
			var order models.Order
			if err := tx.Preload("Items").First(&order, "id = ?", input.OrderID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFoundf("Sipariş bulunamadı (ID: %d)", input.OrderID)
				}
				return apperrors.Database("sipariş okunamadı", err)
			}

			if order.Status != models.OrderStatusServed {
				return apperrors.BusinessLogicf("Fatura kesilemez: sipariş durumu '%s'", order.Status)
			}

			var existing int64
			if err := tx.Model(&models.Invoice{}).Where("order_id = ?", order.ID).Count(&existing).Error; err != nil {
				return apperrors.Database("fatura kontrolü yapılamadı", err)
			}
			if existing > 0 {
				return apperrors.Conflictf("Sipariş %s zaten faturalanmış", order.OrderNumber)
			}

			subtotal := 0.0
			for _, item := range order.Items {
				subtotal += item.UnitPrice * float64(item.Quantity)
			}
			subtotal = round2(subtotal)
			taxAmount := round2(subtotal * taxRate)

			invoice = models.Invoice{
				RestaurantID:  order.RestaurantID,
				OrderID:       order.ID,
				InvoiceNumber: uuid.NewString(),
				Subtotal:      subtotal,
				TaxRate:       taxRate,
				TaxAmount:     taxAmount,
				Total:         round2(subtotal + taxAmount),
				PaymentMethod: input.PaymentMethod,
				IssuedBy:      userID,
			}
			if err := tx.Create(&invoice).Error; err != nil {
				return apperrors.Database("fatura oluşturulamadı", err)
			}

			if err := tx.Model(&order).Update("status", models.OrderStatusInvoiced).Error; err != nil {
				return apperrors.Database("sipariş durumu güncellenemedi", err)
			}

			history := models.OrderStatusHistory{
				OrderID:    order.ID,
				FromStatus: models.OrderStatusServed,
				ToStatus:   models.OrderStatusInvoiced,
				ChangedBy:  userID,
			}
			if err := tx.Create(&history).Error; err != nil {
				return apperrors.Database("durum geçmişi oluşturulamadı", err)
			}

			return nil
		})
		if err != nil {
			return err
		}

		_ = audit.WriteLog(db, audit.LogOptions{
			RestaurantID: &invoice.RestaurantID,
			UserID:       userID,
			EntityType:   "invoice",
			EntityID:     invoice.ID,
			Action:       models.AuditActionCreate,
			Description:  fmt.Sprintf("Fatura kesildi: %s (%.2f)", invoice.InvoiceNumber, invoice.Total),
			After:        invoice,
		})

		return c.Status(fiber.StatusCreated).JSON(invoice)
	}
}

// ListInvoicesHandler: GET /api/invoices?payment_method=cash
func ListInvoicesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := db.Order("created_at DESC")

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

		if method := c.Query("payment_method"); method != "" {
			q = q.Where("payment_method = ?", method)
		}

		var invoices []models.Invoice
		if err := q.Find(&invoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Faturalar okunamadı")
		}

		return c.JSON(invoices)
	}
}

// GetInvoiceHandler: Tek fatura.
func GetInvoiceHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		invoiceID, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz fatura ID")
		}

		var invoice models.Invoice
		if err := db.First(&invoice, "id = ?", invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Fatura bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Fatura okunamadı")
		}

		return c.JSON(invoice)
	}
}
