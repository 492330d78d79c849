package inventory

import (
	"strings"
	"time"

	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ImportRowResult struct {
	Row     int    `json:"row"`
	BatchNo string `json:"batch_no"`
	Error   string `json:"error,omitempty"`
}

type ImportResult struct {
	Created int               `json:"created"`
	Failed  int               `json:"failed"`
	Rows    []ImportRowResult `json:"rows"`
}

// POST /api/inventory-batches/import
// Excel formatı: kalem adı | parti no | miktar | alım tarihi | SKT | alım fiyatı
// İlk satır başlık ise atlanır. Her satır bağımsız bir mal kabuldür; hatalı
// satır diğerlerini engellemez, rapora yazılır.
func ImportBatchesHandler(store *BatchStore, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.ResolveRestaurantID(c, queryRestaurantID(c))
		if err != nil {
			return err
		}
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası okunamadı: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyasında sheet bulunamadı")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet okunamadı: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası boş")
		}

		// Başlık satırı kontrolü
		startIndex := 0
		if len(rows[0]) > 0 {
			firstCell := strings.ToUpper(strings.TrimSpace(rows[0][0]))
			if strings.Contains(firstCell, "KALEM") || strings.Contains(firstCell, "ÜRÜN") || strings.Contains(firstCell, "ITEM") {
				startIndex = 1
			}
		}

		result := ImportResult{Rows: []ImportRowResult{}}

		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
				continue
			}

			rowResult := ImportRowResult{Row: i + 1}
			itemName := strings.TrimSpace(row[0])

			cell := func(idx int) string {
				if idx < len(row) {
					return strings.TrimSpace(row[idx])
				}
				return ""
			}
			rowResult.BatchNo = cell(1)

			var item models.InventoryItem
			if err := db.Where("restaurant_id = ? AND LOWER(name) = LOWER(?)", restaurantID, itemName).
				First(&item).Error; err != nil {
				rowResult.Error = "Stok kalemi bulunamadı: " + itemName
				result.Failed++
				result.Rows = append(result.Rows, rowResult)
				continue
			}

			qty, err := decimal.NewFromString(strings.ReplaceAll(cell(2), ",", "."))
			if err != nil || qty.Sign() <= 0 {
				rowResult.Error = "Geçersiz miktar: " + cell(2)
				result.Failed++
				result.Rows = append(result.Rows, rowResult)
				continue
			}

			purchaseDate := time.Now()
			if pd, err := parseDate(cell(3)); err == nil && pd != nil {
				purchaseDate = *pd
			}
			expiryDate, _ := parseDate(cell(4))

			price := 0.0
			if cell(5) != "" {
				if p, err := decimal.NewFromString(strings.ReplaceAll(cell(5), ",", ".")); err == nil {
					price, _ = p.Float64()
				}
			}

			_, err = store.CreateBatch(CreateBatchInput{
				InventoryItemID: item.ID,
				BatchNumber:     rowResult.BatchNo,
				InitialQuantity: qty,
				PurchasePrice:   price,
				PurchaseDate:    purchaseDate,
				ExpiryDate:      expiryDate,
				ReferenceType:   models.ReferenceTypeImport,
				CreatedBy:       userID,
			})
			if err != nil {
				rowResult.Error = err.Error()
				result.Failed++
			} else {
				result.Created++
			}
			result.Rows = append(result.Rows, rowResult)
		}

		return c.JSON(result)
	}
}
