package menu

import (
	"errors"

	"lokanta-backend/internal/apperrors"
	"lokanta-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecipeLine: SetRecipe girdisi; bir porsiyon için gereken stok miktarı.
type RecipeLine struct {
	InventoryItemID uint            `json:"inventory_item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
}

// Registry: Menü kalemi → reçete (Ingredient satırları) eşlemesinin sahibi.
// Okuma tarafını stok yeterlilik değerlendiricisi de kullanır; yazma sadece
// buradan geçer.
type Registry struct {
	db *gorm.DB
}

func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// GetRecipe: Menü kaleminin sıralı reçetesi. Boş liste geçerli ve anlamlıdır:
// stok kontrolü uygulanmaz.
func (r *Registry) GetRecipe(menuItemID uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := r.db.Preload("InventoryItem").
		Where("menu_item_id = ?", menuItemID).
		Order("id ASC").
		Find(&ingredients).Error; err != nil {
		return nil, apperrors.Database("reçete okunamadı", err)
	}
	return ingredients, nil
}

// SetRecipe: Reçetenin tamamını atomik değiştirir: mevcut satırlar soft-delete
// edilir, yeni set eklenir. Herhangi bir satır geçersizse (miktar ≤ 0, kalem
// başka restorana ait) değişikliğin tamamı iptal olur; kısmi reçete kalmaz.
func (r *Registry) SetRecipe(menuItemID uint, restaurantID uint, lines []RecipeLine) ([]models.Ingredient, error) {
	var saved []models.Ingredient

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var menuItem models.MenuItem
		if err := tx.First(&menuItem, "id = ?", menuItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("Menü kalemi bulunamadı (ID: %d)", menuItemID)
			}
			return apperrors.Database("menü kalemi okunamadı", err)
		}
		if menuItem.RestaurantID != restaurantID {
			return apperrors.NotFoundf("Menü kalemi bulunamadı (ID: %d)", menuItemID)
		}

		// Önce tüm satırları doğrula, sonra yaz
		for _, line := range lines {
			if line.Quantity.Sign() <= 0 {
				return apperrors.BusinessLogic("Reçete miktarı 0'dan büyük olmalı")
			}
			var invItem models.InventoryItem
			if err := tx.First(&invItem, "id = ?", line.InventoryItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFoundf("Stok kalemi bulunamadı (ID: %d)", line.InventoryItemID)
				}
				return apperrors.Database("stok kalemi okunamadı", err)
			}
			if invItem.RestaurantID != restaurantID {
				return apperrors.BusinessLogicf("Stok kalemi başka restorana ait: %s", invItem.Name)
			}
		}

		if err := tx.Where("menu_item_id = ?", menuItemID).Delete(&models.Ingredient{}).Error; err != nil {
			return apperrors.Database("mevcut reçete silinemedi", err)
		}

		for _, line := range lines {
			ing := models.Ingredient{
				RestaurantID:    restaurantID,
				MenuItemID:      menuItemID,
				InventoryItemID: line.InventoryItemID,
				Quantity:        line.Quantity,
				Unit:            line.Unit,
			}
			if err := tx.Create(&ing).Error; err != nil {
				return apperrors.Database("reçete satırı oluşturulamadı", err)
			}
			saved = append(saved, ing)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}
