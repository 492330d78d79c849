package inventory

import (
	"errors"
	"time"

	"lokanta-backend/internal/apperrors"
	"lokanta-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type IngredientAvailability struct {
	InventoryItemID    uint            `json:"inventory_item_id"`
	Name               string          `json:"name"`
	Unit               string          `json:"unit"`
	RequiredQuantity   decimal.Decimal `json:"required_quantity"`
	AvailableInBatches decimal.Decimal `json:"available_in_batches"`
	Sufficient         bool            `json:"sufficient"`
	ActiveBatchCount   int             `json:"active_batch_count"`
	NextExpiryDate     *time.Time      `json:"next_expiry_date"`
}

type ItemAvailability struct {
	MenuItemID      uint                     `json:"menu_item_id"`
	MenuItemName    string                   `json:"menu_item_name"`
	RecipeAvailable bool                     `json:"recipe_available"`
	NoRecipe        bool                     `json:"no_recipe"`
	TotalShortage   decimal.Decimal          `json:"total_shortage"`
	Ingredients     []IngredientAvailability `json:"ingredients"`
}

type MissingIngredient struct {
	Name      string          `json:"name"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
	Shortage  decimal.Decimal `json:"shortage"`
	Unit      string          `json:"unit"`
}

type ValidationResult struct {
	MenuItemID         uint                `json:"menu_item_id"`
	MenuItemName       string              `json:"menu_item_name"`
	RequestedQuantity  int                 `json:"requested_quantity"`
	Available          bool                `json:"available"`
	NoRecipe           bool                `json:"no_recipe"`
	MissingIngredients []MissingIngredient `json:"missing_ingredients"`
}

type OrderLine struct {
	MenuItemID uint `json:"menu_item_id"`
	Quantity   int  `json:"quantity"`
}

type MultiValidationResult struct {
	AllItemsAvailable  bool                `json:"all_items_available"`
	Items              []ValidationResult  `json:"items"`
	MissingIngredients []MissingIngredient `json:"missing_ingredients"`
}

// Evaluator: "Şu menü kaleminden Q adet şimdi hazırlanabilir mi?" sorusunu
// hiçbir şeyi değiştirmeden yanıtlar. Yeterlilik her zaman aktif partilerin
// toplamına bakar, stok kaleminin denormalize toplamına değil. Bu bir ön
// kontroldür; asıl rezervasyon tüketim motorunun transaction'ındadır.
type Evaluator struct {
	db *gorm.DB
}

func NewEvaluator(db *gorm.DB) *Evaluator {
	return &Evaluator{db: db}
}

// batchSummary: Bir stok kaleminin aktif partilerinden türeyen özet.
// SQL tarafında aggregate yerine düz satırlar çekilip burada toplanır.
func (e *Evaluator) batchSummary(itemID uint) (total decimal.Decimal, count int, nextExpiry *time.Time, err error) {
	var batches []models.InventoryBatch
	if dbErr := e.db.
		Where("inventory_item_id = ? AND status = ? AND current_quantity > 0", itemID, models.BatchStatusActive).
		Find(&batches).Error; dbErr != nil {
		return decimal.Zero, 0, nil, apperrors.Database("partiler okunamadı", dbErr)
	}

	total = decimal.Zero
	for _, b := range batches {
		total = total.Add(b.CurrentQuantity)
		if b.ExpiryDate != nil && (nextExpiry == nil || b.ExpiryDate.Before(*nextExpiry)) {
			d := *b.ExpiryDate
			nextExpiry = &d
		}
	}
	return total, len(batches), nextExpiry, nil
}

func (e *Evaluator) loadMenuItem(menuItemID uint) (*models.MenuItem, []models.Ingredient, error) {
	var menuItem models.MenuItem
	if err := e.db.First(&menuItem, "id = ?", menuItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NotFoundf("Menü kalemi bulunamadı (ID: %d)", menuItemID)
		}
		return nil, nil, apperrors.Database("menü kalemi okunamadı", err)
	}

	var ingredients []models.Ingredient
	if err := e.db.
		Where("menu_item_id = ?", menuItemID).
		Order("id ASC").
		Find(&ingredients).Error; err != nil {
		return nil, nil, apperrors.Database("reçete okunamadı", err)
	}
	return &menuItem, ingredients, nil
}

// GetAvailabilityForItem: Menü kaleminin bir porsiyonu için malzeme bazında
// yeterlilik detayı. Boş reçete "stok kontrolü yok" demektir.
func (e *Evaluator) GetAvailabilityForItem(menuItemID uint) (*ItemAvailability, error) {
	menuItem, ingredients, err := e.loadMenuItem(menuItemID)
	if err != nil {
		return nil, err
	}

	result := &ItemAvailability{
		MenuItemID:      menuItem.ID,
		MenuItemName:    menuItem.Name,
		RecipeAvailable: true,
		NoRecipe:        len(ingredients) == 0,
		TotalShortage:   decimal.Zero,
		Ingredients:     make([]IngredientAvailability, 0, len(ingredients)),
	}

	for _, ing := range ingredients {
		var invItem models.InventoryItem
		if err := e.db.Unscoped().First(&invItem, "id = ?", ing.InventoryItemID).Error; err != nil {
			return nil, apperrors.Database("stok kalemi okunamadı", err)
		}

		available, count, nextExpiry, err := e.batchSummary(ing.InventoryItemID)
		if err != nil {
			return nil, err
		}

		sufficient := !available.LessThan(ing.Quantity)
		if !sufficient {
			result.RecipeAvailable = false
			result.TotalShortage = result.TotalShortage.Add(ing.Quantity.Sub(available))
		}

		result.Ingredients = append(result.Ingredients, IngredientAvailability{
			InventoryItemID:    ing.InventoryItemID,
			Name:               invItem.Name,
			Unit:               invItem.Unit,
			RequiredQuantity:   ing.Quantity,
			AvailableInBatches: available,
			Sufficient:         sufficient,
			ActiveBatchCount:   count,
			NextExpiryDate:     nextExpiry,
		})
	}

	return result, nil
}

// ValidateAvailability: requestedQuantity porsiyon için her malzemenin
// gereksinimini ölçekler ve eksikleri isim/miktar detayıyla raporlar.
func (e *Evaluator) ValidateAvailability(menuItemID uint, requestedQuantity int) (*ValidationResult, error) {
	if requestedQuantity <= 0 {
		return nil, apperrors.BusinessLogic("İstenen miktar 0'dan büyük olmalı")
	}

	menuItem, ingredients, err := e.loadMenuItem(menuItemID)
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{
		MenuItemID:         menuItem.ID,
		MenuItemName:       menuItem.Name,
		RequestedQuantity:  requestedQuantity,
		Available:          true,
		NoRecipe:           len(ingredients) == 0,
		MissingIngredients: []MissingIngredient{},
	}

	factor := decimal.NewFromInt(int64(requestedQuantity))
	for _, ing := range ingredients {
		var invItem models.InventoryItem
		if err := e.db.Unscoped().First(&invItem, "id = ?", ing.InventoryItemID).Error; err != nil {
			return nil, apperrors.Database("stok kalemi okunamadı", err)
		}

		available, _, _, err := e.batchSummary(ing.InventoryItemID)
		if err != nil {
			return nil, err
		}

		required := ing.Quantity.Mul(factor)
		if available.LessThan(required) {
			result.Available = false
			result.MissingIngredients = append(result.MissingIngredients, MissingIngredient{
				Name:      invItem.Name,
				Required:  required,
				Available: available,
				Shortage:  required.Sub(available),
				Unit:      invItem.Unit,
			})
		}
	}

	return result, nil
}

// ValidateMultiple: Sipariş satırlarının her biri için ValidateAvailability
// çalıştırır ve eksikleri isim bazında tekilleştirerek toplar. Salt okunur bir
// ön kontroldür; satırlar arası toplam gereksinimi REZERVE ETMEZ, kesin karar
// sipariş hazırlığındaki atomik tüketime aittir.
func (e *Evaluator) ValidateMultiple(lines []OrderLine) (*MultiValidationResult, error) {
	result := &MultiValidationResult{
		AllItemsAvailable:  true,
		Items:              make([]ValidationResult, 0, len(lines)),
		MissingIngredients: []MissingIngredient{},
	}

	merged := make(map[string]*MissingIngredient)
	var order []string

	for _, line := range lines {
		vr, err := e.ValidateAvailability(line.MenuItemID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !vr.Available {
			result.AllItemsAvailable = false
		}
		for _, mi := range vr.MissingIngredients {
			if existing, ok := merged[mi.Name]; ok {
				existing.Required = existing.Required.Add(mi.Required)
				existing.Shortage = existing.Shortage.Add(mi.Shortage)
			} else {
				copied := mi
				merged[mi.Name] = &copied
				order = append(order, mi.Name)
			}
		}
		result.Items = append(result.Items, *vr)
	}

	for _, name := range order {
		result.MissingIngredients = append(result.MissingIngredients, *merged[name])
	}

	return result, nil
}
