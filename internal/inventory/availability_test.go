package inventory

import (
	"testing"

	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

func createTestMenuItem(t *testing.T, db *gorm.DB, name string) models.MenuItem {
	t.Helper()
	mi := models.MenuItem{RestaurantID: 1, Name: name, Price: 100, IsActive: true}
	if err := db.Create(&mi).Error; err != nil {
		t.Fatal(err)
	}
	return mi
}

func addRecipeLine(t *testing.T, db *gorm.DB, menuItemID, invItemID uint, qty string) {
	t.Helper()
	ing := models.Ingredient{
		RestaurantID:    1,
		MenuItemID:      menuItemID,
		InventoryItemID: invItemID,
		Quantity:        mustDecimal(t, qty),
	}
	if err := db.Create(&ing).Error; err != nil {
		t.Fatal(err)
	}
}

func TestGetAvailabilityForItem(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)
	evaluator := NewEvaluator(db)

	tomatoes := createTestItem(t, db, "Domates")
	cheese := createTestItem(t, db, "Peynir")
	createTestBatch(t, store, tomatoes.ID, "T-1", "10", day(2025, 6, 1), nil)
	createTestBatch(t, store, cheese.ID, "P-1", "0.2", day(2025, 6, 1), nil)

	pizza := createTestMenuItem(t, db, "Pizza")
	addRecipeLine(t, db, pizza.ID, tomatoes.ID, "0.5")
	addRecipeLine(t, db, pizza.ID, cheese.ID, "0.3")

	result, err := evaluator.GetAvailabilityForItem(pizza.ID)
	if err != nil {
		t.Fatal(err)
	}

	if result.RecipeAvailable {
		t.Error("peynir yetersizken kalem hazırlanabilir görünmemeli")
	}
	if result.NoRecipe {
		t.Error("reçetesi olan kalem no_recipe olmamalı")
	}
	if len(result.Ingredients) != 2 {
		t.Fatalf("iki malzeme beklenir, gelen %d", len(result.Ingredients))
	}

	if !result.Ingredients[0].Sufficient {
		t.Error("domates yeterli olmalı")
	}
	if result.Ingredients[1].Sufficient {
		t.Error("peynir yetersiz olmalı")
	}
	if !result.TotalShortage.Equal(mustDecimal(t, "0.1")) {
		t.Errorf("toplam eksik 0.1 olmalı, gelen %s", result.TotalShortage)
	}
}

func TestAvailabilityIgnoresInactiveBatches(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)
	evaluator := NewEvaluator(db)

	milk := createTestItem(t, db, "Süt")
	expired := createTestBatch(t, store, milk.ID, "S-1", "10", day(2025, 6, 1), nil)
	if err := db.Model(expired).Update("status", models.BatchStatusExpired).Error; err != nil {
		t.Fatal(err)
	}
	createTestBatch(t, store, milk.ID, "S-2", "1", day(2025, 6, 2), nil)

	latte := createTestMenuItem(t, db, "Latte")
	addRecipeLine(t, db, latte.ID, milk.ID, "2")

	result, err := evaluator.GetAvailabilityForItem(latte.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.RecipeAvailable {
		t.Error("süresi geçmiş parti yeterliliğe sayılmamalı")
	}
	if !result.Ingredients[0].AvailableInBatches.Equal(mustDecimal(t, "1")) {
		t.Errorf("sadece aktif parti toplanmalı, gelen %s", result.Ingredients[0].AvailableInBatches)
	}
}

func TestAvailabilityEmptyRecipe(t *testing.T) {
	db := newTestDB(t)
	evaluator := NewEvaluator(db)

	cola := createTestMenuItem(t, db, "Kola")

	result, err := evaluator.GetAvailabilityForItem(cola.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !result.NoRecipe || !result.RecipeAvailable {
		t.Error("reçetesiz kalem stok kontrolüne takılmamalı")
	}

	vr, err := evaluator.ValidateAvailability(cola.ID, 50)
	if err != nil {
		t.Fatal(err)
	}
	if !vr.Available || !vr.NoRecipe {
		t.Error("reçetesiz kalem her miktarda hazırlanabilir sayılmalı")
	}
}

func TestValidateAvailabilityScalesByQuantity(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)
	evaluator := NewEvaluator(db)

	flour := createTestItem(t, db, "Un")
	createTestBatch(t, store, flour.ID, "U-1", "1", day(2025, 6, 1), nil)

	bread := createTestMenuItem(t, db, "Ekmek")
	addRecipeLine(t, db, bread.ID, flour.ID, "0.4")

	// 2 porsiyon = 0.8 ≤ 1: yeterli
	vr, err := evaluator.ValidateAvailability(bread.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !vr.Available {
		t.Error("2 porsiyon için stok yeterli olmalı")
	}

	// 3 porsiyon = 1.2 > 1: eksik raporu
	vr, err = evaluator.ValidateAvailability(bread.ID, 3)
	if err != nil {
		t.Fatal(err)
	}
	if vr.Available {
		t.Fatal("3 porsiyon için stok yetersiz olmalı")
	}
	if len(vr.MissingIngredients) != 1 {
		t.Fatalf("bir eksik malzeme beklenir, gelen %d", len(vr.MissingIngredients))
	}
	mi := vr.MissingIngredients[0]
	if mi.Name != "Un" || !mi.Shortage.Equal(mustDecimal(t, "0.2")) {
		t.Errorf("eksik: Un 0.2 beklenir, gelen %s %s", mi.Name, mi.Shortage)
	}
}

func TestValidateMultipleMergesMissingByName(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)
	evaluator := NewEvaluator(db)

	cheese := createTestItem(t, db, "Peynir")
	createTestBatch(t, store, cheese.ID, "P-1", "0.1", day(2025, 6, 1), nil)

	pizza := createTestMenuItem(t, db, "Pizza")
	toast := createTestMenuItem(t, db, "Tost")
	addRecipeLine(t, db, pizza.ID, cheese.ID, "0.3")
	addRecipeLine(t, db, toast.ID, cheese.ID, "0.2")

	result, err := evaluator.ValidateMultiple([]OrderLine{
		{MenuItemID: pizza.ID, Quantity: 1},
		{MenuItemID: toast.ID, Quantity: 2},
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.AllItemsAvailable {
		t.Error("iki satır da yetersizken all_items_available false olmalı")
	}
	if len(result.Items) != 2 {
		t.Fatalf("satır başına sonuç beklenir, gelen %d", len(result.Items))
	}
	if len(result.MissingIngredients) != 1 {
		t.Fatalf("aynı malzeme tekilleştirilmeli, gelen %d kayıt", len(result.MissingIngredients))
	}

	merged := result.MissingIngredients[0]
	// pizza: 0.3 gerekli, tost: 0.4 gerekli → toplam 0.7; eksikler 0.2 + 0.3
	if !merged.Required.Equal(mustDecimal(t, "0.7")) {
		t.Errorf("birleşik gereksinim 0.7 olmalı, gelen %s", merged.Required)
	}
	if !merged.Shortage.Equal(mustDecimal(t, "0.5")) {
		t.Errorf("birleşik eksik 0.5 olmalı, gelen %s", merged.Shortage)
	}
}

// Değerlendirici salt okunurdur: hiçbir çağrı parti veya kalem miktarını
// değiştirmemeli.
func TestEvaluatorNeverMutates(t *testing.T) {
	db := newTestDB(t)
	store := NewBatchStore(db)
	evaluator := NewEvaluator(db)

	rice := createTestItem(t, db, "Pirinç")
	createTestBatch(t, store, rice.ID, "R-1", "3", day(2025, 6, 1), nil)

	pilav := createTestMenuItem(t, db, "Pilav")
	addRecipeLine(t, db, pilav.ID, rice.ID, "0.25")

	if _, err := evaluator.GetAvailabilityForItem(pilav.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := evaluator.ValidateAvailability(pilav.ID, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := evaluator.ValidateMultiple([]OrderLine{{MenuItemID: pilav.ID, Quantity: 5}}); err != nil {
		t.Fatal(err)
	}

	var batch models.InventoryBatch
	if err := db.First(&batch, "batch_number = ?", "R-1").Error; err != nil {
		t.Fatal(err)
	}
	if !batch.CurrentQuantity.Equal(mustDecimal(t, "3")) {
		t.Errorf("parti miktarı değişmemeliydi, gelen %s", batch.CurrentQuantity)
	}

	var item models.InventoryItem
	if err := db.First(&item, rice.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !item.Quantity.Equal(mustDecimal(t, "3")) {
		t.Errorf("kalem toplamı değişmemeliydi, gelen %s", item.Quantity)
	}

	var movements int64
	db.Model(&models.BatchMovement{}).Where("movement_type = ?", models.MovementTypeConsumption).Count(&movements)
	if movements != 0 {
		t.Errorf("değerlendirme hareket kaydı üretmemeli, gelen %d", movements)
	}
}
