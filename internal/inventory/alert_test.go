package inventory

import (
	"testing"
	"time"

	"lokanta-backend/internal/models"

	"github.com/shopspring/decimal"
)

func TestDeriveAlertStatus(t *testing.T) {
	today := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	cases := []struct {
		name   string
		batch  models.InventoryBatch
		expect AlertStatus
	}{
		{
			name: "durum expired ise tarih ne olursa olsun expired",
			batch: models.InventoryBatch{
				Status:          models.BatchStatusExpired,
				CurrentQuantity: decimal.NewFromInt(10),
				ExpiryDate:      datePtr(today.AddDate(0, 1, 0)),
			},
			expect: AlertStatusExpired,
		},
		{
			name: "tarihi geçmiş parti expired",
			batch: models.InventoryBatch{
				Status:          models.BatchStatusActive,
				CurrentQuantity: decimal.NewFromInt(10),
				ExpiryDate:      datePtr(today.AddDate(0, 0, -1)),
			},
			expect: AlertStatusExpired,
		},
		{
			name: "son kullanma bugün: expiring_soon, expired değil",
			batch: models.InventoryBatch{
				Status:          models.BatchStatusActive,
				CurrentQuantity: decimal.NewFromInt(10),
				ExpiryDate:      datePtr(today),
			},
			expect: AlertStatusExpiringSoon,
		},
		{
			name: "7 gün sonrası sınır dahil expiring_soon",
			batch: models.InventoryBatch{
				Status:          models.BatchStatusActive,
				CurrentQuantity: decimal.NewFromInt(10),
				ExpiryDate:      datePtr(today.AddDate(0, 0, ExpiringSoonDays)),
			},
			expect: AlertStatusExpiringSoon,
		},
		{
			name: "8 gün sonrası active",
			batch: models.InventoryBatch{
				Status:          models.BatchStatusActive,
				CurrentQuantity: decimal.NewFromInt(10),
				ExpiryDate:      datePtr(today.AddDate(0, 0, ExpiringSoonDays+1)),
			},
			expect: AlertStatusActive,
		},
		{
			name: "yakında bitecek tarihli ama stoğu sıfır parti consumed",
			batch: models.InventoryBatch{
				Status:          models.BatchStatusActive,
				CurrentQuantity: decimal.Zero,
				ExpiryDate:      datePtr(today.AddDate(0, 0, 3)),
			},
			expect: AlertStatusConsumed,
		},
		{
			name: "tarihi olmayan dolu parti active",
			batch: models.InventoryBatch{
				Status:          models.BatchStatusActive,
				CurrentQuantity: decimal.NewFromInt(2),
			},
			expect: AlertStatusActive,
		},
		{
			name: "tarihi olmayan boş parti consumed",
			batch: models.InventoryBatch{
				Status:          models.BatchStatusActive,
				CurrentQuantity: decimal.Zero,
			},
			expect: AlertStatusConsumed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveAlertStatus(tc.batch, today)
			if got != tc.expect {
				t.Errorf("beklenen %s, gelen %s", tc.expect, got)
			}
		})
	}
}

func TestDaysUntilExpiry(t *testing.T) {
	today := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)

	b := models.InventoryBatch{ExpiryDate: datePtr(time.Date(2025, 6, 18, 0, 1, 0, 0, time.UTC))}
	days := DaysUntilExpiry(b, today)
	if days == nil || *days != 3 {
		t.Fatalf("beklenen 3 gün, gelen %v", days)
	}

	if DaysUntilExpiry(models.InventoryBatch{}, today) != nil {
		t.Error("tarihi olmayan parti için nil beklenir")
	}
}
