package inventory

import (
	"time"

	"lokanta-backend/internal/models"
)

type AlertStatus string

const (
	AlertStatusExpired      AlertStatus = "expired"
	AlertStatusExpiringSoon AlertStatus = "expiring_soon"
	AlertStatusConsumed     AlertStatus = "consumed"
	AlertStatusActive       AlertStatus = "active"
)

// ExpiringSoonDays: "yakında bitecek" uyarısı için gün eşiği.
const ExpiringSoonDays = 7

// DeriveAlertStatus: Partinin okuma anındaki uyarı durumunu hesaplar.
// Saklanmaz, parti listelendiği her yerde bu fonksiyonla türetilir.
func DeriveAlertStatus(b models.InventoryBatch, today time.Time) AlertStatus {
	if b.Status == models.BatchStatusExpired {
		return AlertStatusExpired
	}
	today = truncateToDay(today)
	if b.ExpiryDate != nil {
		expiry := truncateToDay(*b.ExpiryDate)
		if expiry.Before(today) {
			return AlertStatusExpired
		}
		if !expiry.After(today.AddDate(0, 0, ExpiringSoonDays)) && b.CurrentQuantity.Sign() > 0 {
			return AlertStatusExpiringSoon
		}
	}
	if b.CurrentQuantity.Sign() == 0 {
		return AlertStatusConsumed
	}
	return AlertStatusActive
}

// DaysUntilExpiry: Son kullanma tarihine kalan gün sayısı. Tarih yoksa nil.
func DaysUntilExpiry(b models.InventoryBatch, today time.Time) *int {
	if b.ExpiryDate == nil {
		return nil
	}
	days := int(truncateToDay(*b.ExpiryDate).Sub(truncateToDay(today)).Hours() / 24)
	return &days
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
