package models

import "time"

type Restaurant struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:100;not null" json:"name"`
	Address   string `gorm:"size:255" json:"address"`
	Phone     string `gorm:"size:20" json:"phone"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DiningTable: Restorandaki masa. Siparişler masaya bağlıdır.
type DiningTable struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	RestaurantID uint `gorm:"index;not null" json:"restaurant_id"`
	Restaurant   Restaurant
	Number       int  `gorm:"not null" json:"number"`   // masa numarası
	Capacity     int  `gorm:"default:4" json:"capacity"`
	IsActive     bool `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
