package models

import "time"

type Supplier struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	RestaurantID uint `gorm:"index;not null" json:"restaurant_id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	ContactName  string `gorm:"size:100" json:"contact_name"`
	Phone        string `gorm:"size:20" json:"phone"`
	Description  string `gorm:"size:255" json:"description"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
