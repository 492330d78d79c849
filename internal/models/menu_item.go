package models

import (
	"time"

	"gorm.io/gorm"
)

type MenuItem struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	RestaurantID uint `gorm:"index;not null" json:"restaurant_id"`
	Restaurant   Restaurant
	Name         string  `gorm:"size:100;not null" json:"name"`
	Category     string  `gorm:"size:50;index" json:"category"` // çorba, ana yemek, tatlı vs.
	Price        float64 `gorm:"not null" json:"price"`
	Description  string  `gorm:"size:500" json:"description"`
	IsActive     bool    `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
