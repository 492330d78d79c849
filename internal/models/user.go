package models

import "time"

type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleManager    UserRole = "manager"
	RoleCaptain    UserRole = "captain"
	RoleKitchen    UserRole = "kitchen"
	RoleCashier    UserRole = "cashier"
	RoleWaiter     UserRole = "waiter"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID *uint
	Restaurant   *Restaurant
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
