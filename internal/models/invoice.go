package models

import "time"

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

type Invoice struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	RestaurantID  uint `gorm:"index;not null" json:"restaurant_id"`
	OrderID       uint `gorm:"uniqueIndex;not null" json:"order_id"`
	InvoiceNumber string        `gorm:"size:36;uniqueIndex;not null" json:"invoice_number"`
	Subtotal      float64       `gorm:"not null" json:"subtotal"`
	TaxRate       float64       `gorm:"default:0.1" json:"tax_rate"`
	TaxAmount     float64       `json:"tax_amount"`
	Total         float64       `gorm:"not null" json:"total"`
	PaymentMethod PaymentMethod `gorm:"size:10;not null" json:"payment_method"`
	IssuedBy      uint          `json:"issued_by"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time
}
