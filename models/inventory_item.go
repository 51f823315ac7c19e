package models

import "time"

type InventoryItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	TotalQuantity int       `gorm:"not null;default:0" json:"total_quantity"`
	PricePerItem  float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"price_per_item"`
	PricePaid     float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"price_paid"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}
