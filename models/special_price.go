package models

import "time"

// SpecialPrice overrides an item's standard unit price for one customer. Rows
// live only as long as the customer has active orders; completing or deleting
// their last active order purges them.
type SpecialPrice struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerName string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_customer_item" json:"customer_name"`
	ItemName     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_customer_item" json:"item_name"`
	Price        float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}
