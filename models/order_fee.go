package models

import "time"

// OrderFee is a flat addition to the order total (delivery, cleaning, ...),
// unrelated to inventory.
type OrderFee struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	Order       Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Description string    `gorm:"type:varchar(255);not null" json:"description"`
	Amount      float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
