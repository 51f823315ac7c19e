package models

import "time"

// Order is an active rental while Completed is false; completed orders no
// longer consume stock and only feed the statistics views.
type Order struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	CustomerName string      `gorm:"type:varchar(255);not null;index" json:"customer_name"`
	PickUpDate   time.Time   `gorm:"not null;index" json:"pick_up_date"`
	DeliveryDate time.Time   `gorm:"not null;index" json:"delivery_date"`
	Deposit      *float64    `gorm:"type:decimal(10,2)" json:"deposit,omitempty"`
	FinalPrice   *float64    `gorm:"type:decimal(10,2)" json:"final_price,omitempty"`
	Completed    bool        `gorm:"not null;default:false;index" json:"completed"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
	Items        []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Fees         []OrderFee  `gorm:"foreignKey:OrderID" json:"fees"`
}
