package models

import "time"

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order           Order          `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	InventoryItemID *uint          `gorm:"index" json:"inventory_item_id"`
	InventoryItem   *InventoryItem `gorm:"foreignKey:InventoryItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"inventory_item,omitempty"`
	// ItemName is snapshotted when the row is written and is never re-derived,
	// so the line survives renames or deletion of the inventory item.
	ItemName     string    `gorm:"type:varchar(255);not null" json:"item_name"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	UnitPrice    float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Total        float64   `gorm:"type:decimal(10,2);not null" json:"total"`
	SpecialPrice *float64  `gorm:"type:decimal(10,2)" json:"special_price,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}
