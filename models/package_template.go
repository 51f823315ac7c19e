package models

import "time"

// PackageTemplate is a reusable bundle of items used to pre-fill a new order.
// It never affects stock by itself; its items are copied at order time.
type PackageTemplate struct {
	ID        uint                  `gorm:"primaryKey" json:"id"`
	Name      string                `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	CreatedAt time.Time             `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time             `gorm:"not null" json:"updated_at"`
	Items     []PackageTemplateItem `gorm:"foreignKey:PackageTemplateID" json:"items"`
}

type PackageTemplateItem struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	PackageTemplateID uint            `gorm:"not null;index" json:"package_template_id"`
	PackageTemplate   PackageTemplate `gorm:"foreignKey:PackageTemplateID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	InventoryItemID   uint            `gorm:"not null;index" json:"inventory_item_id"`
	InventoryItem     InventoryItem   `gorm:"foreignKey:InventoryItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"inventory_item"`
	Quantity          int             `gorm:"not null" json:"quantity"`
}
