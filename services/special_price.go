package services

import (
	"gorm.io/gorm"

	"github.com/yordanhp/rental-app/models"
)

func activeOrderIDs(tx *gorm.DB, customerName string) *gorm.DB {
	return tx.Model(&models.Order{}).
		Select("id").
		Where("customer_name = ? AND completed = ?", customerName, false)
}

// ApplySpecialPrice rewrites unit price, total and the special-price marker on
// every order item of the customer's active orders for this inventory item.
// Must run in the same transaction as the SpecialPrice upsert.
func ApplySpecialPrice(tx *gorm.DB, customerName string, itemID uint, price float64) error {
	return tx.Model(&models.OrderItem{}).
		Where("inventory_item_id = ?", itemID).
		Where("order_id IN (?)", activeOrderIDs(tx, customerName)).
		Updates(map[string]interface{}{
			"unit_price":    price,
			"total":         gorm.Expr("? * quantity", price),
			"special_price": price,
		}).Error
}

// RevertSpecialPrice puts the affected order items back on the item's
// standard price and clears the marker.
func RevertSpecialPrice(tx *gorm.DB, customerName string, item *models.InventoryItem) error {
	return tx.Model(&models.OrderItem{}).
		Where("inventory_item_id = ?", item.ID).
		Where("order_id IN (?)", activeOrderIDs(tx, customerName)).
		Updates(map[string]interface{}{
			"unit_price":    item.PricePerItem,
			"total":         gorm.Expr("? * quantity", item.PricePerItem),
			"special_price": nil,
		}).Error
}

// CleanupSpecialPrices drops all of a customer's special prices once they have
// no active orders left. Called after completing or deleting an order, inside
// the same transaction.
func CleanupSpecialPrices(tx *gorm.DB, customerName string) error {
	var remaining int64
	if err := tx.Model(&models.Order{}).
		Where("customer_name = ? AND completed = ?", customerName, false).
		Count(&remaining).Error; err != nil {
		return err
	}
	if remaining > 0 {
		return nil
	}
	return tx.Where("customer_name = ?", customerName).Delete(&models.SpecialPrice{}).Error
}
