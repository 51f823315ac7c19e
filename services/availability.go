package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yordanhp/rental-app/models"
)

var ErrItemNotFound = errors.New("inventory item not found")

// InsufficientStockError reports which item ran out and how short the request
// fell for the requested window.
type InsufficientStockError struct {
	ItemName  string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough '%s' available, only %d left for these dates", e.ItemName, e.Available)
}

// RentedOut sums the quantities of this item held by active orders whose
// rental window overlaps [pickUp, delivery). Two windows overlap iff
// pickUpA < deliveryB AND deliveryA > pickUpB; both comparisons are strict,
// so a delivery and a pickup on the same day do not collide and back-to-back
// bookings are allowed.
//
// excludeOrderID ignores one order (pass the order's own ID when editing it,
// 0 otherwise). Read-only; call it inside the same transaction as the write
// it is guarding.
func RentedOut(tx *gorm.DB, itemID uint, pickUp, delivery time.Time, excludeOrderID uint) (int, error) {
	q := tx.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.inventory_item_id = ?", itemID).
		Where("orders.completed = ?", false).
		Where("orders.pick_up_date < ? AND orders.delivery_date > ?", delivery, pickUp)
	if excludeOrderID != 0 {
		q = q.Where("orders.id <> ?", excludeOrderID)
	}

	var rented int
	if err := q.Select("COALESCE(SUM(order_items.quantity), 0)").Row().Scan(&rented); err != nil {
		return 0, err
	}
	return rented, nil
}

// CurrentlyRented sums the item's quantities across ALL active orders with no
// date restriction. Reducing total stock is blocked by any open commitment,
// not just overlapping ones, which is why this is deliberately simpler than
// RentedOut.
func CurrentlyRented(tx *gorm.DB, itemID uint) (int, error) {
	var rented int
	err := tx.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.inventory_item_id = ?", itemID).
		Where("orders.completed = ?", false).
		Select("COALESCE(SUM(order_items.quantity), 0)").
		Row().Scan(&rented)
	if err != nil {
		return 0, err
	}
	return rented, nil
}

// LockItem loads the inventory item for a check-then-write sequence. On
// backends that do not serialize writers by themselves (MySQL) the row is
// locked with FOR UPDATE so a concurrent order for the same item must wait
// until this transaction commits.
func LockItem(tx *gorm.DB, itemID uint) (*models.InventoryItem, error) {
	q := tx
	if tx.Dialector.Name() == "mysql" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var item models.InventoryItem
	if err := q.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// EnsureAvailable is the guard used by order creation and editing: it locks
// the item, recomputes availability for the window inside the caller's
// transaction and fails with *InsufficientStockError when the request does
// not fit. The returned item carries the current name for snapshotting.
func EnsureAvailable(tx *gorm.DB, itemID uint, quantity int, pickUp, delivery time.Time, excludeOrderID uint) (*models.InventoryItem, error) {
	item, err := LockItem(tx, itemID)
	if err != nil {
		return nil, err
	}

	rented, err := RentedOut(tx, itemID, pickUp, delivery, excludeOrderID)
	if err != nil {
		return nil, err
	}

	available := item.TotalQuantity - rented
	if quantity > available {
		return nil, &InsufficientStockError{
			ItemName:  item.Name,
			Requested: quantity,
			Available: available,
		}
	}
	return item, nil
}
