package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yordanhp/rental-app/models"
)

func TestCreateOrderRejectsOverbooking(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	item := createItem(t, db, "Round Table", 2, 20, 10)

	w := doJSON(t, r, http.MethodPost, "/orders", orderPayload("Anna", item.ID, 2, 20, "2024-01-01", "2024-01-10"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// One more unit inside the booked window must be refused
	w = doJSON(t, r, http.MethodPost, "/orders", orderPayload("Berta", item.ID, 1, 20, "2024-01-05", "2024-01-06"))
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Round Table")

	// The rejected attempt must not have written anything
	var orders, orderItems int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.OrderItem{}).Count(&orderItems)
	assert.Equal(t, int64(1), orders)
	assert.Equal(t, int64(1), orderItems)
}

func TestCreateOrderAllowsBackToBackBookings(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	item := createItem(t, db, "Tent", 1, 100, 50)

	w := doJSON(t, r, http.MethodPost, "/orders", orderPayload("Anna", item.ID, 1, 100, "2024-01-01", "2024-01-05"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// New pickup on the delivery day of the first order is not an overlap
	w = doJSON(t, r, http.MethodPost, "/orders", orderPayload("Berta", item.ID, 1, 100, "2024-01-05", "2024-01-10"))
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateOrderAbortsWholeOrderOnOneShortItem(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	plenty := createItem(t, db, "Plates", 100, 1, 0.5)
	scarce := createItem(t, db, "Stage", 0, 500, 300)

	payload := map[string]interface{}{
		"customer_name": "Anna",
		"pick_up_date":  "2024-03-01",
		"delivery_date": "2024-03-03",
		"items": []map[string]interface{}{
			{"item_id": plenty.ID, "quantity": 10, "unit_price": 1.0, "total": 10.0},
			{"item_id": scarce.ID, "quantity": 1, "unit_price": 500.0, "total": 500.0},
		},
	}
	w := doJSON(t, r, http.MethodPost, "/orders", payload)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var orderItems int64
	db.Model(&models.OrderItem{}).Count(&orderItems)
	assert.Equal(t, int64(0), orderItems, "no partial order may be persisted")
}

func TestCreateOrderSnapshotsItemName(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	item := createItem(t, db, "Old Name", 5, 10, 5)

	w := doJSON(t, r, http.MethodPost, "/orders", orderPayload("Anna", item.ID, 1, 10, "2024-01-01", "2024-01-02"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.NoError(t, db.Model(item).Update("name", "New Name").Error)

	var line models.OrderItem
	require.NoError(t, db.First(&line).Error)
	assert.Equal(t, "Old Name", line.ItemName)
}

func TestUpdateOrderDoesNotCountItself(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	item := createItem(t, db, "Sound System", 2, 200, 100)

	w := doJSON(t, r, http.MethodPost, "/orders", orderPayload("Anna", item.ID, 2, 200, "2024-01-01", "2024-01-10"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := uint(decodeData(t, w)["id"].(float64))

	// Re-submitting the identical order must not collide with itself
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/orders/%d", orderID),
		orderPayload("Anna", item.ID, 2, 200, "2024-01-01", "2024-01-10"))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var orderItems int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Count(&orderItems)
	assert.Equal(t, int64(1), orderItems)
}

func TestUpdateOrderReplacesItems(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	first := createItem(t, db, "Chairs", 10, 2, 1)
	second := createItem(t, db, "Benches", 10, 4, 2)

	w := doJSON(t, r, http.MethodPost, "/orders", orderPayload("Anna", first.ID, 4, 2, "2024-01-01", "2024-01-05"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := uint(decodeData(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/orders/%d", orderID),
		orderPayload("Anna", second.ID, 3, 4, "2024-01-01", "2024-01-05"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var lines []models.OrderItem
	require.NoError(t, db.Where("order_id = ?", orderID).Find(&lines).Error)
	require.Len(t, lines, 1)
	assert.Equal(t, "Benches", lines[0].ItemName)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestUpdateOrderRollsBackOnShortfall(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	item := createItem(t, db, "Gazebo", 1, 50, 25)

	w := doJSON(t, r, http.MethodPost, "/orders", orderPayload("Anna", item.ID, 1, 50, "2024-01-01", "2024-01-05"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := uint(decodeData(t, w)["id"].(float64))

	// Asking for more than exists must leave the original order untouched
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/orders/%d", orderID),
		orderPayload("Anna", item.ID, 2, 50, "2024-01-01", "2024-01-05"))
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var lines []models.OrderItem
	require.NoError(t, db.Where("order_id = ?", orderID).Find(&lines).Error)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestCompleteOrderIsNotIdempotent(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	item := createItem(t, db, "Lights", 3, 15, 8)

	w := doJSON(t, r, http.MethodPost, "/orders", orderPayload("Anna", item.ID, 1, 15, "2024-01-01", "2024-01-02"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := uint(decodeData(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/orders/%d/complete", orderID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/orders/%d/complete", orderID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestCompleteOrderFreesStock(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	item := createItem(t, db, "Heater", 1, 30, 20)

	w := doJSON(t, r, http.MethodPost, "/orders", orderPayload("Anna", item.ID, 1, 30, "2024-01-01", "2024-01-10"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := uint(decodeData(t, w)["id"].(float64))

	// Same window, no stock left
	w = doJSON(t, r, http.MethodPost, "/orders", orderPayload("Berta", item.ID, 1, 30, "2024-01-02", "2024-01-03"))
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/orders/%d/complete", orderID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Completed orders no longer consume inventory
	w = doJSON(t, r, http.MethodPost, "/orders", orderPayload("Berta", item.ID, 1, 30, "2024-01-02", "2024-01-03"))
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCompleteLastOrderDeletesSpecialPrices(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	item := createItem(t, db, "Fountain", 5, 60, 40)

	for _, window := range [][2]string{{"2024-01-01", "2024-01-03"}, {"2024-02-01", "2024-02-03"}} {
		w := doJSON(t, r, http.MethodPost, "/orders", orderPayload("Anna", item.ID, 1, 60, window[0], window[1]))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	require.NoError(t, db.Create(&models.SpecialPrice{CustomerName: "Anna", ItemName: "Fountain", Price: 45}).Error)

	var orders []models.Order
	require.NoError(t, db.Order("id asc").Find(&orders).Error)
	require.Len(t, orders, 2)

	// First completion leaves one active order, so the override survives
	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/orders/%d/complete", orders[0].ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var specials int64
	db.Model(&models.SpecialPrice{}).Count(&specials)
	assert.Equal(t, int64(1), specials)

	// Completing the last active order purges the customer's overrides
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/orders/%d/complete", orders[1].ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	db.Model(&models.SpecialPrice{}).Count(&specials)
	assert.Equal(t, int64(0), specials)
}

func TestDeleteOrderCascadesAndCleansSpecialPrices(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	item := createItem(t, db, "Carpet", 5, 12, 6)

	payload := orderPayload("Anna", item.ID, 2, 12, "2024-01-01", "2024-01-03")
	payload["fees"] = []map[string]interface{}{{"description": "Delivery", "amount": 25.0}}
	w := doJSON(t, r, http.MethodPost, "/orders", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := uint(decodeData(t, w)["id"].(float64))

	require.NoError(t, db.Create(&models.SpecialPrice{CustomerName: "Anna", ItemName: "Carpet", Price: 10}).Error)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/orders/%d", orderID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var orders, items, fees, specials int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.OrderItem{}).Count(&items)
	db.Model(&models.OrderFee{}).Count(&fees)
	db.Model(&models.SpecialPrice{}).Count(&specials)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Zero(t, fees)
	assert.Zero(t, specials)
}

func TestCreateOrderUnknownItem(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)

	w := doJSON(t, r, http.MethodPost, "/orders", orderPayload("Anna", 42, 1, 10, "2024-01-01", "2024-01-02"))
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	item := createItem(t, db, "Vase", 5, 3, 1)

	payload := orderPayload("", item.ID, 1, 3, "2024-01-01", "2024-01-02")
	w := doJSON(t, r, http.MethodPost, "/orders", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	payload = orderPayload("Anna", item.ID, 0, 3, "2024-01-01", "2024-01-02")
	w = doJSON(t, r, http.MethodPost, "/orders", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	payload = orderPayload("Anna", item.ID, 1, 3, "not-a-date", "2024-01-02")
	w = doJSON(t, r, http.MethodPost, "/orders", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}
