package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yordanhp/rental-app/models"
)

func TestCreateItemRejectsDuplicateName(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	createItem(t, db, "Chairs", 10, 2, 1)

	payload := map[string]interface{}{
		"name":           "Chairs",
		"total_quantity": 5,
		"price_per_item": 2.5,
		"price_paid":     1.0,
	}
	w := doJSON(t, r, http.MethodPost, "/inventory", payload)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestCreateItemValidation(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)

	w := doJSON(t, r, http.MethodPost, "/inventory", map[string]interface{}{
		"name": "Chairs",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/inventory", map[string]interface{}{
		"name":           "Chairs",
		"total_quantity": -1,
		"price_per_item": 2.0,
		"price_paid":     1.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestUpdateItemBlockedByRentedStock(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	item := createItem(t, db, "Chairs", 10, 2, 1)

	w := doJSON(t, r, http.MethodPost, "/orders", orderPayload("Anna", item.ID, 6, 2, "2024-01-01", "2024-01-05"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	payload := map[string]interface{}{
		"name":           "Chairs",
		"total_quantity": 5,
		"price_per_item": 2.0,
		"price_paid":     1.0,
	}
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/inventory/%d", item.ID), payload)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// Reducing to exactly the rented amount is allowed
	payload["total_quantity"] = 6
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/inventory/%d", item.ID), payload)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestDeleteItemBlockedWhileReferenced(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	item := createItem(t, db, "Chairs", 10, 2, 1)

	w := doJSON(t, r, http.MethodPost, "/orders", orderPayload("Anna", item.ID, 1, 2, "2024-01-01", "2024-01-05"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/inventory/%d", item.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var count int64
	db.Model(&models.InventoryItem{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteUnreferencedItem(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	item := createItem(t, db, "Chairs", 10, 2, 1)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/inventory/%d", item.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestGetAllItemsDerivesStock(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	item := createItem(t, db, "Chairs", 10, 2, 1)

	w := doJSON(t, r, http.MethodPost, "/orders", orderPayload("Anna", item.ID, 4, 2, "2024-01-01", "2024-01-05"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/inventory", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"rented_out":4`)
	assert.Contains(t, w.Body.String(), `"in_stock":6`)
}

func TestCheckAvailabilityEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	item := createItem(t, db, "Chairs", 10, 2, 1)

	w := doJSON(t, r, http.MethodPost, "/orders", orderPayload("Anna", item.ID, 4, 2, "2024-01-01", "2024-01-10"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := uint(decodeData(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodPost, "/inventory/availability", map[string]interface{}{
		"item_id":       item.ID,
		"pick_up_date":  "2024-01-05",
		"delivery_date": "2024-01-06",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeData(t, w)
	assert.Equal(t, float64(4), data["rented_out"])
	assert.Equal(t, float64(6), data["available"])

	// Excluding the order while editing it ignores its own items
	w = doJSON(t, r, http.MethodPost, "/inventory/availability", map[string]interface{}{
		"item_id":          item.ID,
		"pick_up_date":     "2024-01-05",
		"delivery_date":    "2024-01-06",
		"editing_order_id": orderID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(0), decodeData(t, w)["rented_out"])
}

func TestCheckAvailabilityUnknownItem(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)

	w := doJSON(t, r, http.MethodPost, "/inventory/availability", map[string]interface{}{
		"item_id":       99,
		"pick_up_date":  "2024-01-05",
		"delivery_date": "2024-01-06",
	})
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}
