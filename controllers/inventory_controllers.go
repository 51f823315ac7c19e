package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yordanhp/rental-app/models"
	"github.com/yordanhp/rental-app/services"
	"github.com/yordanhp/rental-app/utils"
)

type InventoryController struct {
	DB *gorm.DB
}

func NewInventoryController(db *gorm.DB) *InventoryController {
	return &InventoryController{DB: db}
}

type inventoryItemView struct {
	models.InventoryItem
	RentedOut int `json:"rented_out"`
	InStock   int `json:"in_stock"`
}

// GetAllItems -> list items with rented_out/in_stock derived from active orders
func (ic *InventoryController) GetAllItems(c *gin.Context) {
	var items []models.InventoryItem
	if err := ic.DB.Order("name asc").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var activeItems []models.OrderItem
	if err := ic.DB.
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.completed = ?", false).
		Find(&activeItems).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rentedOut := make(map[uint]int)
	for _, oi := range activeItems {
		// Rows whose inventory item was deleted keep only the snapshot name
		if oi.InventoryItemID != nil {
			rentedOut[*oi.InventoryItemID] += oi.Quantity
		}
	}

	views := make([]inventoryItemView, 0, len(items))
	for _, item := range items {
		views = append(views, inventoryItemView{
			InventoryItem: item,
			RentedOut:     rentedOut[item.ID],
			InStock:       item.TotalQuantity - rentedOut[item.ID],
		})
	}

	utils.RespondJSON(c, http.StatusOK, "List of inventory items", views)
}

type inventoryItemReq struct {
	Name          string   `json:"name"`
	TotalQuantity *int     `json:"total_quantity"`
	PricePerItem  *float64 `json:"price_per_item"`
	PricePaid     *float64 `json:"price_paid"`
}

func (r *inventoryItemReq) validate() error {
	if r.Name == "" {
		return errors.New("item name is required")
	}
	if r.TotalQuantity == nil || r.PricePerItem == nil || r.PricePaid == nil {
		return errors.New("total_quantity, price_per_item and price_paid are required")
	}
	if *r.TotalQuantity < 0 || *r.PricePerItem < 0 || *r.PricePaid < 0 {
		return errors.New("numeric values cannot be negative")
	}
	return nil
}

// CreateItem
func (ic *InventoryController) CreateItem(c *gin.Context) {
	var req inventoryItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var count int64
	if err := ic.DB.Model(&models.InventoryItem{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("an item named '%s' already exists", req.Name))
		return
	}

	item := models.InventoryItem{
		Name:          req.Name,
		TotalQuantity: *req.TotalQuantity,
		PricePerItem:  *req.PricePerItem,
		PricePaid:     *req.PricePaid,
	}
	if err := ic.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Inventory item created", inventoryItemView{
		InventoryItem: item,
		RentedOut:     0,
		InStock:       item.TotalQuantity,
	})
}

// UpdateItem -> PATCH with the stock-reduction guard: the new total may not
// drop below what active orders currently hold, regardless of dates.
func (ic *InventoryController) UpdateItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item ID"))
		return
	}

	var req inventoryItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var item models.InventoryItem
	if err := ic.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("item not found"))
		return
	}

	currentlyRented, err := services.CurrentlyRented(ic.DB, item.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if *req.TotalQuantity < currentlyRented {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("cannot set total quantity to %d, there are currently %d items rented out", *req.TotalQuantity, currentlyRented))
		return
	}

	var count int64
	if err := ic.DB.Model(&models.InventoryItem{}).
		Where("name = ? AND id <> ?", req.Name, item.ID).
		Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("an item named '%s' already exists", req.Name))
		return
	}

	item.Name = req.Name
	item.TotalQuantity = *req.TotalQuantity
	item.PricePerItem = *req.PricePerItem
	item.PricePaid = *req.PricePaid
	if err := ic.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Inventory item updated", item)
}

// DeleteItem -> blocked while any order line (active or completed) still
// references the item, to preserve history.
func (ic *InventoryController) DeleteItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item ID"))
		return
	}

	var item models.InventoryItem
	if err := ic.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("item not found"))
		return
	}

	var refs int64
	if err := ic.DB.Model(&models.OrderItem{}).Where("inventory_item_id = ?", item.ID).Count(&refs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if refs > 0 {
		utils.RespondError(c, http.StatusConflict,
			errors.New("cannot delete item: it is part of an existing order"))
		return
	}

	if err := ic.DB.Delete(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Inventory item deleted", gin.H{"item_id": item.ID})
}

type availabilityReq struct {
	ItemID         uint   `json:"item_id" binding:"required"`
	PickUpDate     string `json:"pick_up_date" binding:"required"`
	DeliveryDate   string `json:"delivery_date" binding:"required"`
	EditingOrderID uint   `json:"editing_order_id"`
}

// CheckAvailability -> how many units are already committed during the window.
// Read-only; the UI calls this before submitting an order.
func (ic *InventoryController) CheckAvailability(c *gin.Context) {
	var req availabilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	pickUp, err := utils.ParseDate(req.PickUpDate)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid pick_up_date"))
		return
	}
	delivery, err := utils.ParseDate(req.DeliveryDate)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid delivery_date"))
		return
	}

	var item models.InventoryItem
	if err := ic.DB.First(&item, req.ItemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrItemNotFound)
		return
	}

	rented, err := services.RentedOut(ic.DB, item.ID, pickUp, delivery, req.EditingOrderID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Availability", gin.H{
		"rented_out": rented,
		"available":  item.TotalQuantity - rented,
	})
}
