package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yordanhp/rental-app/models"
	"github.com/yordanhp/rental-app/services"
	"github.com/yordanhp/rental-app/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

type orderItemReq struct {
	ItemID       uint     `json:"item_id"`
	Quantity     int      `json:"quantity"`
	UnitPrice    float64  `json:"unit_price"`
	Total        float64  `json:"total"`
	SpecialPrice *float64 `json:"special_price"`
}

type orderFeeReq struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type orderReq struct {
	CustomerName string         `json:"customer_name"`
	PickUpDate   string         `json:"pick_up_date"`
	DeliveryDate string         `json:"delivery_date"`
	Deposit      *float64       `json:"deposit"`
	FinalPrice   *float64       `json:"final_price"`
	Items        []orderItemReq `json:"items"`
	Fees         []orderFeeReq  `json:"fees"`
}

func (r *orderReq) parse() (pickUp, delivery time.Time, err error) {
	if r.CustomerName == "" || r.PickUpDate == "" || r.DeliveryDate == "" || len(r.Items) == 0 {
		err = errors.New("customer_name, pick_up_date, delivery_date and items are required")
		return
	}
	for _, item := range r.Items {
		if item.ItemID == 0 || item.Quantity <= 0 {
			err = errors.New("every item needs an item_id and a positive quantity")
			return
		}
		if item.UnitPrice < 0 || item.Total < 0 {
			err = errors.New("item prices cannot be negative")
			return
		}
	}
	if pickUp, err = utils.ParseDate(r.PickUpDate); err != nil {
		err = errors.New("invalid pick_up_date")
		return
	}
	if delivery, err = utils.ParseDate(r.DeliveryDate); err != nil {
		err = errors.New("invalid delivery_date")
		return
	}
	return
}

func respondOrderError(c *gin.Context, err error) {
	var insufficient *services.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrItemNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
	default:
		utils.ErrorLogger.Printf("order mutation failed: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// GetActiveOrders -> orders still consuming stock, newest first
func (oc *OrderController) GetActiveOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("Items").Preload("Fees").
		Where("completed = ?", false).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of active orders", orders)
}

// GetCompletedOrders -> archived orders, most recent pick-up first
func (oc *OrderController) GetCompletedOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("Items").Preload("Fees").
		Where("completed = ?", true).
		Order("pick_up_date desc").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of completed orders", orders)
}

// GetOrderByID -> detail of one order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.Preload("Items").Preload("Fees").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// CreateOrder runs the whole check-then-insert inside one transaction: every
// item is re-checked against the committed quantities visible to this
// transaction, and the first shortfall aborts without writing anything.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req orderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	pickUp, delivery, err := req.parse()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		orderItems := make([]models.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			inv, err := services.EnsureAvailable(tx, item.ItemID, item.Quantity, pickUp, delivery, 0)
			if err != nil {
				return err
			}
			itemID := inv.ID
			orderItems = append(orderItems, models.OrderItem{
				InventoryItemID: &itemID,
				ItemName:        inv.Name, // snapshot of the current name
				Quantity:        item.Quantity,
				UnitPrice:       item.UnitPrice,
				Total:           item.Total,
				SpecialPrice:    item.SpecialPrice,
			})
		}

		fees := make([]models.OrderFee, 0, len(req.Fees))
		for _, fee := range req.Fees {
			fees = append(fees, models.OrderFee{
				Description: fee.Description,
				Amount:      fee.Amount,
			})
		}

		order = models.Order{
			CustomerName: req.CustomerName,
			PickUpDate:   pickUp,
			DeliveryDate: delivery,
			Deposit:      req.Deposit,
			FinalPrice:   req.FinalPrice,
			Items:        orderItems,
			Fees:         fees,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// UpdateOrder replaces the order's item list wholesale: the old rows are
// dropped and the new set inserted, so items left out of the request simply
// disappear. Each availability check excludes this order so its own pre-edit
// items never count against it.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order ID"))
		return
	}

	var req orderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	pickUp, delivery, err := req.parse()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}

		orderItems := make([]models.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			inv, err := services.EnsureAvailable(tx, item.ItemID, item.Quantity, pickUp, delivery, order.ID)
			if err != nil {
				return err
			}
			itemID := inv.ID
			orderItems = append(orderItems, models.OrderItem{
				OrderID:         order.ID,
				InventoryItemID: &itemID,
				ItemName:        inv.Name,
				Quantity:        item.Quantity,
				UnitPrice:       item.UnitPrice,
				Total:           item.Total,
				SpecialPrice:    item.SpecialPrice,
			})
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return err
		}

		order.CustomerName = req.CustomerName
		order.PickUpDate = pickUp
		order.DeliveryDate = delivery
		order.Deposit = req.Deposit
		return tx.Save(&order).Error
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated", gin.H{"order_id": order.ID})
}

// CompleteOrder marks the order completed exactly once; the guarded update
// rejects a second completion instead of silently succeeding. When this was
// the customer's last active order their special prices go with it.
func (oc *OrderController) CompleteOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order ID"))
		return
	}

	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND completed = ?", order.ID, false).
			Update("completed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return services.CleanupSpecialPrices(tx, order.CustomerName)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("order not found or already completed"))
			return
		}
		respondOrderError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order completed", gin.H{"order_id": id})
}

// DeleteOrder removes the order together with its items and fees, then runs
// the same last-active-order special price cleanup as CompleteOrder.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order ID"))
		return
	}

	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderFee{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&order).Error; err != nil {
			return err
		}

		return services.CleanupSpecialPrices(tx, order.CustomerName)
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": id})
}
