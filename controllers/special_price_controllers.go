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

type SpecialPriceController struct {
	DB *gorm.DB
}

func NewSpecialPriceController(db *gorm.DB) *SpecialPriceController {
	return &SpecialPriceController{DB: db}
}

// GetAllSpecialPrices
func (sc *SpecialPriceController) GetAllSpecialPrices(c *gin.Context) {
	var specials []models.SpecialPrice
	if err := sc.DB.Order("customer_name asc").Find(&specials).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of special prices", specials)
}

type specialPriceReq struct {
	CustomerName string   `json:"customer_name"`
	ItemName     string   `json:"item_name"`
	Price        *float64 `json:"price"`
}

// UpsertSpecialPrice creates or updates the (customer, item) override and, in
// the same transaction, rewrites the prices on all of that customer's active
// order items for the item.
func (sc *SpecialPriceController) UpsertSpecialPrice(c *gin.Context) {
	var req specialPriceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.CustomerName == "" || req.ItemName == "" || req.Price == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("customer_name, item_name and price are required"))
		return
	}
	if *req.Price < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price cannot be negative"))
		return
	}

	var special models.SpecialPrice
	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		var item models.InventoryItem
		if err := tx.Where("name = ?", req.ItemName).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return services.ErrItemNotFound
			}
			return err
		}

		err := tx.Where("customer_name = ? AND item_name = ?", req.CustomerName, req.ItemName).
			First(&special).Error
		switch {
		case err == nil:
			special.Price = *req.Price
			if err := tx.Save(&special).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			special = models.SpecialPrice{
				CustomerName: req.CustomerName,
				ItemName:     req.ItemName,
				Price:        *req.Price,
			}
			if err := tx.Create(&special).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return services.ApplySpecialPrice(tx, req.CustomerName, item.ID, *req.Price)
	})
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			utils.RespondError(c, http.StatusNotFound, fmt.Errorf("inventory item '%s' not found", req.ItemName))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Special price saved", special)
}

// DeleteSpecialPrice reverts the affected order items to the item's standard
// price before removing the override itself, all in one transaction.
func (sc *SpecialPriceController) DeleteSpecialPrice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("special_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid special price ID"))
		return
	}

	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		var special models.SpecialPrice
		if err := tx.First(&special, id).Error; err != nil {
			return err
		}

		var item models.InventoryItem
		err := tx.Where("name = ?", special.ItemName).First(&item).Error
		switch {
		case err == nil:
			if err := services.RevertSpecialPrice(tx, special.CustomerName, &item); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Item was deleted; nothing to revert, the override still goes away.
		default:
			return err
		}

		return tx.Delete(&special).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("special price not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Special price deleted", gin.H{"special_price_id": id})
}
