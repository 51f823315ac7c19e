package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yordanhp/rental-app/models"
	"github.com/yordanhp/rental-app/utils"
)

type PackageController struct {
	DB *gorm.DB
}

func NewPackageController(db *gorm.DB) *PackageController {
	return &PackageController{DB: db}
}

// GetAllPackages
func (pc *PackageController) GetAllPackages(c *gin.Context) {
	var packages []models.PackageTemplate
	if err := pc.DB.Order("name asc").Find(&packages).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of packages", packages)
}

// GetPackageByID -> template plus its item lines and their inventory items
func (pc *PackageController) GetPackageByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("package_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid package ID"))
		return
	}

	var pkg models.PackageTemplate
	if err := pc.DB.Preload("Items").Preload("Items.InventoryItem").First(&pkg, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("package not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Package detail", pkg)
}

type packageItemReq struct {
	InventoryItemID uint `json:"inventory_item_id"`
	Quantity        int  `json:"quantity"`
}

type packageReq struct {
	Name  string           `json:"name"`
	Items []packageItemReq `json:"items"`
}

// CreatePackage
func (pc *PackageController) CreatePackage(c *gin.Context) {
	var req packageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" || len(req.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("package name and at least one item are required"))
		return
	}
	for _, item := range req.Items {
		if item.InventoryItemID == 0 || item.Quantity <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("every package item needs an inventory_item_id and a positive quantity"))
			return
		}
	}

	var count int64
	if err := pc.DB.Model(&models.PackageTemplate{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("a package named '%s' already exists", req.Name))
		return
	}

	items := make([]models.PackageTemplateItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.PackageTemplateItem{
			InventoryItemID: item.InventoryItemID,
			Quantity:        item.Quantity,
		})
	}
	pkg := models.PackageTemplate{
		Name:  req.Name,
		Items: items,
	}
	if err := pc.DB.Create(&pkg).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Package created", pkg)
}

// DeletePackage
func (pc *PackageController) DeletePackage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("package_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid package ID"))
		return
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		var pkg models.PackageTemplate
		if err := tx.First(&pkg, id).Error; err != nil {
			return err
		}
		if err := tx.Where("package_template_id = ?", pkg.ID).Delete(&models.PackageTemplateItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&pkg).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("package not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Package deleted", gin.H{"package_id": id})
}
