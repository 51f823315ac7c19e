package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"gorm.io/gorm"

	"github.com/yordanhp/rental-app/models"
	"github.com/yordanhp/rental-app/utils"
)

type ExportController struct {
	DB *gorm.DB
}

func NewExportController(db *gorm.DB) *ExportController {
	return &ExportController{DB: db}
}

// ExportOrderPDF renders one order as a printable PDF: header, rental window,
// item table, fees, deposit and the final total.
func (ec *ExportController) ExportOrderPDF(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order ID"))
		return
	}

	var order models.Order
	if err := ec.DB.Preload("Items").Preload("Items.InventoryItem").Preload("Fees").
		First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Rental Order #%d", order.ID))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Customer: %s", order.CustomerName))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Pick-up: %s", utils.FormatDate(order.PickUpDate)))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Delivery: %s", utils.FormatDate(order.DeliveryDate)))
	pdf.Ln(10)

	// Item table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(80, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Unit price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	var itemsTotal float64
	for i := range order.Items {
		item := &order.Items[i]
		name := itemDisplayName(item)
		if name == "" {
			name = "Deleted Item"
		}
		if item.SpecialPrice != nil {
			name += " *"
		}
		itemsTotal += item.Total

		pdf.CellFormat(80, 7, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, strconv.Itoa(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, utils.FormatCurrency(item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, utils.FormatCurrency(item.Total), "1", 1, "R", false, 0, "")
	}

	var feesTotal float64
	for _, fee := range order.Fees {
		feesTotal += fee.Amount
		pdf.CellFormat(140, 7, fee.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, utils.FormatCurrency(fee.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	total := itemsTotal + feesTotal
	if order.FinalPrice != nil {
		total = *order.FinalPrice
		pdf.CellFormat(140, 7, "Agreed final price", "", 0, "L", false, 0, "")
	} else {
		pdf.CellFormat(140, 7, "Total", "", 0, "L", false, 0, "")
	}
	pdf.CellFormat(40, 7, utils.FormatCurrency(total), "", 1, "R", false, 0, "")

	if order.Deposit != nil {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(140, 7, "Deposit", "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, utils.FormatCurrency(*order.Deposit), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.ErrorLogger.Printf("pdf export failed for order %d: %v", order.ID, err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=order-%d.pdf", order.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
