package controllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wcharczuk/go-chart/v2"
	"gorm.io/gorm"

	"github.com/yordanhp/rental-app/models"
	"github.com/yordanhp/rental-app/utils"
)

type StatisticsController struct {
	DB *gorm.DB
}

func NewStatisticsController(db *gorm.DB) *StatisticsController {
	return &StatisticsController{DB: db}
}

type itemSales struct {
	ItemName   string  `json:"item_name"`
	TotalSales float64 `json:"total_sales"`
	ROI        float64 `json:"roi"`
}

type monthlySale struct {
	Month int     `json:"month"`
	Sales float64 `json:"sales"`
}

type itemFrequency struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type statisticsKPIs struct {
	TotalLifetimeSales  float64 `json:"total_lifetime_sales"`
	TotalSalesThisMonth float64 `json:"total_sales_this_month"`
	TotalSalesThisYear  float64 `json:"total_sales_this_year"`
	AverageOrderValue   float64 `json:"average_order_value"`
}

type statisticsResponse struct {
	KPIs             statisticsKPIs           `json:"kpis"`
	SalesByItem      []itemSales              `json:"sales_by_item"`
	MonthlySales     map[string][]monthlySale `json:"monthly_sales"`
	Top10ByValue     []itemSales              `json:"top_10_by_value"`
	Top10ByFrequency []itemFrequency          `json:"top_10_by_frequency"`
}

// orderTotal honours the manual final-price override; otherwise items + fees.
func orderTotal(order *models.Order) float64 {
	if order.FinalPrice != nil {
		return *order.FinalPrice
	}
	var total float64
	for _, item := range order.Items {
		total += item.Total
	}
	for _, fee := range order.Fees {
		total += fee.Amount
	}
	return total
}

// itemDisplayName falls back from the snapshot to the live relation.
func itemDisplayName(item *models.OrderItem) string {
	if item.ItemName != "" {
		return item.ItemName
	}
	if item.InventoryItem != nil {
		return item.InventoryItem.Name
	}
	return ""
}

func (sc *StatisticsController) completedOrders() ([]models.Order, error) {
	var orders []models.Order
	err := sc.DB.Preload("Items").Preload("Items.InventoryItem").Preload("Fees").
		Where("completed = ?", true).
		Find(&orders).Error
	return orders, err
}

// GetStatistics aggregates completed orders into the dashboard payload: KPI
// totals, per-item sales with ROI, per-year monthly sales and the two top-10
// rankings.
func (sc *StatisticsController) GetStatistics(c *gin.Context) {
	orders, err := sc.completedOrders()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	resp := statisticsResponse{
		SalesByItem:      []itemSales{},
		MonthlySales:     map[string][]monthlySale{},
		Top10ByValue:     []itemSales{},
		Top10ByFrequency: []itemFrequency{},
	}
	if len(orders) == 0 {
		utils.RespondJSON(c, http.StatusOK, "Statistics", resp)
		return
	}

	now := time.Now().UTC()
	for i := range orders {
		total := orderTotal(&orders[i])
		resp.KPIs.TotalLifetimeSales += total

		delivery := orders[i].DeliveryDate.UTC()
		if delivery.Year() == now.Year() {
			resp.KPIs.TotalSalesThisYear += total
			if delivery.Month() == now.Month() {
				resp.KPIs.TotalSalesThisMonth += total
			}
		}

		year := strconv.Itoa(delivery.Year())
		if _, ok := resp.MonthlySales[year]; !ok {
			months := make([]monthlySale, 12)
			for m := range months {
				months[m].Month = m + 1
			}
			resp.MonthlySales[year] = months
		}
		resp.MonthlySales[year][int(delivery.Month())-1].Sales += total
	}
	resp.KPIs.AverageOrderValue = resp.KPIs.TotalLifetimeSales / float64(len(orders))

	// Per-item sales. Orders with a final-price override are skipped: their
	// revenue cannot be attributed to individual lines.
	type itemAgg struct {
		totalSales   float64
		pricePaid    float64
		stockedUnits int
	}
	salesByItem := make(map[string]*itemAgg)
	for i := range orders {
		if orders[i].FinalPrice != nil {
			continue
		}
		for j := range orders[i].Items {
			item := &orders[i].Items[j]
			name := itemDisplayName(item)
			if name == "" {
				continue
			}

			lineTotal := item.Total
			if item.SpecialPrice != nil {
				lineTotal = *item.SpecialPrice
			}

			agg, ok := salesByItem[name]
			if !ok {
				agg = &itemAgg{}
				if item.InventoryItem != nil {
					agg.pricePaid = item.InventoryItem.PricePaid
					agg.stockedUnits = item.InventoryItem.TotalQuantity
				}
				salesByItem[name] = agg
			}
			agg.totalSales += lineTotal
		}
	}

	for name, agg := range salesByItem {
		if agg.totalSales <= 0 {
			continue
		}
		var roi float64
		if investment := agg.pricePaid * float64(agg.stockedUnits); investment > 0 {
			roi = math.Round(agg.totalSales/investment*100*100) / 100
		}
		resp.SalesByItem = append(resp.SalesByItem, itemSales{
			ItemName:   name,
			TotalSales: agg.totalSales,
			ROI:        roi,
		})
	}
	sort.Slice(resp.SalesByItem, func(i, j int) bool {
		return resp.SalesByItem[i].TotalSales > resp.SalesByItem[j].TotalSales
	})
	if len(resp.SalesByItem) > 10 {
		resp.Top10ByValue = resp.SalesByItem[:10]
	} else {
		resp.Top10ByValue = resp.SalesByItem
	}

	// Frequency counts each item once per order it appears in.
	frequency := make(map[string]int)
	for i := range orders {
		seen := make(map[string]bool)
		for j := range orders[i].Items {
			if name := itemDisplayName(&orders[i].Items[j]); name != "" && !seen[name] {
				seen[name] = true
				frequency[name]++
			}
		}
	}
	for name, count := range frequency {
		resp.Top10ByFrequency = append(resp.Top10ByFrequency, itemFrequency{Name: name, Count: count})
	}
	sort.Slice(resp.Top10ByFrequency, func(i, j int) bool {
		if resp.Top10ByFrequency[i].Count != resp.Top10ByFrequency[j].Count {
			return resp.Top10ByFrequency[i].Count > resp.Top10ByFrequency[j].Count
		}
		return resp.Top10ByFrequency[i].Name < resp.Top10ByFrequency[j].Name
	})
	if len(resp.Top10ByFrequency) > 10 {
		resp.Top10ByFrequency = resp.Top10ByFrequency[:10]
	}

	utils.RespondJSON(c, http.StatusOK, "Statistics", resp)
}

// ExportMonthlySalesChart renders one year's monthly sales as a PNG bar chart.
// GET /statistics/chart?year=2026 (defaults to the current year).
func (sc *StatisticsController) ExportMonthlySalesChart(c *gin.Context) {
	year := time.Now().UTC().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid year"))
			return
		}
		year = parsed
	}

	orders, err := sc.completedOrders()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var months [12]float64
	var yearTotal float64
	for i := range orders {
		delivery := orders[i].DeliveryDate.UTC()
		if delivery.Year() == year {
			total := orderTotal(&orders[i])
			months[int(delivery.Month())-1] += total
			yearTotal += total
		}
	}
	if yearTotal == 0 {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("no completed orders in %d", year))
		return
	}

	bars := make([]chart.Value, 0, 12)
	for m, sales := range months {
		bars = append(bars, chart.Value{
			Label: time.Month(m + 1).String()[:3],
			Value: sales,
		})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Monthly sales %d", year),
		Width:    900,
		Height:   400,
		BarWidth: 50,
		Bars:     bars,
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=sales-%d.png", year))
	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	if err := graph.Render(chart.PNG, c.Writer); err != nil {
		utils.ErrorLogger.Printf("chart render failed: %v", err)
	}
}
