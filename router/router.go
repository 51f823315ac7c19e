package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yordanhp/rental-app/controllers"
	"github.com/yordanhp/rental-app/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	inventoryCtrl := controllers.NewInventoryController(db)
	orderCtrl := controllers.NewOrderController(db)
	specialCtrl := controllers.NewSpecialPriceController(db)
	packageCtrl := controllers.NewPackageController(db)
	statsCtrl := controllers.NewStatisticsController(db)
	exportCtrl := controllers.NewExportController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// INVENTORY
	r.GET("/inventory", inventoryCtrl.GetAllItems)
	r.POST("/inventory", inventoryCtrl.CreateItem)
	r.PATCH("/inventory/:item_id", inventoryCtrl.UpdateItem)
	r.DELETE("/inventory/:item_id", inventoryCtrl.DeleteItem)
	r.POST("/inventory/availability", inventoryCtrl.CheckAvailability)

	// ORDERS
	r.GET("/orders", orderCtrl.GetActiveOrders)
	r.GET("/completed-orders", orderCtrl.GetCompletedOrders)
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.PUT("/orders/:order_id", orderCtrl.UpdateOrder)
	r.PATCH("/orders/:order_id/complete", orderCtrl.CompleteOrder)
	r.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)
	r.GET("/orders/:order_id/pdf", exportCtrl.ExportOrderPDF)

	// SPECIAL PRICES
	r.GET("/special-prices", specialCtrl.GetAllSpecialPrices)
	r.POST("/special-prices", specialCtrl.UpsertSpecialPrice)
	r.DELETE("/special-prices/:special_id", specialCtrl.DeleteSpecialPrice)

	// PACKAGES
	r.GET("/packages", packageCtrl.GetAllPackages)
	r.POST("/packages", packageCtrl.CreatePackage)
	r.GET("/packages/:package_id", packageCtrl.GetPackageByID)
	r.DELETE("/packages/:package_id", packageCtrl.DeletePackage)

	// STATISTICS
	r.GET("/statistics", statsCtrl.GetStatistics)
	r.GET("/statistics/chart", statsCtrl.ExportMonthlySalesChart)

	return r
}
