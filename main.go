package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yordanhp/rental-app/config"
	"github.com/yordanhp/rental-app/database"
	"github.com/yordanhp/rental-app/middlewares"
	"github.com/yordanhp/rental-app/models"
	"github.com/yordanhp/rental-app/router"
	"github.com/yordanhp/rental-app/utils"
	"gorm.io/gorm"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// One-off reload of the historical CSV exports, opt-in because it wipes
	// everything first.
	if seedDir := os.Getenv("SEED_DATA_DIR"); seedDir != "" {
		if err := database.SeedFromCSV(db, seedDir); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed from %s: %v", seedDir, err)
		}
	}

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db)
	r.Use(rateLimiter.RateLimit())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.InventoryItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderFee{},
		&models.SpecialPrice{},
		&models.PackageTemplate{},
		&models.PackageTemplateItem{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
