package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the database selected by DB_DRIVER. MySQL is for deployments;
// the default SQLite file keeps local development and tests self-contained.
func InitDB() (*gorm.DB, error) {
	switch driver := os.Getenv("DB_DRIVER"); driver {
	case "", "sqlite":
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "rental.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASS"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_NAME"),
		)
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}
