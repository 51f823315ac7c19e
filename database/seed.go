package database

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/yordanhp/rental-app/models"
	"github.com/yordanhp/rental-app/utils"
)

// csvRecords reads a CSV file into header-keyed maps. Headers are lowercased
// so the historical export files work regardless of their casing.
func csvRecords(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, value := range row {
			if i < len(header) {
				record[header[i]] = strings.TrimSpace(value)
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func atoiOrZero(value string) int {
	n, _ := strconv.Atoi(value)
	return n
}

func atofOrZero(value string) float64 {
	f, _ := strconv.ParseFloat(value, 64)
	return f
}

// SeedFromCSV wipes the database and reloads it from inventory.csv and
// orders.csv in dir. The order rows are line items of historical rentals;
// rows sharing (customername, pickupdate) are folded into one completed
// order. Runs in a single transaction.
func SeedFromCSV(db *gorm.DB, dir string) error {
	inventoryRecords, err := csvRecords(filepath.Join(dir, "inventory.csv"))
	if err != nil {
		return err
	}
	orderRecords, err := csvRecords(filepath.Join(dir, "orders.csv"))
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// Wipe in dependency order.
		for _, model := range []interface{}{
			&models.PackageTemplateItem{},
			&models.PackageTemplate{},
			&models.SpecialPrice{},
			&models.OrderFee{},
			&models.OrderItem{},
			&models.Order{},
			&models.InventoryItem{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}

		itemsByName := make(map[string]*models.InventoryItem)
		for _, record := range inventoryRecords {
			if record["name"] == "" {
				continue
			}
			item := models.InventoryItem{
				Name:          record["name"],
				TotalQuantity: atoiOrZero(record["totalquantity"]),
				PricePerItem:  atofOrZero(record["priceperitem"]),
				PricePaid:     atofOrZero(record["pricepaid"]),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			itemsByName[item.Name] = &item
		}

		type orderKey struct {
			customer string
			pickUp   string
		}
		grouped := make(map[orderKey]*models.Order)
		var keys []orderKey

		for _, record := range orderRecords {
			item, ok := itemsByName[record["itemname"]]
			if !ok {
				utils.InfoLogger.Printf("seed: skipping unknown item %q", record["itemname"])
				continue
			}

			pickUp, err := utils.ParseDate(record["pickupdate"])
			if err != nil {
				return fmt.Errorf("seed: bad pickupdate %q: %w", record["pickupdate"], err)
			}
			delivery, err := utils.ParseDate(record["deliverydate"])
			if err != nil {
				return fmt.Errorf("seed: bad deliverydate %q: %w", record["deliverydate"], err)
			}

			key := orderKey{customer: record["customername"], pickUp: record["pickupdate"]}
			order, ok := grouped[key]
			if !ok {
				order = &models.Order{
					CustomerName: record["customername"],
					PickUpDate:   pickUp,
					DeliveryDate: delivery,
					Completed:    true,
				}
				if raw := record["finalprice"]; raw != "" {
					price := atofOrZero(raw)
					order.FinalPrice = &price
				}
				grouped[key] = order
				keys = append(keys, key)
			}

			quantity := atoiOrZero(record["quantity"])
			unitPrice := atofOrZero(record["unitprice"])
			total := atofOrZero(record["total"])
			if total == 0 {
				total = unitPrice * float64(quantity)
			}

			itemID := item.ID
			order.Items = append(order.Items, models.OrderItem{
				InventoryItemID: &itemID,
				ItemName:        item.Name,
				Quantity:        quantity,
				UnitPrice:       unitPrice,
				Total:           total,
			})
		}

		for _, key := range keys {
			if err := tx.Create(grouped[key]).Error; err != nil {
				return err
			}
		}

		utils.InfoLogger.Printf("seed: loaded %d inventory items and %d completed orders", len(itemsByName), len(keys))
		return nil
	})
}
