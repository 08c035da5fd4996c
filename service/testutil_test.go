package service

import (
	"testing"

	"workshop-inventory/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	// The in-memory database lives per connection.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Supplier{},
		&models.Material{},
		&models.Product{},
		&models.Tool{},
		&models.StockRecord{},
		&models.StockTransaction{},
		&models.LocationHistory{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderLine{},
		&models.ToolList{},
		&models.ToolListItem{},
		&models.ToolCheckout{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func f64(v float64) *float64 { return &v }

func seedSupplier(t *testing.T, db *gorm.DB, name string) *models.Supplier {
	t.Helper()
	s := models.Supplier{Name: name}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed supplier %s: %v", name, err)
	}
	return &s
}

func seedMaterial(t *testing.T, db *gorm.DB, m models.Material) *models.Material {
	t.Helper()
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("seed material %s: %v", m.Name, err)
	}
	return &m
}

func seedTool(t *testing.T, db *gorm.DB, tool models.Tool) *models.Tool {
	t.Helper()
	if err := db.Create(&tool).Error; err != nil {
		t.Fatalf("seed tool %s: %v", tool.Name, err)
	}
	return &tool
}
