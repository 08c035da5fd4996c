package models

import "gorm.io/gorm"

// StockStatus is derived from quantity and the item's minimum-stock
// threshold; it is never assigned directly.
type StockStatus string

const (
	StockInStock    StockStatus = "IN_STOCK"
	StockLowStock   StockStatus = "LOW_STOCK"
	StockOutOfStock StockStatus = "OUT_OF_STOCK"
	// StockOnOrder survives from the catalog screens; the threshold function
	// never produces it.
	StockOnOrder StockStatus = "ON_ORDER"
)

// DeriveStockStatus is the threshold function: quantity <= 0 is out of
// stock, quantity <= threshold is low, anything above is in stock.
func DeriveStockStatus(quantity, threshold float64) StockStatus {
	switch {
	case quantity <= 0:
		return StockOutOfStock
	case quantity <= threshold:
		return StockLowStock
	default:
		return StockInStock
	}
}

// AdjustmentType classifies a stock quantity change.
type AdjustmentType string

const (
	AdjustRestock      AdjustmentType = "RESTOCK"
	AdjustSale         AdjustmentType = "SALE"
	AdjustWastage      AdjustmentType = "WASTAGE"
	AdjustInitialStock AdjustmentType = "INITIAL_STOCK"
	AdjustCorrection   AdjustmentType = "CORRECTION"
)

// StockRecord holds the current stock of exactly one item. At most one
// record exists per (item_type, item_id); records are never hard-deleted so
// the transaction history stays intact.
type StockRecord struct {
	gorm.Model
	ItemType        ItemType    `json:"item_type" gorm:"type:varchar(20);not null;uniqueIndex:idx_stock_item"`
	ItemID          uint        `json:"item_id" gorm:"not null;uniqueIndex:idx_stock_item"`
	Quantity        float64     `json:"quantity" gorm:"not null;default:0"`
	Status          StockStatus `json:"status" gorm:"type:varchar(20);not null;default:'IN_STOCK'"`
	StorageLocation string      `json:"storage_location"`
}

func (StockRecord) TableName() string { return "stock_records" }

// Ref returns the typed item reference this record tracks.
func (r *StockRecord) Ref() ItemRef {
	return ItemRef{Type: r.ItemType, ID: r.ItemID}
}

// StockTransaction is the immutable audit record of one quantity change.
// quantity_after = quantity_before + quantity_change always holds, and the
// row is written in the same transaction as the StockRecord mutation.
type StockTransaction struct {
	gorm.Model
	StockRecordID  uint           `json:"stock_record_id" gorm:"not null;index"`
	StockRecord    StockRecord    `json:"stock_record" gorm:"foreignKey:StockRecordID"`
	QuantityBefore float64        `json:"quantity_before"`
	QuantityAfter  float64        `json:"quantity_after"`
	QuantityChange float64        `json:"quantity_change"`
	Type           AdjustmentType `json:"adjustment_type" gorm:"type:varchar(20);not null"`
	Reason         string         `json:"reason"`
}

func (StockTransaction) TableName() string { return "stock_transactions" }

// LocationHistory is the append-only trail of storage moves.
type LocationHistory struct {
	gorm.Model
	StockRecordID uint   `json:"stock_record_id" gorm:"not null;index"`
	FromLocation  string `json:"from_location"`
	ToLocation    string `json:"to_location"`
}

func (LocationHistory) TableName() string { return "location_histories" }
