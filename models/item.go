package models

import (
	"fmt"

	"gorm.io/gorm"
)

// ItemType discriminates the three stocked item kinds.
type ItemType string

const (
	ItemMaterial ItemType = "MATERIAL"
	ItemProduct  ItemType = "PRODUCT"
	ItemTool     ItemType = "TOOL"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemMaterial, ItemProduct, ItemTool:
		return true
	}
	return false
}

// DefaultMinStock is the fallback threshold when the catalog item does not
// configure one: materials 5, everything else 2.
func (t ItemType) DefaultMinStock() float64 {
	if t == ItemMaterial {
		return 5
	}
	return 2
}

// ItemRef is a typed reference to exactly one stocked item. It stands in for
// a would-be foreign key into one of the materials/products/tools tables.
type ItemRef struct {
	Type ItemType `json:"item_type"`
	ID   uint     `json:"item_id"`
}

func (r ItemRef) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("unknown item type %q", r.Type)
	}
	if r.ID == 0 {
		return fmt.Errorf("item id must be set")
	}
	return nil
}

func (r ItemRef) String() string {
	return fmt.Sprintf("%s/%d", r.Type, r.ID)
}

func MaterialRef(id uint) ItemRef { return ItemRef{Type: ItemMaterial, ID: id} }
func ProductRef(id uint) ItemRef  { return ItemRef{Type: ItemProduct, ID: id} }
func ToolRef(id uint) ItemRef     { return ItemRef{Type: ItemTool, ID: id} }

// Material is a raw input (leather, thread, hardware).
type Material struct {
	gorm.Model
	Name          string   `json:"name" gorm:"not null"`
	SKU           string   `json:"sku" gorm:"uniqueIndex"`
	Unit          string   `json:"unit"` // e.g. sqft, meter, piece
	SupplierID    *uint    `json:"supplier_id"`
	Supplier      Supplier `json:"supplier" gorm:"foreignKey:SupplierID"`
	CostPrice     float64  `json:"cost_price"`
	MinStockLevel *float64 `json:"min_stock_level"`
	MaxStockLevel *float64 `json:"max_stock_level"`
}

// Product is a finished good offered for sale.
type Product struct {
	gorm.Model
	Name          string   `json:"name" gorm:"not null"`
	SKU           string   `json:"sku" gorm:"uniqueIndex"`
	SalePrice     float64  `json:"sale_price"`
	SupplierID    *uint    `json:"supplier_id"`
	Supplier      Supplier `json:"supplier" gorm:"foreignKey:SupplierID"`
	MinStockLevel *float64 `json:"min_stock_level"`
	MaxStockLevel *float64 `json:"max_stock_level"`
}

// Tool is workshop equipment tracked both as stock and through checkouts.
type Tool struct {
	gorm.Model
	Name          string   `json:"name" gorm:"not null"`
	SKU           string   `json:"sku" gorm:"uniqueIndex"`
	ToolType      string   `json:"tool_type"` // e.g. cutting, stitching, edge
	SupplierID    *uint    `json:"supplier_id"`
	Supplier      Supplier `json:"supplier" gorm:"foreignKey:SupplierID"`
	MinStockLevel *float64 `json:"min_stock_level"`
	MaxStockLevel *float64 `json:"max_stock_level"`
}

type Supplier struct {
	gorm.Model
	Name         string `json:"name" gorm:"not null"`
	ContactEmail string `json:"contact_email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}
