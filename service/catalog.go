package service

import (
	"workshop-inventory/apperrors"
	"workshop-inventory/models"

	"gorm.io/gorm"
)

// ItemInfo is the slice of catalog data the core depends on. Thresholds are
// optional; the item-type default applies when nil.
type ItemInfo struct {
	Name          string
	MinStockLevel *float64
	MaxStockLevel *float64
	SupplierID    *uint
}

// MinStock resolves the effective minimum-stock threshold for an item of
// the given type.
func (i *ItemInfo) MinStock(t models.ItemType) float64 {
	if i != nil && i.MinStockLevel != nil {
		return *i.MinStockLevel
	}
	return t.DefaultMinStock()
}

// Catalog is the item-catalog boundary: materials, products and tools.
type Catalog interface {
	ItemInfo(ref models.ItemRef) (*ItemInfo, error)
}

// SupplierDirectory validates and labels supplier references.
type SupplierDirectory interface {
	SupplierExists(id uint) (bool, error)
	SupplierName(id uint) (string, error)
}

type gormCatalog struct {
	db *gorm.DB
}

// NewCatalog returns a Catalog backed by the materials/products/tools tables.
func NewCatalog(db *gorm.DB) Catalog {
	return &gormCatalog{db: db}
}

func (c *gormCatalog) ItemInfo(ref models.ItemRef) (*ItemInfo, error) {
	if err := ref.Validate(); err != nil {
		return nil, apperrors.Validation("item", ref.ID, "item_type", err.Error())
	}

	switch ref.Type {
	case models.ItemMaterial:
		var m models.Material
		if err := c.db.First(&m, ref.ID).Error; err != nil {
			return nil, c.wrapLookup(err, "material", ref.ID)
		}
		return &ItemInfo{Name: m.Name, MinStockLevel: m.MinStockLevel, MaxStockLevel: m.MaxStockLevel, SupplierID: m.SupplierID}, nil
	case models.ItemProduct:
		var p models.Product
		if err := c.db.First(&p, ref.ID).Error; err != nil {
			return nil, c.wrapLookup(err, "product", ref.ID)
		}
		return &ItemInfo{Name: p.Name, MinStockLevel: p.MinStockLevel, MaxStockLevel: p.MaxStockLevel, SupplierID: p.SupplierID}, nil
	default:
		var t models.Tool
		if err := c.db.First(&t, ref.ID).Error; err != nil {
			return nil, c.wrapLookup(err, "tool", ref.ID)
		}
		return &ItemInfo{Name: t.Name, MinStockLevel: t.MinStockLevel, MaxStockLevel: t.MaxStockLevel, SupplierID: t.SupplierID}, nil
	}
}

func (c *gormCatalog) wrapLookup(err error, entity string, id uint) error {
	if isRecordNotFound(err) {
		return apperrors.NotFound(entity, id)
	}
	return err
}

type gormSupplierDirectory struct {
	db *gorm.DB
}

// NewSupplierDirectory returns a SupplierDirectory backed by the suppliers
// table.
func NewSupplierDirectory(db *gorm.DB) SupplierDirectory {
	return &gormSupplierDirectory{db: db}
}

func (d *gormSupplierDirectory) SupplierExists(id uint) (bool, error) {
	var count int64
	if err := d.db.Model(&models.Supplier{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (d *gormSupplierDirectory) SupplierName(id uint) (string, error) {
	var s models.Supplier
	if err := d.db.First(&s, id).Error; err != nil {
		if isRecordNotFound(err) {
			return "", apperrors.NotFound("supplier", id)
		}
		return "", err
	}
	return s.Name, nil
}
