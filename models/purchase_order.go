package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus only ever advances forward:
// DRAFT -> ORDERED -> {PARTIALLY_RECEIVED ->} RECEIVED.
type OrderStatus string

const (
	OrderDraft             OrderStatus = "DRAFT"
	OrderOrdered           OrderStatus = "ORDERED"
	OrderPartiallyReceived OrderStatus = "PARTIALLY_RECEIVED"
	OrderReceived          OrderStatus = "RECEIVED"
)

// PurchaseOrder is a procurement request to one supplier.
type PurchaseOrder struct {
	gorm.Model
	OrderNo              string              `json:"order_no" gorm:"type:varchar(30);uniqueIndex"`
	SupplierID           uint                `json:"supplier_id" gorm:"not null"`
	Supplier             Supplier            `json:"supplier" gorm:"foreignKey:SupplierID"`
	Status               OrderStatus         `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT'"`
	OrderDate            *time.Time          `json:"order_date"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date"`
	DeliveryDate         *time.Time          `json:"delivery_date"`
	TotalAmount          float64             `json:"total_amount"`
	ShippingCost         float64             `json:"shipping_cost"`
	TaxAmount            float64             `json:"tax_amount"`
	Notes                *string             `json:"notes"`
	Lines                []PurchaseOrderLine `json:"lines" gorm:"foreignKey:PurchaseOrderID"`
}

func (PurchaseOrder) TableName() string { return "purchase_orders" }

// Editable reports whether line/fee mutation is still permitted.
func (o *PurchaseOrder) Editable() bool { return o.Status == OrderDraft }

// RecomputeTotal reapplies the total identity over the loaded lines. It is
// idempotent and touches nothing but TotalAmount.
func (o *PurchaseOrder) RecomputeTotal() {
	total := o.ShippingCost + o.TaxAmount
	for _, l := range o.Lines {
		total += l.Price * l.Quantity
	}
	o.TotalAmount = total
}

// FullyReceived reports whether every loaded line has been received in full.
func (o *PurchaseOrder) FullyReceived() bool {
	for _, l := range o.Lines {
		if l.QuantityReceived < l.Quantity {
			return false
		}
	}
	return true
}

// PurchaseOrderLine is one requested item on an order. QuantityReceived only
// ever grows, and never past Quantity.
type PurchaseOrderLine struct {
	gorm.Model
	PurchaseOrderID  uint     `json:"purchase_order_id" gorm:"not null;index"`
	ItemType         ItemType `json:"item_type" gorm:"type:varchar(20);not null"`
	ItemID           uint     `json:"item_id" gorm:"not null"`
	Quantity         float64  `json:"quantity" gorm:"not null"`
	Price            float64  `json:"price" gorm:"not null"`
	QuantityReceived float64  `json:"quantity_received" gorm:"not null;default:0"`
}

func (PurchaseOrderLine) TableName() string { return "purchase_order_lines" }

// Ref returns the typed item reference this line orders.
func (l *PurchaseOrderLine) Ref() ItemRef {
	return ItemRef{Type: l.ItemType, ID: l.ItemID}
}
