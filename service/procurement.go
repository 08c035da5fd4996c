package service

import (
	"fmt"
	"time"

	"workshop-inventory/apperrors"
	"workshop-inventory/models"
	"workshop-inventory/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultDeliveryLead is applied to expected_delivery_date when an order is
// placed without one.
const defaultDeliveryLead = 14 * 24 * time.Hour

// ProcurementService owns the purchase-order lifecycle from draft through
// partial and complete receipt. Receipt drives the Stock Ledger.
type ProcurementService struct {
	db        *gorm.DB
	suppliers SupplierDirectory
	catalog   Catalog
	stock     *StockService
	log       *zap.Logger
}

func NewProcurementService(db *gorm.DB, suppliers SupplierDirectory, catalog Catalog, stock *StockService, log *zap.Logger) *ProcurementService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProcurementService{db: db, suppliers: suppliers, catalog: catalog, stock: stock, log: log}
}

// LineInput describes one requested item for Create/AddLine.
type LineInput struct {
	Ref      models.ItemRef
	Quantity float64
	Price    float64
}

func (in LineInput) validate() error {
	if err := in.Ref.Validate(); err != nil {
		return apperrors.Validation("purchase_order_line", 0, "item_ref", err.Error())
	}
	if in.Quantity <= 0 {
		return apperrors.Validation("purchase_order_line", 0, "quantity", "must be greater than zero")
	}
	if in.Price < 0 {
		return apperrors.Validation("purchase_order_line", 0, "price", "must not be negative")
	}
	return nil
}

// Create builds a DRAFT order for the supplier with the optional initial
// lines and recomputes the total.
func (s *ProcurementService) Create(supplierID uint, lines []LineInput) (*models.PurchaseOrder, error) {
	exists, err := s.suppliers.SupplierExists(supplierID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("supplier", supplierID)
	}
	for _, in := range lines {
		if err := in.validate(); err != nil {
			return nil, err
		}
		if _, err := s.catalog.ItemInfo(in.Ref); err != nil {
			return nil, err
		}
	}

	var order models.PurchaseOrder
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var seq int64
		if err := tx.Raw("SELECT COALESCE(MAX(id),0)+1 FROM purchase_orders").Scan(&seq).Error; err != nil {
			return err
		}

		order = models.PurchaseOrder{
			OrderNo:    utils.GenOrderNo(seq, time.Now()),
			SupplierID: supplierID,
			Status:     models.OrderDraft,
		}
		for _, in := range lines {
			order.Lines = append(order.Lines, models.PurchaseOrderLine{
				ItemType: in.Ref.Type,
				ItemID:   in.Ref.ID,
				Quantity: in.Quantity,
				Price:    in.Price,
			})
		}
		order.RecomputeTotal()
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase order created",
		zap.Uint("order_id", order.ID),
		zap.String("order_no", order.OrderNo),
		zap.Uint("supplier_id", supplierID),
		zap.Int("lines", len(order.Lines)),
	)
	return &order, nil
}

// Get returns the order with its lines and supplier loaded.
func (s *ProcurementService) Get(orderID uint) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := s.db.Preload("Lines").Preload("Supplier").First(&order, orderID).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, apperrors.NotFound("purchase_order", orderID)
		}
		return nil, err
	}
	return &order, nil
}

// List returns all orders, newest first, lines included.
func (s *ProcurementService) List() ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	err := s.db.Preload("Lines").Preload("Supplier").Order("id DESC").Find(&orders).Error
	return orders, err
}

// AddLine appends a line to a DRAFT order.
func (s *ProcurementService) AddLine(orderID uint, in LineInput) (*models.PurchaseOrder, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.catalog.ItemInfo(in.Ref); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockDraft(tx, orderID, "add line")
		if err != nil {
			return err
		}
		line := models.PurchaseOrderLine{
			PurchaseOrderID: order.ID,
			ItemType:        in.Ref.Type,
			ItemID:          in.Ref.ID,
			Quantity:        in.Quantity,
			Price:           in.Price,
		}
		if err := tx.Create(&line).Error; err != nil {
			return err
		}
		return s.storeTotal(tx, order.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(orderID)
}

// UpdateLine edits a DRAFT order line's quantity and/or price.
func (s *ProcurementService) UpdateLine(orderID, lineID uint, quantity, price *float64) (*models.PurchaseOrder, error) {
	if quantity != nil && *quantity <= 0 {
		return nil, apperrors.Validation("purchase_order_line", lineID, "quantity", "must be greater than zero")
	}
	if price != nil && *price < 0 {
		return nil, apperrors.Validation("purchase_order_line", lineID, "price", "must not be negative")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockDraft(tx, orderID, "edit line")
		if err != nil {
			return err
		}
		line, err := s.findLine(tx, order.ID, lineID)
		if err != nil {
			return err
		}
		updates := map[string]any{}
		if quantity != nil {
			updates["quantity"] = *quantity
		}
		if price != nil {
			updates["price"] = *price
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.PurchaseOrderLine{}).Where("id = ?", line.ID).Updates(updates).Error; err != nil {
			return err
		}
		return s.storeTotal(tx, order.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(orderID)
}

// RemoveLine deletes a line from a DRAFT order.
func (s *ProcurementService) RemoveLine(orderID, lineID uint) (*models.PurchaseOrder, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockDraft(tx, orderID, "remove line")
		if err != nil {
			return err
		}
		line, err := s.findLine(tx, order.ID, lineID)
		if err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&models.PurchaseOrderLine{}, line.ID).Error; err != nil {
			return err
		}
		return s.storeTotal(tx, order.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(orderID)
}

// UpdateFees edits shipping cost, tax and notes on a DRAFT order and
// recomputes the total.
func (s *ProcurementService) UpdateFees(orderID uint, shipping, tax *float64, notes *string) (*models.PurchaseOrder, error) {
	if shipping != nil && *shipping < 0 {
		return nil, apperrors.Validation("purchase_order", orderID, "shipping_cost", "must not be negative")
	}
	if tax != nil && *tax < 0 {
		return nil, apperrors.Validation("purchase_order", orderID, "tax_amount", "must not be negative")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockDraft(tx, orderID, "edit fees")
		if err != nil {
			return err
		}
		updates := map[string]any{}
		if shipping != nil {
			updates["shipping_cost"] = *shipping
		}
		if tax != nil {
			updates["tax_amount"] = *tax
		}
		if notes != nil {
			updates["notes"] = *notes
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.PurchaseOrder{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		return s.storeTotal(tx, order.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(orderID)
}

// Place moves a DRAFT order to ORDERED, stamping the order date and
// defaulting the expected delivery date two weeks out.
func (s *ProcurementService) Place(orderID uint) (*models.PurchaseOrder, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.PurchaseOrder
		if err := lockForUpdate(tx).Preload("Lines").First(&order, orderID).Error; err != nil {
			if isRecordNotFound(err) {
				return apperrors.NotFound("purchase_order", orderID)
			}
			return err
		}
		if order.Status != models.OrderDraft {
			return apperrors.BusinessRule("purchase_order", orderID, string(order.Status),
				"only draft orders can be placed")
		}
		if len(order.Lines) == 0 {
			return apperrors.Validation("purchase_order", orderID, "lines", "order has no lines")
		}

		now := time.Now()
		updates := map[string]any{
			"status":     models.OrderOrdered,
			"order_date": now,
		}
		if order.ExpectedDeliveryDate == nil {
			updates["expected_delivery_date"] = now.Add(defaultDeliveryLead)
		}
		return tx.Model(&models.PurchaseOrder{}).Where("id = ?", order.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase order placed", zap.Uint("order_id", orderID))
	return s.Get(orderID)
}

// ReceiptLine records goods arriving against one order line.
type ReceiptLine struct {
	LineID   uint
	Quantity float64
}

// Receipt is the payload for Receive.
type Receipt struct {
	Lines        []ReceiptLine
	DeliveryDate *time.Time
	Notes        *string
}

// Receive processes a (possibly partial) delivery. Every line update and its
// stock adjustment happen in one transaction: an over-receipt anywhere in
// the batch aborts the whole receive, leaving lines, order status and stock
// untouched.
func (s *ProcurementService) Receive(orderID uint, receipt Receipt) (*models.PurchaseOrder, error) {
	if len(receipt.Lines) == 0 {
		return nil, apperrors.Validation("purchase_order", orderID, "receipt", "no receipt lines given")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.PurchaseOrder
		if err := lockForUpdate(tx).First(&order, orderID).Error; err != nil {
			if isRecordNotFound(err) {
				return apperrors.NotFound("purchase_order", orderID)
			}
			return err
		}
		if order.Status != models.OrderOrdered && order.Status != models.OrderPartiallyReceived {
			return apperrors.BusinessRule("purchase_order", orderID, string(order.Status),
				"order must be placed before it can be received")
		}

		for _, entry := range receipt.Lines {
			if entry.Quantity <= 0 {
				return apperrors.Validation("purchase_order_line", entry.LineID, "quantity",
					"received quantity must be greater than zero")
			}
			line, err := s.findLine(tx, order.ID, entry.LineID)
			if err != nil {
				return err
			}
			if line.QuantityReceived+entry.Quantity > line.Quantity {
				return apperrors.Validation("purchase_order_line", line.ID, "quantity_received",
					fmt.Sprintf("receipt of %g exceeds ordered %g (already received %g)",
						entry.Quantity, line.Quantity, line.QuantityReceived))
			}

			if err := tx.Model(&models.PurchaseOrderLine{}).Where("id = ?", line.ID).
				Update("quantity_received", line.QuantityReceived+entry.Quantity).Error; err != nil {
				return err
			}

			rec, err := s.stock.getOrCreateTx(tx, line.Ref(), StockDefaults{})
			if err != nil {
				return err
			}
			if _, err := s.stock.adjustTx(tx, rec.ID, entry.Quantity, models.AdjustRestock,
				"receipt against order "+order.OrderNo); err != nil {
				return err
			}
		}

		var lines []models.PurchaseOrderLine
		if err := tx.Where("purchase_order_id = ?", order.ID).Find(&lines).Error; err != nil {
			return err
		}
		status := models.OrderReceived
		for _, l := range lines {
			if l.QuantityReceived < l.Quantity {
				status = models.OrderPartiallyReceived
				break
			}
		}

		updates := map[string]any{"status": status}
		if receipt.DeliveryDate != nil {
			updates["delivery_date"] = *receipt.DeliveryDate
		} else if status == models.OrderReceived {
			updates["delivery_date"] = time.Now()
		}
		if receipt.Notes != nil {
			updates["notes"] = *receipt.Notes
		}
		return tx.Model(&models.PurchaseOrder{}).Where("id = ?", order.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase order receipt processed",
		zap.Uint("order_id", orderID),
		zap.Int("lines", len(receipt.Lines)),
	)
	return s.Get(orderID)
}

// Delete removes a DRAFT order and its lines.
func (s *ProcurementService) Delete(orderID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockDraft(tx, orderID, "delete")
		if err != nil {
			return err
		}
		if err := tx.Unscoped().Where("purchase_order_id = ?", order.ID).
			Delete(&models.PurchaseOrderLine{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.PurchaseOrder{}, order.ID).Error
	})
}

// lockDraft fetches the order under a row lock and enforces DRAFT status.
func (s *ProcurementService) lockDraft(tx *gorm.DB, orderID uint, op string) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	if err := lockForUpdate(tx).First(&order, orderID).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, apperrors.NotFound("purchase_order", orderID)
		}
		return nil, err
	}
	if !order.Editable() {
		return nil, apperrors.BusinessRule("purchase_order", orderID, string(order.Status),
			op+" is only allowed on draft orders")
	}
	return &order, nil
}

func (s *ProcurementService) findLine(tx *gorm.DB, orderID, lineID uint) (*models.PurchaseOrderLine, error) {
	var line models.PurchaseOrderLine
	err := tx.Where("id = ? AND purchase_order_id = ?", lineID, orderID).First(&line).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, apperrors.NotFound("purchase_order_line", lineID)
		}
		return nil, err
	}
	return &line, nil
}

// storeTotal reloads the order's lines and persists the recomputed total.
func (s *ProcurementService) storeTotal(tx *gorm.DB, orderID uint) error {
	var order models.PurchaseOrder
	if err := tx.Preload("Lines").First(&order, orderID).Error; err != nil {
		return err
	}
	order.RecomputeTotal()
	return tx.Model(&models.PurchaseOrder{}).Where("id = ?", order.ID).
		Update("total_amount", order.TotalAmount).Error
}
