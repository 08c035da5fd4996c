package service

import (
	"time"

	"workshop-inventory/apperrors"
	"workshop-inventory/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutService is the tool-checkout boundary. The tool allocation
// workflow treats its calls as fallible; a failure is a normal per-item
// outcome, not a fatal error.
type CheckoutService interface {
	CheckOut(toolID, projectID uint, quantity int, notes string) (string, error)
	CheckIn(toolID uint, checkoutID string, quantity int, conditionNotes string) error
	// Availability reports the free units of a tool; known is false when the
	// checkout subsystem does not know the tool at all.
	Availability(toolID uint) (available int, known bool, err error)
}

// gormCheckout is the local checkout subsystem: checkouts live in the same
// database, and availability is tool stock minus outstanding checkouts.
type gormCheckout struct {
	db *gorm.DB
}

// NewLocalCheckout returns a CheckoutService backed by the tool_checkouts
// table.
func NewLocalCheckout(db *gorm.DB) CheckoutService {
	return &gormCheckout{db: db}
}

func (c *gormCheckout) CheckOut(toolID, projectID uint, quantity int, notes string) (string, error) {
	if quantity <= 0 {
		return "", apperrors.Validation("tool_checkout", toolID, "quantity", "must be greater than zero")
	}

	var checkoutID string
	err := c.db.Transaction(func(tx *gorm.DB) error {
		available, known, err := c.availabilityTx(tx, toolID)
		if err != nil {
			return err
		}
		if !known {
			return apperrors.NotFound("tool", toolID)
		}
		if available < quantity {
			return apperrors.Validation("tool", toolID, "quantity",
				"insufficient units available for checkout")
		}

		checkout := models.ToolCheckout{
			ID:        uuid.NewString(),
			ToolID:    toolID,
			ProjectID: projectID,
			Quantity:  quantity,
			Notes:     notes,
		}
		if err := tx.Create(&checkout).Error; err != nil {
			return err
		}
		checkoutID = checkout.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return checkoutID, nil
}

func (c *gormCheckout) CheckIn(toolID uint, checkoutID string, quantity int, conditionNotes string) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		var checkout models.ToolCheckout
		err := lockForUpdate(tx).Where("id = ? AND tool_id = ?", checkoutID, toolID).First(&checkout).Error
		if err != nil {
			if isRecordNotFound(err) {
				return apperrors.NotFound("tool_checkout", toolID)
			}
			return err
		}
		if checkout.ReturnedAt != nil {
			return apperrors.BusinessRule("tool_checkout", toolID, "returned",
				"checkout was already returned")
		}
		if quantity > checkout.Quantity {
			return apperrors.Validation("tool_checkout", toolID, "quantity",
				"cannot return more units than were checked out")
		}

		now := time.Now()
		return tx.Model(&models.ToolCheckout{}).Where("id = ?", checkout.ID).
			Updates(map[string]any{
				"returned_at":     now,
				"condition_notes": conditionNotes,
			}).Error
	})
}

func (c *gormCheckout) Availability(toolID uint) (int, bool, error) {
	return c.availabilityTx(c.db, toolID)
}

func (c *gormCheckout) availabilityTx(tx *gorm.DB, toolID uint) (int, bool, error) {
	var count int64
	if err := tx.Model(&models.Tool{}).Where("id = ?", toolID).Count(&count).Error; err != nil {
		return 0, false, err
	}
	if count == 0 {
		return 0, false, nil
	}

	// Total units come from the tool's stock record; a tool with no record
	// has nothing to lend.
	var rec models.StockRecord
	total := 0
	err := tx.Where("item_type = ? AND item_id = ?", models.ItemTool, toolID).First(&rec).Error
	if err == nil {
		total = int(rec.Quantity)
	} else if !isRecordNotFound(err) {
		return 0, false, err
	}

	var outstanding int64
	err = tx.Model(&models.ToolCheckout{}).
		Where("tool_id = ? AND returned_at IS NULL", toolID).
		Select("COALESCE(SUM(quantity),0)").Scan(&outstanding).Error
	if err != nil {
		return 0, false, err
	}

	return total - int(outstanding), true, nil
}
