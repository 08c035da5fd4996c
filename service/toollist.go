package service

import (
	"time"

	"workshop-inventory/apperrors"
	"workshop-inventory/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ToolListService owns the tool-list lifecycle: requirement lines, the
// allocate/return cycle against the checkout subsystem, and completion or
// cancellation.
type ToolListService struct {
	db       *gorm.DB
	checkout CheckoutService
	log      *zap.Logger
}

func NewToolListService(db *gorm.DB, checkout CheckoutService, log *zap.Logger) *ToolListService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ToolListService{db: db, checkout: checkout, log: log}
}

// ToolSelection picks either every eligible item or an explicit id set.
// Exactly one mode must be used.
type ToolSelection struct {
	All     bool   `json:"all"`
	ItemIDs []uint `json:"item_ids"`
}

func (sel ToolSelection) validate(listID uint) error {
	if sel.All && len(sel.ItemIDs) > 0 {
		return apperrors.Validation("tool_list", listID, "selection",
			"use either all or item_ids, not both")
	}
	if !sel.All && len(sel.ItemIDs) == 0 {
		return apperrors.Validation("tool_list", listID, "selection",
			"either all or item_ids must be given")
	}
	return nil
}

// AllocatedTool is one successful allocation in a batch.
type AllocatedTool struct {
	ItemID     uint   `json:"item_id"`
	ToolID     uint   `json:"tool_id"`
	CheckoutID string `json:"checkout_id"`
}

// FailedTool is one failed allocation or return, with its reason.
type FailedTool struct {
	ItemID uint   `json:"item_id"`
	ToolID uint   `json:"tool_id"`
	Reason string `json:"reason"`
}

// AllocationResult separates successes from failures; partial tool
// availability is an expected outcome, not an error.
type AllocationResult struct {
	AllocatedTools    []AllocatedTool `json:"allocated_tools"`
	FailedAllocations []FailedTool    `json:"failed_allocations"`
}

// ReturnResult mirrors AllocationResult for the return direction.
type ReturnResult struct {
	ReturnedTools []uint       `json:"returned_tools"`
	FailedReturns []FailedTool `json:"failed_returns"`
}

// AvailabilityCheck classifies one unallocated item in a dry run.
type AvailabilityCheck struct {
	ItemID    uint   `json:"item_id"`
	ToolID    uint   `json:"tool_id"`
	Required  int    `json:"required"`
	Available int    `json:"available"`
	Status    string `json:"status"` // ok | missing | insufficient
}

// AvailabilityReport is the result of ValidateToolAvailability.
type AvailabilityReport struct {
	ListID       uint                `json:"list_id"`
	AllAvailable bool                `json:"all_available"`
	Items        []AvailabilityCheck `json:"items"`
}

// CreateForProject opens a DRAFT tool list; at most one active list may
// exist per project.
func (s *ToolListService) CreateForProject(projectID uint, notes *string) (*models.ToolList, error) {
	var list models.ToolList
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var active int64
		err := tx.Model(&models.ToolList{}).
			Where("project_id = ? AND status IN ?", projectID, models.ActiveToolListStatuses).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return apperrors.BusinessRule("tool_list", projectID, string(models.ToolListDraft),
				"project already has an active tool list")
		}

		list = models.ToolList{
			ProjectID: projectID,
			Status:    models.ToolListDraft,
			Notes:     notes,
		}
		return tx.Create(&list).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tool list created",
		zap.Uint("list_id", list.ID),
		zap.Uint("project_id", projectID),
	)
	return &list, nil
}

// Get returns the list with its items and tools loaded.
func (s *ToolListService) Get(listID uint) (*models.ToolList, error) {
	var list models.ToolList
	err := s.db.Preload("Items").Preload("Items.Tool").First(&list, listID).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, apperrors.NotFound("tool_list", listID)
		}
		return nil, err
	}
	return &list, nil
}

// AddTool adds a requirement line; a second add of the same tool merges into
// the existing unallocated line instead of duplicating it.
func (s *ToolListService) AddTool(listID, toolID uint, quantity int) (*models.ToolListItem, error) {
	if quantity <= 0 {
		return nil, apperrors.Validation("tool_list_item", listID, "quantity", "must be greater than zero")
	}

	var item models.ToolListItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		list, err := s.lockOpenList(tx, listID, "add tool")
		if err != nil {
			return err
		}

		var existing models.ToolListItem
		err = tx.Where("tool_list_id = ? AND tool_id = ? AND allocated = ?", list.ID, toolID, false).
			First(&existing).Error
		if err == nil {
			existing.Quantity += quantity
			if err := tx.Model(&models.ToolListItem{}).Where("id = ?", existing.ID).
				Update("quantity", existing.Quantity).Error; err != nil {
				return err
			}
			item = existing
			return nil
		}
		if !isRecordNotFound(err) {
			return err
		}

		item = models.ToolListItem{
			ToolListID: list.ID,
			ToolID:     toolID,
			Quantity:   quantity,
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveTool deletes an unallocated requirement line.
func (s *ToolListService) RemoveTool(listID, itemID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.lockOpenList(tx, listID, "remove tool"); err != nil {
			return err
		}
		item, err := s.findItem(tx, listID, itemID)
		if err != nil {
			return err
		}
		if item.Allocated {
			return apperrors.BusinessRule("tool_list_item", itemID, "allocated",
				"allocated items cannot be removed; return the tool first")
		}
		return tx.Unscoped().Delete(&models.ToolListItem{}, item.ID).Error
	})
}

// UpdateToolQuantity edits an unallocated line's quantity.
func (s *ToolListService) UpdateToolQuantity(listID, itemID uint, quantity int) (*models.ToolListItem, error) {
	if quantity <= 0 {
		return nil, apperrors.Validation("tool_list_item", itemID, "quantity", "must be greater than zero")
	}

	var item *models.ToolListItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.lockOpenList(tx, listID, "edit tool quantity"); err != nil {
			return err
		}
		var err error
		item, err = s.findItem(tx, listID, itemID)
		if err != nil {
			return err
		}
		if item.Allocated {
			return apperrors.Validation("tool_list_item", itemID, "quantity",
				"quantity is frozen while the item is allocated")
		}
		item.Quantity = quantity
		return tx.Model(&models.ToolListItem{}).Where("id = ?", item.ID).
			Update("quantity", quantity).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// AllocateTools checks out the selected, not-yet-allocated items. The batch
// is deliberately best-effort: each item's checkout succeeds or fails on its
// own and the list moves to IN_PROGRESS either way.
func (s *ToolListService) AllocateTools(listID uint, sel ToolSelection) (*AllocationResult, error) {
	if err := sel.validate(listID); err != nil {
		return nil, err
	}

	list, err := s.Get(listID)
	if err != nil {
		return nil, err
	}
	if list.Status != models.ToolListDraft && list.Status != models.ToolListPending {
		return nil, apperrors.Validation("tool_list", listID, "status",
			"tools can only be allocated from a draft or pending list (current: "+string(list.Status)+")")
	}

	targets, err := s.selectItems(list, sel, false)
	if err != nil {
		return nil, err
	}

	result := &AllocationResult{}
	for _, item := range targets {
		checkoutID, err := s.checkout.CheckOut(item.ToolID, list.ProjectID, item.Quantity,
			"tool list allocation")
		if err != nil {
			result.FailedAllocations = append(result.FailedAllocations, FailedTool{
				ItemID: item.ID,
				ToolID: item.ToolID,
				Reason: err.Error(),
			})
			continue
		}

		err = s.db.Model(&models.ToolListItem{}).Where("id = ?", item.ID).
			Updates(map[string]any{"allocated": true, "checkout_id": checkoutID}).Error
		if err != nil {
			// The checkout exists but the item row could not record it; hand
			// the unit back rather than stranding it.
			if inErr := s.checkout.CheckIn(item.ToolID, checkoutID, item.Quantity, ""); inErr != nil {
				s.log.Warn("orphaned checkout after failed allocation write",
					zap.Uint("item_id", item.ID), zap.Error(inErr))
			}
			result.FailedAllocations = append(result.FailedAllocations, FailedTool{
				ItemID: item.ID,
				ToolID: item.ToolID,
				Reason: err.Error(),
			})
			continue
		}

		result.AllocatedTools = append(result.AllocatedTools, AllocatedTool{
			ItemID:     item.ID,
			ToolID:     item.ToolID,
			CheckoutID: checkoutID,
		})
	}

	if list.Status != models.ToolListInProgress {
		if err := s.db.Model(&models.ToolList{}).Where("id = ?", list.ID).
			Update("status", models.ToolListInProgress).Error; err != nil {
			return nil, err
		}
	}

	s.log.Info("tool allocation batch processed",
		zap.Uint("list_id", listID),
		zap.Int("allocated", len(result.AllocatedTools)),
		zap.Int("failed", len(result.FailedAllocations)),
	)
	return result, nil
}

// ReturnTools checks the selected allocated items back in, best-effort. When
// nothing remains allocated the list drops back to PENDING, signaling it is
// ready to complete.
func (s *ToolListService) ReturnTools(listID uint, sel ToolSelection, conditionNotes string) (*ReturnResult, error) {
	if err := sel.validate(listID); err != nil {
		return nil, err
	}

	list, err := s.Get(listID)
	if err != nil {
		return nil, err
	}
	if list.Status != models.ToolListInProgress {
		return nil, apperrors.Validation("tool_list", listID, "status",
			"tools can only be returned from a list in progress (current: "+string(list.Status)+")")
	}

	targets, err := s.selectItems(list, sel, true)
	if err != nil {
		return nil, err
	}

	result := &ReturnResult{}
	for _, item := range targets {
		if err := s.returnItem(item, conditionNotes); err != nil {
			result.FailedReturns = append(result.FailedReturns, FailedTool{
				ItemID: item.ID,
				ToolID: item.ToolID,
				Reason: err.Error(),
			})
			continue
		}
		result.ReturnedTools = append(result.ReturnedTools, item.ID)
	}

	var allocated int64
	if err := s.db.Model(&models.ToolListItem{}).
		Where("tool_list_id = ? AND allocated = ?", listID, true).
		Count(&allocated).Error; err != nil {
		return nil, err
	}
	if allocated == 0 {
		if err := s.db.Model(&models.ToolList{}).Where("id = ?", listID).
			Update("status", models.ToolListPending).Error; err != nil {
			return nil, err
		}
	}

	s.log.Info("tool return batch processed",
		zap.Uint("list_id", listID),
		zap.Int("returned", len(result.ReturnedTools)),
		zap.Int("failed", len(result.FailedReturns)),
	)
	return result, nil
}

// CompleteToolList closes the list; every item must be returned first.
func (s *ToolListService) CompleteToolList(listID uint, notes *string) (*models.ToolList, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var list models.ToolList
		if err := lockForUpdate(tx).First(&list, listID).Error; err != nil {
			if isRecordNotFound(err) {
				return apperrors.NotFound("tool_list", listID)
			}
			return err
		}
		if list.Status != models.ToolListPending && list.Status != models.ToolListInProgress {
			return apperrors.Validation("tool_list", listID, "status",
				"only a pending or in-progress list can be completed (current: "+string(list.Status)+")")
		}

		var allocated int64
		if err := tx.Model(&models.ToolListItem{}).
			Where("tool_list_id = ? AND allocated = ?", listID, true).
			Count(&allocated).Error; err != nil {
			return err
		}
		if allocated > 0 {
			return apperrors.Validation("tool_list", listID, "items",
				"list still has allocated tools; return them before completing")
		}

		now := time.Now()
		updates := map[string]any{
			"status":       models.ToolListCompleted,
			"completed_at": now,
		}
		if notes != nil {
			updates["notes"] = *notes
		}
		return tx.Model(&models.ToolList{}).Where("id = ?", listID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tool list completed", zap.Uint("list_id", listID))
	return s.Get(listID)
}

// CancelToolList attempts a best-effort bulk return of everything still
// allocated, then cancels. Return failures are logged, not fatal.
func (s *ToolListService) CancelToolList(listID uint, reason string) (*models.ToolList, error) {
	list, err := s.Get(listID)
	if err != nil {
		return nil, err
	}
	if list.Status.Terminal() {
		return nil, apperrors.BusinessRule("tool_list", listID, string(list.Status),
			"list is already closed")
	}

	for i := range list.Items {
		item := &list.Items[i]
		if !item.Allocated {
			continue
		}
		if err := s.returnItem(item, "returned on cancellation"); err != nil {
			s.log.Warn("failed to return tool during cancellation",
				zap.Uint("list_id", listID),
				zap.Uint("item_id", item.ID),
				zap.Error(err),
			)
		}
	}

	updates := map[string]any{"status": models.ToolListCancelled}
	if reason != "" {
		note := "cancelled: " + reason
		updates["notes"] = note
	}
	if err := s.db.Model(&models.ToolList{}).Where("id = ?", listID).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.log.Info("tool list cancelled", zap.Uint("list_id", listID), zap.String("reason", reason))
	return s.Get(listID)
}

// ValidateToolAvailability is a read-only dry run over the unallocated
// items; it mutates nothing.
func (s *ToolListService) ValidateToolAvailability(listID uint) (*AvailabilityReport, error) {
	list, err := s.Get(listID)
	if err != nil {
		return nil, err
	}

	report := &AvailabilityReport{ListID: listID, AllAvailable: true}
	for _, item := range list.Items {
		if item.Allocated {
			continue
		}
		check := AvailabilityCheck{ItemID: item.ID, ToolID: item.ToolID, Required: item.Quantity}

		available, known, err := s.checkout.Availability(item.ToolID)
		switch {
		case err != nil:
			return nil, err
		case !known:
			check.Status = "missing"
		case available < item.Quantity:
			check.Status = "insufficient"
			check.Available = available
		default:
			check.Status = "ok"
			check.Available = available
		}
		if check.Status != "ok" {
			report.AllAvailable = false
		}
		report.Items = append(report.Items, check)
	}
	return report, nil
}

// returnItem checks one allocated item back in and clears its allocation.
func (s *ToolListService) returnItem(item *models.ToolListItem, conditionNotes string) error {
	if !item.Allocated || item.CheckoutID == nil {
		return apperrors.Validation("tool_list_item", item.ID, "allocated", "item is not allocated")
	}
	if err := s.checkout.CheckIn(item.ToolID, *item.CheckoutID, item.Quantity, conditionNotes); err != nil {
		return err
	}
	return s.db.Model(&models.ToolListItem{}).Where("id = ?", item.ID).
		Updates(map[string]any{"allocated": false, "checkout_id": nil}).Error
}

// selectItems resolves a ToolSelection against the loaded list. allocated
// selects the allocation state the operation expects its targets in.
func (s *ToolListService) selectItems(list *models.ToolList, sel ToolSelection, allocated bool) ([]*models.ToolListItem, error) {
	byID := make(map[uint]*models.ToolListItem, len(list.Items))
	for i := range list.Items {
		byID[list.Items[i].ID] = &list.Items[i]
	}

	var targets []*models.ToolListItem
	if sel.All {
		for i := range list.Items {
			if list.Items[i].Allocated == allocated {
				targets = append(targets, &list.Items[i])
			}
		}
		return targets, nil
	}

	for _, id := range sel.ItemIDs {
		item, ok := byID[id]
		if !ok {
			return nil, apperrors.NotFound("tool_list_item", id)
		}
		if item.Allocated != allocated {
			if allocated {
				return nil, apperrors.Validation("tool_list_item", id, "allocated", "item is not allocated")
			}
			// Explicitly targeted but already allocated: nothing to do.
			continue
		}
		targets = append(targets, item)
	}
	return targets, nil
}

func (s *ToolListService) findItem(tx *gorm.DB, listID, itemID uint) (*models.ToolListItem, error) {
	var item models.ToolListItem
	err := tx.Where("id = ? AND tool_list_id = ?", itemID, listID).First(&item).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, apperrors.NotFound("tool_list_item", itemID)
		}
		return nil, err
	}
	return &item, nil
}

// lockOpenList fetches the list under a row lock and rejects terminal states.
func (s *ToolListService) lockOpenList(tx *gorm.DB, listID uint, op string) (*models.ToolList, error) {
	var list models.ToolList
	if err := lockForUpdate(tx).First(&list, listID).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, apperrors.NotFound("tool_list", listID)
		}
		return nil, err
	}
	if list.Status.Terminal() {
		return nil, apperrors.BusinessRule("tool_list", listID, string(list.Status),
			op+" is not allowed on a closed list")
	}
	return &list, nil
}
