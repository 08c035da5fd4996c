package service

import (
	"fmt"

	"workshop-inventory/models"

	"go.uber.org/zap"
)

// ReorderService scans the Stock Ledger for under-threshold items and emits
// grouped draft purchase orders. It is a pure planning pass: generated
// orders stay in DRAFT and stock is never touched here.
type ReorderService struct {
	stock       *StockService
	procurement *ProcurementService
	catalog     Catalog
	suppliers   SupplierDirectory
	log         *zap.Logger
}

func NewReorderService(stock *StockService, procurement *ProcurementService, catalog Catalog, suppliers SupplierDirectory, log *zap.Logger) *ReorderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReorderService{stock: stock, procurement: procurement, catalog: catalog, suppliers: suppliers, log: log}
}

// SkippedItem reports a low-stock item the planner could not order.
type SkippedItem struct {
	Item   models.ItemRef `json:"item"`
	Reason string         `json:"reason"`
}

// ReorderResult summarizes one planning pass.
type ReorderResult struct {
	Message          string        `json:"message"`
	PurchasesCreated int           `json:"purchases_created"`
	OrderIDs         []uint        `json:"order_ids"`
	Skipped          []SkippedItem `json:"skipped"`
}

// ScanLowStock returns the records whose derived status marks them low or
// out of stock.
func (s *ReorderService) ScanLowStock() ([]models.StockRecord, error) {
	return s.stock.LowStock()
}

// GenerateDraftOrders groups low-stock items by supplier and creates one
// DRAFT purchase order per supplier, ordering each item back up to its
// configured maximum. Repeated runs do not deduplicate against existing
// open drafts; callers are expected to place or delete drafts between runs.
func (s *ReorderService) GenerateDraftOrders() (*ReorderResult, error) {
	low, err := s.ScanLowStock()
	if err != nil {
		return nil, err
	}

	result := &ReorderResult{}
	grouped := make(map[uint][]LineInput)
	var supplierOrder []uint // deterministic creation order

	for _, rec := range low {
		ref := rec.Ref()
		info, err := s.catalog.ItemInfo(ref)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedItem{Item: ref, Reason: "item not found in catalog"})
			continue
		}
		if info.SupplierID == nil {
			result.Skipped = append(result.Skipped, SkippedItem{Item: ref, Reason: "no supplier configured"})
			continue
		}
		if info.MaxStockLevel == nil {
			result.Skipped = append(result.Skipped, SkippedItem{Item: ref, Reason: "no maximum stock level configured"})
			continue
		}
		qty := *info.MaxStockLevel - rec.Quantity
		if qty <= 0 {
			result.Skipped = append(result.Skipped, SkippedItem{Item: ref, Reason: "already at or above maximum stock level"})
			continue
		}

		if _, seen := grouped[*info.SupplierID]; !seen {
			supplierOrder = append(supplierOrder, *info.SupplierID)
		}
		grouped[*info.SupplierID] = append(grouped[*info.SupplierID], LineInput{
			Ref:      ref,
			Quantity: qty,
		})
	}

	items := 0
	for _, supplierID := range supplierOrder {
		lines := grouped[supplierID]
		order, err := s.procurement.Create(supplierID, lines)
		if err != nil {
			return nil, err
		}
		result.PurchasesCreated++
		result.OrderIDs = append(result.OrderIDs, order.ID)
		items += len(lines)

		name, nameErr := s.suppliers.SupplierName(supplierID)
		if nameErr != nil {
			name = fmt.Sprintf("supplier %d", supplierID)
		}
		s.log.Info("draft reorder created",
			zap.Uint("order_id", order.ID),
			zap.String("supplier", name),
			zap.Int("lines", len(lines)),
		)
	}

	result.Message = fmt.Sprintf("created %d draft purchase orders covering %d items (%d skipped)",
		result.PurchasesCreated, items, len(result.Skipped))
	return result, nil
}
