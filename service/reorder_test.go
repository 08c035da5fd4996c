package service

import (
	"testing"

	"workshop-inventory/models"
)

func TestGenerateDraftOrdersGroupsBySupplier(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalog(db)
	suppliers := NewSupplierDirectory(db)
	stock := NewStockService(db, catalog, nil)
	proc := NewProcurementService(db, suppliers, catalog, stock, nil)
	reorder := NewReorderService(stock, proc, catalog, suppliers, nil)

	tannery := seedSupplier(t, db, "tannery")
	hardware := seedSupplier(t, db, "hardware house")

	// Two low items from the tannery, one from the hardware supplier.
	hide := seedMaterial(t, db, models.Material{
		Name: "hide", SKU: "R-01", SupplierID: &tannery.ID,
		MinStockLevel: f64(5), MaxStockLevel: f64(20),
	})
	dye := seedMaterial(t, db, models.Material{
		Name: "dye", SKU: "R-02", SupplierID: &tannery.ID,
		MinStockLevel: f64(5), MaxStockLevel: f64(15),
	})
	rivets := seedMaterial(t, db, models.Material{
		Name: "rivets", SKU: "R-03", SupplierID: &hardware.ID,
		MinStockLevel: f64(50), MaxStockLevel: f64(200),
	})
	// Low but not orderable, for each skip reason.
	orphan := seedMaterial(t, db, models.Material{
		Name: "orphan", SKU: "R-04", MinStockLevel: f64(5), MaxStockLevel: f64(10),
	})
	capless := seedMaterial(t, db, models.Material{
		Name: "capless", SKU: "R-05", SupplierID: &tannery.ID, MinStockLevel: f64(5),
	})
	overMax := seedMaterial(t, db, models.Material{
		Name: "over max", SKU: "R-06", SupplierID: &tannery.ID,
		MinStockLevel: f64(50), MaxStockLevel: f64(3),
	})

	for _, s := range []struct {
		id  uint
		qty float64
	}{
		{hide.ID, 2}, {dye.ID, 0}, {rivets.ID, 30},
		{orphan.ID, 1}, {capless.ID, 1}, {overMax.ID, 4},
	} {
		if _, err := stock.GetOrCreate(models.MaterialRef(s.id), StockDefaults{Quantity: s.qty}); err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}
	}

	result, err := reorder.GenerateDraftOrders()
	if err != nil {
		t.Fatalf("GenerateDraftOrders: %v", err)
	}
	if result.PurchasesCreated != 2 {
		t.Fatalf("created %d orders, want 2 (one per supplier): %s", result.PurchasesCreated, result.Message)
	}
	if len(result.Skipped) != 3 {
		t.Fatalf("skipped %d items, want 3: %+v", len(result.Skipped), result.Skipped)
	}

	wantLines := map[uint]map[uint]float64{
		tannery.ID:  {hide.ID: 18, dye.ID: 15},
		hardware.ID: {rivets.ID: 170},
	}
	for _, orderID := range result.OrderIDs {
		order, err := proc.Get(orderID)
		if err != nil {
			t.Fatalf("Get order %d: %v", orderID, err)
		}
		if order.Status != models.OrderDraft {
			t.Errorf("order %d status = %s, want DRAFT", orderID, order.Status)
		}
		want, ok := wantLines[order.SupplierID]
		if !ok {
			t.Fatalf("order %d for unexpected supplier %d", orderID, order.SupplierID)
		}
		if len(order.Lines) != len(want) {
			t.Errorf("order %d has %d lines, want %d", orderID, len(order.Lines), len(want))
		}
		for _, line := range order.Lines {
			if qty := want[line.ItemID]; line.Quantity != qty {
				t.Errorf("order %d item %d quantity = %g, want %g", orderID, line.ItemID, line.Quantity, qty)
			}
		}
	}

	reasons := map[uint]string{}
	for _, sk := range result.Skipped {
		reasons[sk.Item.ID] = sk.Reason
	}
	if reasons[orphan.ID] != "no supplier configured" {
		t.Errorf("orphan skip reason = %q", reasons[orphan.ID])
	}
	if reasons[capless.ID] != "no maximum stock level configured" {
		t.Errorf("capless skip reason = %q", reasons[capless.ID])
	}
	if reasons[overMax.ID] != "already at or above maximum stock level" {
		t.Errorf("over-max skip reason = %q", reasons[overMax.ID])
	}
}

func TestGenerateDraftOrdersDoesNotDeduplicate(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalog(db)
	suppliers := NewSupplierDirectory(db)
	stock := NewStockService(db, catalog, nil)
	proc := NewProcurementService(db, suppliers, catalog, stock, nil)
	reorder := NewReorderService(stock, proc, catalog, suppliers, nil)

	tannery := seedSupplier(t, db, "tannery")
	hide := seedMaterial(t, db, models.Material{
		Name: "hide", SKU: "D-01", SupplierID: &tannery.ID,
		MinStockLevel: f64(5), MaxStockLevel: f64(20),
	})
	if _, err := stock.GetOrCreate(models.MaterialRef(hide.ID), StockDefaults{Quantity: 2}); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	first, err := reorder.GenerateDraftOrders()
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := reorder.GenerateDraftOrders()
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first.PurchasesCreated != 1 || second.PurchasesCreated != 1 {
		t.Fatalf("runs created %d and %d orders, want 1 each", first.PurchasesCreated, second.PurchasesCreated)
	}

	orders, err := proc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("got %d orders after two runs, repeated runs must not deduplicate", len(orders))
	}
}

func TestScanLowStockReflectsLedger(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalog(db)
	suppliers := NewSupplierDirectory(db)
	stock := NewStockService(db, catalog, nil)
	proc := NewProcurementService(db, suppliers, catalog, stock, nil)
	reorder := NewReorderService(stock, proc, catalog, suppliers, nil)

	m := seedMaterial(t, db, models.Material{Name: "hide", SKU: "S-01", MinStockLevel: f64(5)})
	rec, err := stock.GetOrCreate(models.MaterialRef(m.ID), StockDefaults{Quantity: 10})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	low, err := reorder.ScanLowStock()
	if err != nil {
		t.Fatalf("ScanLowStock: %v", err)
	}
	if len(low) != 0 {
		t.Fatalf("healthy ledger reported %d low items", len(low))
	}

	if _, err := stock.Adjust(rec.ID, -7, models.AdjustSale, "wallet batch"); err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	low, err = reorder.ScanLowStock()
	if err != nil {
		t.Fatalf("ScanLowStock: %v", err)
	}
	if len(low) != 1 || low[0].ItemID != m.ID {
		t.Fatalf("low = %+v, want the adjusted material", low)
	}
}
