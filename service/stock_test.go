package service

import (
	"errors"
	"testing"

	"workshop-inventory/apperrors"
	"workshop-inventory/models"
)

func TestDeriveStockStatus(t *testing.T) {
	cases := []struct {
		quantity  float64
		threshold float64
		want      models.StockStatus
	}{
		{0, 5, models.StockOutOfStock},
		{-1, 5, models.StockOutOfStock},
		{0.5, 5, models.StockLowStock},
		{5, 5, models.StockLowStock},
		{5.1, 5, models.StockInStock},
		{100, 5, models.StockInStock},
	}
	for _, c := range cases {
		if got := models.DeriveStockStatus(c.quantity, c.threshold); got != c.want {
			t.Errorf("DeriveStockStatus(%g, %g) = %s, want %s", c.quantity, c.threshold, got, c.want)
		}
	}
}

func TestGetOrCreateDerivesStatus(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db, NewCatalog(db), nil)

	leather := seedMaterial(t, db, models.Material{Name: "veg-tan leather", SKU: "LTH-01", MinStockLevel: f64(10)})

	rec, err := stock.GetOrCreate(models.MaterialRef(leather.ID), StockDefaults{Quantity: 4, StorageLocation: "shelf A"})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if rec.Status != models.StockLowStock {
		t.Errorf("status = %s, want LOW_STOCK", rec.Status)
	}
	if rec.StorageLocation != "shelf A" {
		t.Errorf("storage location = %q", rec.StorageLocation)
	}

	thread := seedMaterial(t, db, models.Material{Name: "waxed thread", SKU: "THR-01"})
	rec2, err := stock.GetOrCreate(models.MaterialRef(thread.ID), StockDefaults{})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if rec2.Status != models.StockOutOfStock {
		t.Errorf("zero-quantity status = %s, want OUT_OF_STOCK", rec2.Status)
	}
}

func TestGetOrCreateReturnsExisting(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db, NewCatalog(db), nil)
	leather := seedMaterial(t, db, models.Material{Name: "leather", SKU: "LTH-02"})

	first, err := stock.GetOrCreate(models.MaterialRef(leather.ID), StockDefaults{Quantity: 8})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := stock.GetOrCreate(models.MaterialRef(leather.ID), StockDefaults{Quantity: 99})
	if err != nil {
		t.Fatalf("GetOrCreate again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("got a second record %d, want existing %d", second.ID, first.ID)
	}
	if second.Quantity != 8 {
		t.Errorf("defaults overwrote the existing quantity: %g", second.Quantity)
	}
}

func TestGetOrCreateRejectsBadRef(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db, NewCatalog(db), nil)

	_, err := stock.GetOrCreate(models.ItemRef{Type: "GADGET", ID: 1}, StockDefaults{})
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError for unknown item type, got %v", err)
	}
	_, err = stock.GetOrCreate(models.ItemRef{Type: models.ItemMaterial}, StockDefaults{})
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError for zero item id, got %v", err)
	}
}

func TestAdjustUpdatesQuantityStatusAndTrail(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db, NewCatalog(db), nil)
	leather := seedMaterial(t, db, models.Material{Name: "leather", SKU: "LTH-03", MinStockLevel: f64(5)})

	rec, err := stock.GetOrCreate(models.MaterialRef(leather.ID), StockDefaults{Quantity: 10})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	rec, err = stock.Adjust(rec.ID, -7, models.AdjustSale, "belt order #12")
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if rec.Quantity != 3 || rec.Status != models.StockLowStock {
		t.Errorf("after -7: quantity=%g status=%s, want 3 LOW_STOCK", rec.Quantity, rec.Status)
	}

	rec, err = stock.Adjust(rec.ID, -3, models.AdjustWastage, "water damage")
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if rec.Quantity != 0 || rec.Status != models.StockOutOfStock {
		t.Errorf("after -3: quantity=%g status=%s, want 0 OUT_OF_STOCK", rec.Quantity, rec.Status)
	}

	rec, err = stock.Adjust(rec.ID, 12, models.AdjustRestock, "resupply")
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if rec.Quantity != 12 || rec.Status != models.StockInStock {
		t.Errorf("after +12: quantity=%g status=%s, want 12 IN_STOCK", rec.Quantity, rec.Status)
	}

	trxs, err := stock.Transactions(rec.ID)
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if len(trxs) != 3 {
		t.Fatalf("got %d transactions, want 3", len(trxs))
	}
	// Newest first.
	if trxs[0].Type != models.AdjustRestock || trxs[2].Type != models.AdjustSale {
		t.Errorf("transaction order wrong: first=%s last=%s", trxs[0].Type, trxs[2].Type)
	}
	for _, trx := range trxs {
		if trx.QuantityBefore+trx.QuantityChange != trx.QuantityAfter {
			t.Errorf("transaction %d breaks before+change=after: %g + %g != %g",
				trx.ID, trx.QuantityBefore, trx.QuantityChange, trx.QuantityAfter)
		}
	}
}

func TestAdjustRejectsNegativeStock(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db, NewCatalog(db), nil)
	leather := seedMaterial(t, db, models.Material{Name: "leather", SKU: "LTH-04"})

	rec, err := stock.GetOrCreate(models.MaterialRef(leather.ID), StockDefaults{Quantity: 2})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	_, err = stock.Adjust(rec.ID, -3, models.AdjustSale, "oversell")
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}

	got, err := stock.GetByID(rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Quantity != 2 {
		t.Errorf("quantity changed on rejected adjustment: %g", got.Quantity)
	}
	trxs, err := stock.Transactions(rec.ID)
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if len(trxs) != 0 {
		t.Errorf("rejected adjustment left %d transactions", len(trxs))
	}
}

func TestAdjustUnknownRecord(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db, NewCatalog(db), nil)

	_, err := stock.Adjust(42, 1, models.AdjustRestock, "")
	var nferr *apperrors.NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestMove(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db, NewCatalog(db), nil)
	leather := seedMaterial(t, db, models.Material{Name: "leather", SKU: "LTH-05"})

	rec, err := stock.GetOrCreate(models.MaterialRef(leather.ID), StockDefaults{Quantity: 6, StorageLocation: "shelf A"})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	_, err = stock.Move(rec.ID, "shelf B", "shelf C")
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("stale location should be rejected, got %v", err)
	}

	moved, err := stock.Move(rec.ID, "shelf A", "drawer 3")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if moved.StorageLocation != "drawer 3" {
		t.Errorf("location = %q, want drawer 3", moved.StorageLocation)
	}

	var history []models.LocationHistory
	if err := db.Where("stock_record_id = ?", rec.ID).Find(&history).Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(history) != 1 || history[0].FromLocation != "shelf A" || history[0].ToLocation != "drawer 3" {
		t.Errorf("history = %+v", history)
	}
}

func TestRecomputeAllStatuses(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db, NewCatalog(db), nil)
	leather := seedMaterial(t, db, models.Material{Name: "leather", SKU: "LTH-06", MinStockLevel: f64(5)})

	rec, err := stock.GetOrCreate(models.MaterialRef(leather.ID), StockDefaults{Quantity: 3})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	// Corrupt the stored status behind the service's back.
	if err := db.Model(&models.StockRecord{}).Where("id = ?", rec.ID).
		Update("status", models.StockInStock).Error; err != nil {
		t.Fatalf("corrupt status: %v", err)
	}

	counts, err := stock.RecomputeAllStatuses()
	if err != nil {
		t.Fatalf("RecomputeAllStatuses: %v", err)
	}
	if counts[models.StockLowStock] != 1 {
		t.Errorf("counts = %v, want one LOW_STOCK", counts)
	}
	fixed, err := stock.GetByID(rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fixed.Status != models.StockLowStock {
		t.Errorf("status = %s after recompute, want LOW_STOCK", fixed.Status)
	}

	again, err := stock.RecomputeAllStatuses()
	if err != nil {
		t.Fatalf("second RecomputeAllStatuses: %v", err)
	}
	if again[models.StockLowStock] != 1 {
		t.Errorf("second run counts = %v", again)
	}
}

func TestLowStock(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db, NewCatalog(db), nil)

	ok := seedMaterial(t, db, models.Material{Name: "plenty", SKU: "M-OK", MinStockLevel: f64(5)})
	low := seedMaterial(t, db, models.Material{Name: "scarce", SKU: "M-LOW", MinStockLevel: f64(5)})
	out := seedMaterial(t, db, models.Material{Name: "gone", SKU: "M-OUT", MinStockLevel: f64(5)})

	for _, s := range []struct {
		id  uint
		qty float64
	}{{ok.ID, 20}, {low.ID, 3}, {out.ID, 0}} {
		if _, err := stock.GetOrCreate(models.MaterialRef(s.id), StockDefaults{Quantity: s.qty}); err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}
	}

	records, err := stock.LowStock()
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d low-stock records, want 2", len(records))
	}
	for _, rec := range records {
		if rec.ItemID == ok.ID {
			t.Errorf("in-stock item %d reported low", rec.ItemID)
		}
	}
}

func TestThresholdFallsBackToTypeDefault(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db, NewCatalog(db), nil)

	// No catalog entry exists for this id; the material default of 5 applies.
	rec, err := stock.GetOrCreate(models.MaterialRef(999), StockDefaults{Quantity: 4})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if rec.Status != models.StockLowStock {
		t.Errorf("status = %s, want LOW_STOCK from default threshold", rec.Status)
	}
}
