package service

import (
	"workshop-inventory/apperrors"
	"workshop-inventory/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StockService is the Stock Ledger: it owns quantity, derived status and the
// append-only transaction trail of every stocked item. Adjust is the single
// authorized mutation path for quantities; receipt and manual corrections
// route through it.
type StockService struct {
	db      *gorm.DB
	catalog Catalog
	log     *zap.Logger
}

func NewStockService(db *gorm.DB, catalog Catalog, log *zap.Logger) *StockService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StockService{db: db, catalog: catalog, log: log}
}

// StockDefaults seed a record created through GetOrCreate.
type StockDefaults struct {
	Quantity        float64
	StorageLocation string
}

// Get returns the stock record for the referenced item.
func (s *StockService) Get(ref models.ItemRef) (*models.StockRecord, error) {
	if err := ref.Validate(); err != nil {
		return nil, apperrors.Validation("stock_record", ref.ID, "item_ref", err.Error())
	}
	var rec models.StockRecord
	err := s.db.Where("item_type = ? AND item_id = ?", ref.Type, ref.ID).First(&rec).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, apperrors.NotFound("stock_record", ref.ID)
		}
		return nil, err
	}
	return &rec, nil
}

// GetByID returns the stock record with the given primary key.
func (s *StockService) GetByID(id uint) (*models.StockRecord, error) {
	var rec models.StockRecord
	if err := s.db.First(&rec, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, apperrors.NotFound("stock_record", id)
		}
		return nil, err
	}
	return &rec, nil
}

// GetOrCreate returns the existing record for ref or creates one seeded with
// defaults. Creation is atomic: a concurrent create losing the unique race
// on (item_type, item_id) falls back to fetching the winner's row.
func (s *StockService) GetOrCreate(ref models.ItemRef, defaults StockDefaults) (*models.StockRecord, error) {
	return s.getOrCreateTx(s.db, ref, defaults)
}

func (s *StockService) getOrCreateTx(tx *gorm.DB, ref models.ItemRef, defaults StockDefaults) (*models.StockRecord, error) {
	if err := ref.Validate(); err != nil {
		return nil, apperrors.Validation("stock_record", ref.ID, "item_ref", err.Error())
	}

	var rec models.StockRecord
	err := tx.Where("item_type = ? AND item_id = ?", ref.Type, ref.ID).First(&rec).Error
	if err == nil {
		return &rec, nil
	}
	if !isRecordNotFound(err) {
		return nil, err
	}

	rec = models.StockRecord{
		ItemType:        ref.Type,
		ItemID:          ref.ID,
		Quantity:        defaults.Quantity,
		Status:          models.DeriveStockStatus(defaults.Quantity, s.threshold(ref)),
		StorageLocation: defaults.StorageLocation,
	}
	if err := tx.Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			// Lost the create race; the winner's row is what we want.
			if err := tx.Where("item_type = ? AND item_id = ?", ref.Type, ref.ID).First(&rec).Error; err != nil {
				return nil, err
			}
			return &rec, nil
		}
		return nil, err
	}
	s.log.Info("stock record created",
		zap.String("item", ref.String()),
		zap.Float64("quantity", rec.Quantity),
	)
	return &rec, nil
}

// Adjust applies delta to the record's quantity, recomputes the derived
// status and appends the StockTransaction, all in one transaction. A delta
// that would drive the quantity negative fails with a ValidationError and
// leaves the record untouched.
func (s *StockService) Adjust(recordID uint, delta float64, adjType models.AdjustmentType, reason string) (*models.StockRecord, error) {
	var rec *models.StockRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		rec, txErr = s.adjustTx(tx, recordID, delta, adjType, reason)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// adjustTx is Adjust inside a caller-supplied transaction; the procurement
// receive path uses it so an order's line updates and stock effects share
// one atomicity unit.
func (s *StockService) adjustTx(tx *gorm.DB, recordID uint, delta float64, adjType models.AdjustmentType, reason string) (*models.StockRecord, error) {
	var rec models.StockRecord
	if err := lockForUpdate(tx).First(&rec, recordID).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, apperrors.NotFound("stock_record", recordID)
		}
		return nil, err
	}

	before := rec.Quantity
	after := before + delta
	if after < 0 {
		return nil, apperrors.Validation("stock_record", recordID, "quantity",
			"adjustment would drive stock negative")
	}

	rec.Quantity = after
	rec.Status = models.DeriveStockStatus(after, s.threshold(rec.Ref()))
	if err := tx.Model(&models.StockRecord{}).Where("id = ?", rec.ID).
		Updates(map[string]any{"quantity": rec.Quantity, "status": rec.Status}).Error; err != nil {
		return nil, err
	}

	trx := models.StockTransaction{
		StockRecordID:  rec.ID,
		QuantityBefore: before,
		QuantityAfter:  after,
		QuantityChange: delta,
		Type:           adjType,
		Reason:         reason,
	}
	if err := tx.Create(&trx).Error; err != nil {
		return nil, err
	}

	s.log.Info("stock adjusted",
		zap.Uint("record_id", rec.ID),
		zap.String("item", rec.Ref().String()),
		zap.Float64("delta", delta),
		zap.Float64("quantity", after),
		zap.String("type", string(adjType)),
	)
	return &rec, nil
}

// Move relocates a record's stock. The caller must supply the location it
// read; a mismatch means the read was stale and the move is rejected.
func (s *StockService) Move(recordID uint, from, to string) (*models.StockRecord, error) {
	var rec models.StockRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&rec, recordID).Error; err != nil {
			if isRecordNotFound(err) {
				return apperrors.NotFound("stock_record", recordID)
			}
			return err
		}
		if rec.StorageLocation != from {
			return apperrors.Validation("stock_record", recordID, "storage_location",
				"current location is "+rec.StorageLocation+", not "+from)
		}

		rec.StorageLocation = to
		if err := tx.Model(&models.StockRecord{}).Where("id = ?", rec.ID).
			Update("storage_location", to).Error; err != nil {
			return err
		}
		return tx.Create(&models.LocationHistory{
			StockRecordID: rec.ID,
			FromLocation:  from,
			ToLocation:    to,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// RecomputeAllStatuses reapplies the threshold function to every record and
// returns the record count per resulting status. Only rows whose derived
// status differs from the stored one are written, so a second run in a row
// writes nothing.
func (s *StockService) RecomputeAllStatuses() (map[models.StockStatus]int, error) {
	var records []models.StockRecord
	if err := s.db.Find(&records).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.StockStatus]int)
	changed := 0
	for i := range records {
		rec := &records[i]
		derived := models.DeriveStockStatus(rec.Quantity, s.threshold(rec.Ref()))
		if derived != rec.Status {
			if err := s.db.Model(&models.StockRecord{}).Where("id = ?", rec.ID).
				Update("status", derived).Error; err != nil {
				return nil, err
			}
			changed++
		}
		counts[derived]++
	}

	s.log.Info("stock statuses recomputed",
		zap.Int("records", len(records)),
		zap.Int("changed", changed),
	)
	return counts, nil
}

// Transactions lists the audit trail of one record, newest first.
func (s *StockService) Transactions(recordID uint) ([]models.StockTransaction, error) {
	if _, err := s.GetByID(recordID); err != nil {
		return nil, err
	}
	var trxs []models.StockTransaction
	err := s.db.Where("stock_record_id = ?", recordID).Order("id DESC").Find(&trxs).Error
	return trxs, err
}

// LowStock lists records whose derived status is LOW_STOCK or OUT_OF_STOCK.
func (s *StockService) LowStock() ([]models.StockRecord, error) {
	var records []models.StockRecord
	err := s.db.
		Where("status IN ?", []models.StockStatus{models.StockLowStock, models.StockOutOfStock}).
		Order("item_type, item_id").
		Find(&records).Error
	return records, err
}

// threshold resolves the effective minimum-stock level for an item,
// falling back to the item-type default when the catalog has no entry or no
// configured minimum.
func (s *StockService) threshold(ref models.ItemRef) float64 {
	info, err := s.catalog.ItemInfo(ref)
	if err != nil {
		return ref.Type.DefaultMinStock()
	}
	return info.MinStock(ref.Type)
}
