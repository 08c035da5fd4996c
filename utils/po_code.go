package utils

import (
	"fmt"
	"time"
)

// GenOrderNo builds a human-readable purchase order number, e.g. PO-2026-000042.
func GenOrderNo(seq int64, t time.Time) string {
	return fmt.Sprintf("PO-%d-%06d", t.Year(), seq)
}
