// Package chalan holds the assembly rules applied to a delivery chalan
// before it is persisted: per-client serial numbering, line-total
// derivation, dense item renumbering and blank-line filtering.
package chalan

import (
	"fmt"
	"strings"

	"chalan-service/internal/model"

	"gorm.io/gorm"
)

// LineTotal derives the quantity total for one line.
func LineTotal(noOfBoxes int, costPerBox float64) float64 {
	return float64(noOfBoxes) * costPerBox
}

// ApplyLineEdit reconciles an edited line against its previously stored
// version. A change to either factor recomputes TotalQty; an edit that
// leaves both factors alone keeps whatever TotalQty the operator submitted,
// so a direct override survives until the factors change again.
func ApplyLineEdit(prev, next model.ChalanItem) model.ChalanItem {
	if next.NoOfBoxes != prev.NoOfBoxes || next.CostPerBox != prev.CostPerBox {
		next.TotalQty = LineTotal(next.NoOfBoxes, next.CostPerBox)
	}
	return next
}

// DefaultLineTotal fills in the derived total on a brand-new line. A
// non-zero TotalQty is treated as an explicit operator override and kept.
func DefaultLineTotal(item model.ChalanItem) model.ChalanItem {
	if item.TotalQty == 0 {
		item.TotalQty = LineTotal(item.NoOfBoxes, item.CostPerBox)
	}
	return item
}

// Renumber rewrites Sno values to be dense 1..N in slice order.
func Renumber(items []model.ChalanItem) []model.ChalanItem {
	for i := range items {
		items[i].Sno = i + 1
	}
	return items
}

// DropBlank removes lines whose particulars are empty or whitespace-only.
// An all-blank submission yields an empty list, not an error.
func DropBlank(items []model.ChalanItem) []model.ChalanItem {
	kept := items[:0]
	for _, item := range items {
		if strings.TrimSpace(item.Particulars) != "" {
			kept = append(kept, item)
		}
	}
	return kept
}

// PrepareItems applies the full submission pipeline to a new chalan's
// lines: blank lines are dropped, totals are defaulted, and the survivors
// are renumbered densely.
func PrepareItems(items []model.ChalanItem) []model.ChalanItem {
	items = DropBlank(items)
	for i := range items {
		items[i] = DefaultLineTotal(items[i])
	}
	return Renumber(items)
}

// ValidateItems rejects lines with a negative box count or unit cost.
// Blank lines are filtered before this runs, so line numbers in the error
// refer to the surviving lines.
func ValidateItems(items []model.ChalanItem) error {
	for i, item := range items {
		if item.NoOfBoxes < 0 || item.CostPerBox < 0 {
			return fmt.Errorf("line %d: noOfBoxes and costPerBox must not be negative", i+1)
		}
	}
	return nil
}

// ReconcileItems merges an updated line set against the stored one. Lines
// carrying the ID of a stored line follow the edit rules of ApplyLineEdit;
// unknown or new lines get the default total. Blank lines are dropped and
// the result is renumbered.
func ReconcileItems(stored, submitted []model.ChalanItem) []model.ChalanItem {
	prev := make(map[uint]model.ChalanItem, len(stored))
	for _, item := range stored {
		prev[item.ID] = item
	}
	submitted = DropBlank(submitted)
	for i, item := range submitted {
		if old, ok := prev[item.ID]; ok && item.ID != 0 {
			submitted[i] = ApplyLineEdit(old, item)
		} else {
			submitted[i] = DefaultLineTotal(item)
		}
	}
	return Renumber(submitted)
}

// NextSerialNumber computes the serial the next chalan for a client should
// carry: one past the number already on record. This is a read-then-use
// count with no reservation; two concurrent submissions for the same client
// can observe the same count and collide.
func NextSerialNumber(db *gorm.DB, clientID uint) (int, error) {
	var count int64
	if err := db.Model(&model.Chalan{}).Where("client_id = ?", clientID).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count) + 1, nil
}
