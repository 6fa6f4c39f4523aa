package Aggregation

import (
	"time"

	"gorm.io/gorm"

	"Vistoria/AppErrors"
	"Vistoria/Models"
)

// Transitions upsert the AnomalyStatus row for a normalized
// (plate, category, item) triple: insert if absent, otherwise update only the
// fields relevant to that transition. Rejected rows may be re-approved later.

// Approve marks a problem approved, recording approver and timestamp.
func Approve(db *gorm.DB, plate, category, item string, approverID uint, approverName string, now time.Time) (*Models.AnomalyStatus, error) {
	return upsert(db, plate, category, item, func(row *Models.AnomalyStatus) {
		row.StatusAnomalia = Models.AnomalyApproved
		row.DataAprovacao = &now
		row.ApproverID = approverID
		row.ApproverName = approverName
	})
}

// Reject silences a problem: it disappears from the active report but keeps
// its row, so it can be re-approved.
func Reject(db *gorm.DB, plate, category, item, observacao string) (*Models.AnomalyStatus, error) {
	return upsert(db, plate, category, item, func(row *Models.AnomalyStatus) {
		row.StatusAnomalia = Models.AnomalyRejected
		row.Observacao = observacao
	})
}

// Finalize closes a problem, moving it to the finalized report.
func Finalize(db *gorm.DB, plate, category, item, observacao string, now time.Time) (*Models.AnomalyStatus, error) {
	return upsert(db, plate, category, item, func(row *Models.AnomalyStatus) {
		row.StatusAnomalia = Models.AnomalyFinalized
		row.DataFinalizacao = &now
		if observacao != "" {
			row.Observacao = observacao
		}
	})
}

func upsert(db *gorm.DB, plate, category, item string, apply func(*Models.AnomalyStatus)) (*Models.AnomalyStatus, error) {
	plate = Models.NormalizePlate(plate)
	if plate == "" {
		return nil, AppErrors.Validation("plate", "required")
	}
	if category == "" {
		return nil, AppErrors.Validation("categoria", "required")
	}
	if item == "" {
		return nil, AppErrors.Validation("item", "required")
	}

	// Case folding happens in Go: SQLite's LOWER is ASCII-only and the item
	// vocabulary carries accented names.
	var candidates []Models.AnomalyStatus
	if err := db.Where("plate = ?", plate).Find(&candidates).Error; err != nil {
		return nil, AppErrors.Storage("find anomaly status", err)
	}

	key := keyOf(plate, category, item)
	row := Models.AnomalyStatus{Plate: plate, Category: category, Item: item}
	for _, candidate := range candidates {
		if keyOf(candidate.Plate, candidate.Category, candidate.Item) == key {
			row = candidate
			break
		}
	}

	apply(&row)

	if err := db.Save(&row).Error; err != nil {
		return nil, AppErrors.Storage("save anomaly status", err)
	}
	return &row, nil
}
