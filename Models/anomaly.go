package Models

import (
	"time"

	"gorm.io/gorm"
)

// Anomaly workflow statuses. An absent row means pending.
const (
	AnomalyPending   = "pending"
	AnomalyApproved  = "approved"
	AnomalyRejected  = "rejected"
	AnomalyFinalized = "finalized"
)

// AnomalyStatus is one row per distinct (plate, category, item) problem
// identity, independent of how many inspections raised it. Created lazily on
// the first admin transition, updated in place afterwards, never deleted.
type AnomalyStatus struct {
	gorm.Model
	Plate           string     `json:"plate" gorm:"uniqueIndex:idx_anomaly_identity;not null"`
	Category        string     `json:"categoria" gorm:"uniqueIndex:idx_anomaly_identity;not null"`
	Item            string     `json:"item" gorm:"uniqueIndex:idx_anomaly_identity;not null"`
	StatusAnomalia  string     `json:"status_anomalia"`
	DataAprovacao   *time.Time `json:"data_aprovacao,omitempty"`
	ApproverID      uint       `json:"aprovador_id,omitempty"`
	ApproverName    string     `json:"aprovador,omitempty"`
	DataFinalizacao *time.Time `json:"data_finalizacao,omitempty"`
	Observacao      string     `json:"observacao,omitempty" gorm:"type:text"`
}

func (AnomalyStatus) TableName() string {
	return "anomaly_statuses"
}

func (a *AnomalyStatus) BeforeSave(tx *gorm.DB) error {
	a.Plate = NormalizePlate(a.Plate)
	return nil
}
