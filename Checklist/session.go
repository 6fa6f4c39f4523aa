// Package Checklist orchestrates the multi-screen submission flow: one
// inspection row per visit, created by the first screen and patched by id
// from every later screen.
package Checklist

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"Vistoria/AppErrors"
	"Vistoria/Models"
)

// CoolDown is the window during which a second submission for the same plate
// is rejected as a likely duplicate.
const CoolDown = 60 * time.Minute

// Manager runs checklist sessions. Now is injectable for the guard tests.
type Manager struct {
	DB     *gorm.DB
	Drafts *DraftStore
	Now    func() time.Time
}

func NewManager(db *gorm.DB, drafts *DraftStore) *Manager {
	return &Manager{DB: db, Drafts: drafts, Now: time.Now}
}

// StartInput is the first wizard screen's payload.
type StartInput struct {
	ClientKey     string `json:"client_key"`
	Plate         string `json:"plate" validate:"required"`
	VehicleTypeID uint   `json:"vehicle_type_id" validate:"required"`
	UserID        uint   `json:"user_id"`
	Odometer      int    `json:"odometro"`
	FuelLevel     string `json:"nivel_combustivel"`
}

// Start creates exactly one inspection for the visit. If the client key
// already holds a draft with an allocated id, that id is returned instead of
// allocating a second one (the resume contract). Otherwise the duplicate
// guard runs: a prior inspection for the normalized plate inside the
// cool-down fails the call with a conflict carrying the prior timestamp.
//
// The guard is check-then-insert without a transaction, as in the reference
// system; two concurrent starts for one plate can race past it.
func (m *Manager) Start(in StartInput) (uint, error) {
	plate := Models.NormalizePlate(in.Plate)
	if plate == "" {
		return 0, AppErrors.Validation("plate", "required")
	}
	if in.VehicleTypeID == 0 {
		return 0, AppErrors.Validation("vehicle_type_id", "required")
	}

	if in.ClientKey != "" {
		if draft, err := m.Drafts.Load(in.ClientKey); err == nil && draft.InspectionID != 0 {
			return draft.InspectionID, nil
		}
	}

	var prior Models.Inspection
	err := m.DB.Where("plate = ?", plate).
		Order("data_realizacao DESC").
		First(&prior).Error
	if err == nil {
		if m.Now().Sub(prior.DataRealizacao) < CoolDown {
			return 0, AppErrors.DuplicateSubmission(prior.DataRealizacao)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, AppErrors.Storage("lookup prior inspection", err)
	}

	inspection := Models.Inspection{
		Plate:          plate,
		VehicleTypeID:  in.VehicleTypeID,
		UserID:         in.UserID,
		Odometer:       in.Odometer,
		FuelLevel:      in.FuelLevel,
		DataRealizacao: m.Now(),
		Status:         Models.InspectionInProgress,
	}
	if err := m.DB.Create(&inspection).Error; err != nil {
		return 0, AppErrors.Storage("create inspection", err)
	}

	if in.ClientKey != "" {
		_ = m.Drafts.Save(Draft{
			ClientKey:    in.ClientKey,
			InspectionID: inspection.ID,
			Plate:        plate,
			Screen:       "initial",
		})
	}

	return inspection.ID, nil
}

// InitialUpdate patches the first screen's fields after creation.
type InitialUpdate struct {
	Odometer  *int    `json:"odometro,omitempty"`
	FuelLevel *string `json:"nivel_combustivel,omitempty"`
	UserID    *uint   `json:"user_id,omitempty"`
}

// PatchInitial updates the initial-data fields of an existing inspection.
func (m *Manager) PatchInitial(inspectionID uint, update InitialUpdate) error {
	inspection, err := m.find(inspectionID)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if update.Odometer != nil {
		fields["odometer"] = *update.Odometer
	}
	if update.FuelLevel != nil {
		fields["fuel_level"] = *update.FuelLevel
	}
	if update.UserID != nil {
		fields["user_id"] = *update.UserID
	}
	if len(fields) == 0 {
		return nil
	}

	if err := m.DB.Model(inspection).Updates(fields).Error; err != nil {
		return AppErrors.Storage("patch inspection", err)
	}
	return nil
}

// ItemInput is one checked item from the item-inspection screen.
type ItemInput struct {
	Category     string  `json:"categoria" validate:"required"`
	Item         string  `json:"item" validate:"required"`
	Status       string  `json:"status"`
	PhotoRef     string  `json:"foto,omitempty"`
	TirePressure float64 `json:"pressao,omitempty"`
	Note         string  `json:"observacao,omitempty"`
}

// AddItems appends item rows to an inspection. Appends, never upserts:
// resubmitting a screen duplicates rows, which the aggregator tolerates.
func (m *Manager) AddItems(inspectionID uint, items []ItemInput) error {
	if len(items) == 0 {
		return AppErrors.Validation("itens", "at least one item required")
	}
	if _, err := m.find(inspectionID); err != nil {
		return err
	}

	rows := make([]Models.InspectionItem, 0, len(items))
	for _, in := range items {
		if in.Category == "" || in.Item == "" {
			return AppErrors.Validation("itens", "categoria and item are required")
		}
		rows = append(rows, Models.InspectionItem{
			InspectionID: inspectionID,
			Category:     in.Category,
			Item:         in.Item,
			Status:       in.Status,
			PhotoRef:     in.PhotoRef,
			TirePressure: in.TirePressure,
			Note:         in.Note,
		})
	}

	if err := m.DB.Create(&rows).Error; err != nil {
		return AppErrors.Storage("append inspection items", err)
	}
	return nil
}

// AddPhotos attaches stored photo rows to an inspection. Append-only.
func (m *Manager) AddPhotos(inspectionID uint, photos []Models.InspectionPhoto) error {
	if len(photos) == 0 {
		return AppErrors.Validation("fotos", "at least one photo required")
	}
	if _, err := m.find(inspectionID); err != nil {
		return err
	}
	for i := range photos {
		photos[i].InspectionID = inspectionID
	}
	if err := m.DB.Create(&photos).Error; err != nil {
		return AppErrors.Storage("append inspection photos", err)
	}
	return nil
}

// TireInput is one tire reading from the tire screen.
type TireInput struct {
	Position string  `json:"posicao" validate:"required"`
	Pressure float64 `json:"pressao"`
	Status   string  `json:"status"`
}

// AddTires appends tire readings to an inspection.
func (m *Manager) AddTires(inspectionID uint, tires []TireInput) error {
	if len(tires) == 0 {
		return AppErrors.Validation("pneus", "at least one reading required")
	}
	if _, err := m.find(inspectionID); err != nil {
		return err
	}

	rows := make([]Models.TireReading, 0, len(tires))
	for _, in := range tires {
		rows = append(rows, Models.TireReading{
			InspectionID: inspectionID,
			Position:     in.Position,
			Pressure:     in.Pressure,
			Status:       in.Status,
		})
	}
	if err := m.DB.Create(&rows).Error; err != nil {
		return AppErrors.Storage("append tire readings", err)
	}
	return nil
}

// Finalize completes the visit, stamping the completion timestamp and
// discarding the draft if a client key is given.
func (m *Manager) Finalize(inspectionID uint, clientKey string) error {
	inspection, err := m.find(inspectionID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"status":          Models.InspectionFinalized,
		"data_realizacao": m.Now(),
	}
	if err := m.DB.Model(inspection).Updates(updates).Error; err != nil {
		return AppErrors.Storage("finalize inspection", err)
	}

	if clientKey != "" {
		_ = m.Drafts.Delete(clientKey)
	}
	return nil
}

// RecordScreen merges a screen's accumulated field values into the session
// draft. Called after every screen transition, before the network round trip,
// so a killed client resumes where it left off.
func (m *Manager) RecordScreen(clientKey, screen string, fields map[string]string) (*Draft, error) {
	if clientKey == "" {
		return nil, AppErrors.Validation("client_key", "required")
	}

	draft, err := m.Drafts.Load(clientKey)
	if err != nil {
		if !AppErrors.IsNotFound(err) {
			return nil, err
		}
		draft = &Draft{ClientKey: clientKey}
	}

	draft.Screen = screen
	if draft.Fields == nil {
		draft.Fields = make(map[string]string, len(fields))
	}
	for k, v := range fields {
		draft.Fields[k] = v
	}

	if err := m.Drafts.Save(*draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// StartOver discards the local draft and the allocated id together.
func (m *Manager) StartOver(clientKey string) error {
	if clientKey == "" {
		return AppErrors.Validation("client_key", "required")
	}
	return m.Drafts.Delete(clientKey)
}

// find loads an inspection or fails with not-found. Patch operations must
// never silently create a new inspection.
func (m *Manager) find(id uint) (*Models.Inspection, error) {
	var inspection Models.Inspection
	if err := m.DB.First(&inspection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, AppErrors.NotFound("inspection", id)
		}
		return nil, AppErrors.Storage("find inspection", err)
	}
	return &inspection, nil
}
