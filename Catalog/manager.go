package Catalog

import (
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"Vistoria/AppErrors"
	"Vistoria/Models"
)

// Manager owns catalog mutations. Readers tolerate eventually-consistent
// enable state, so mutations need no coordination with the resolver.
type Manager struct {
	DB *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{DB: db}
}

// AddItemInput fixes the item's type-association choice at creation: generic
// items declare their initial type list, specific items declare their one type.
type AddItemInput struct {
	Category      string         `json:"categoria" validate:"required"`
	Name          string         `json:"nome" validate:"required"`
	Scope         string         `json:"scope" validate:"required,oneof=generic specific"`
	VehicleTypeID *uint          `json:"vehicle_type_id,omitempty"`
	TypeIDs       []uint         `json:"type_ids,omitempty"`
	RequiresPhoto bool           `json:"requer_foto"`
	Required      bool           `json:"obrigatorio"`
	AnswerType    string         `json:"tipo_resposta"`
	AnswerOptions datatypes.JSON `json:"opcoes_resposta,omitempty"`
}

// AddItem creates a catalog item. Duplicate (category, name) pairs are
// rejected with a conflict.
func (m *Manager) AddItem(in AddItemInput) (*Models.CatalogItem, error) {
	if in.Name == "" {
		return nil, AppErrors.Validation("nome", "required")
	}
	if in.Category == "" {
		return nil, AppErrors.Validation("categoria", "required")
	}

	switch in.Scope {
	case Models.ScopeSpecific:
		if in.VehicleTypeID == nil {
			return nil, AppErrors.Validation("vehicle_type_id", "required for specific items")
		}
		if len(in.TypeIDs) > 0 {
			return nil, AppErrors.Validation("type_ids", "not allowed for specific items")
		}
	case Models.ScopeGeneric:
		if in.VehicleTypeID != nil {
			return nil, AppErrors.Validation("vehicle_type_id", "not allowed for generic items")
		}
	default:
		return nil, AppErrors.Validation("scope", "must be generic or specific")
	}

	var count int64
	if err := m.DB.Model(&Models.CatalogItem{}).
		Where("category = ? AND name = ?", in.Category, in.Name).
		Count(&count).Error; err != nil {
		return nil, AppErrors.Storage("check duplicate item", err)
	}
	if count > 0 {
		return nil, AppErrors.Conflict(fmt.Sprintf("item %q already exists in category %s", in.Name, in.Category))
	}

	item := Models.CatalogItem{
		Category:      in.Category,
		Name:          in.Name,
		Enabled:       true,
		Scope:         in.Scope,
		VehicleTypeID: in.VehicleTypeID,
		RequiresPhoto: in.RequiresPhoto,
		Required:      in.Required,
		AnswerType:    in.AnswerType,
		AnswerOptions: in.AnswerOptions,
	}

	err := m.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		for _, typeID := range in.TypeIDs {
			link := Models.CatalogItemType{CatalogItemID: item.ID, VehicleTypeID: typeID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, AppErrors.Storage("create catalog item", err)
	}
	return &item, nil
}

// DeleteItem removes an item and cascades its association rows.
func (m *Manager) DeleteItem(id uint) error {
	item, err := m.find(id)
	if err != nil {
		return err
	}
	err = m.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("catalog_item_id = ?", item.ID).Delete(&Models.CatalogItemType{}).Error; err != nil {
			return err
		}
		return tx.Delete(item).Error
	})
	if err != nil {
		return AppErrors.Storage("delete catalog item", err)
	}
	return nil
}

// SetEnabled toggles a single item, independent of deletion.
func (m *Manager) SetEnabled(id uint, enabled bool) error {
	item, err := m.find(id)
	if err != nil {
		return err
	}
	if err := m.DB.Model(item).Update("enabled", enabled).Error; err != nil {
		return AppErrors.Storage("update enabled flag", err)
	}
	return nil
}

// BulkResult reports one item's outcome in a best-effort batch.
type BulkResult struct {
	ID    uint   `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// BulkSetEnabled applies the toggle to each id independently. One failure
// never rolls back the rest of the batch.
func (m *Manager) BulkSetEnabled(ids []uint, enabled bool) []BulkResult {
	results := make([]BulkResult, 0, len(ids))
	for _, id := range ids {
		r := BulkResult{ID: id, OK: true}
		if err := m.SetEnabled(id, enabled); err != nil {
			r.OK = false
			r.Error = err.Error()
		}
		results = append(results, r)
	}
	return results
}

// MoveCategory moves an item between categories. Identity and associations
// are untouched.
func (m *Manager) MoveCategory(id uint, category string) error {
	if category == "" {
		return AppErrors.Validation("categoria", "required")
	}
	item, err := m.find(id)
	if err != nil {
		return err
	}
	if err := m.DB.Model(item).Update("category", category).Error; err != nil {
		return AppErrors.Storage("move category", err)
	}
	return nil
}

// SetTypeInput declares the item's new type binding. Exactly one side is set.
type SetTypeInput struct {
	Scope         string `json:"scope" validate:"required,oneof=generic specific"`
	VehicleTypeID *uint  `json:"vehicle_type_id,omitempty"`
	TypeIDs       []uint `json:"type_ids,omitempty"`
}

// SetItemType reassigns a specific item's type or converts between generic
// and specific. This is the only path that changes an item's scope; the
// opposite representation is cleared in the same transaction so an item is
// never both.
func (m *Manager) SetItemType(id uint, in SetTypeInput) (*Models.CatalogItem, error) {
	item, err := m.find(id)
	if err != nil {
		return nil, err
	}

	switch in.Scope {
	case Models.ScopeSpecific:
		if in.VehicleTypeID == nil {
			return nil, AppErrors.Validation("vehicle_type_id", "required for specific items")
		}
	case Models.ScopeGeneric:
		if in.VehicleTypeID != nil {
			return nil, AppErrors.Validation("vehicle_type_id", "not allowed for generic items")
		}
	default:
		return nil, AppErrors.Validation("scope", "must be generic or specific")
	}

	err = m.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("catalog_item_id = ?", item.ID).Delete(&Models.CatalogItemType{}).Error; err != nil {
			return err
		}
		item.Scope = in.Scope
		item.VehicleTypeID = in.VehicleTypeID
		if err := tx.Model(item).Select("scope", "vehicle_type_id").Updates(map[string]interface{}{
			"scope":           item.Scope,
			"vehicle_type_id": item.VehicleTypeID,
		}).Error; err != nil {
			return err
		}
		if in.Scope == Models.ScopeGeneric {
			for _, typeID := range in.TypeIDs {
				link := Models.CatalogItemType{CatalogItemID: item.ID, VehicleTypeID: typeID}
				if err := tx.Create(&link).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, AppErrors.Storage("set item type", err)
	}
	return item, nil
}

func (m *Manager) find(id uint) (*Models.CatalogItem, error) {
	var item Models.CatalogItem
	if err := m.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, AppErrors.NotFound("catalog item", id)
		}
		return nil, AppErrors.Storage("find catalog item", err)
	}
	return &item, nil
}
