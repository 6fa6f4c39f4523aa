package Models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultVehicleTypeID is the reserved "Carro" type. It may never be
// deactivated or deleted.
const DefaultVehicleTypeID uint = 1

// Catalog item scopes. A specific item is tied to exactly one vehicle type
// through VehicleTypeID; a generic item is linked to N types through
// CatalogItemType rows. An item is never both.
const (
	ScopeGeneric  = "generic"
	ScopeSpecific = "specific"
)

// Answer types for catalog items.
const (
	AnswerTypeBomRuim = "bom_ruim"
	AnswerTypeContem  = "contem_nao_contem"
	AnswerTypeEscala  = "escala"
	AnswerTypePressao = "pressao"
	AnswerTypeTexto   = "texto"
)

// VehicleType is a kind of fleet vehicle with its own effective checklist.
type VehicleType struct {
	gorm.Model
	Name   string `json:"name" gorm:"uniqueIndex;not null"`
	Active bool   `json:"active" gorm:"default:true"`
	Icon   string `json:"icon"`
}

// CatalogItem is a checklist item definition. Scope decides which side of the
// generic/specific split the row lives on; conversions go through the catalog
// manager's SetItemType only.
type CatalogItem struct {
	gorm.Model
	Category      string         `json:"categoria" gorm:"index;not null"`
	Name          string         `json:"nome" gorm:"not null"`
	Enabled       bool           `json:"enabled" gorm:"default:true"`
	Scope         string         `json:"scope" gorm:"index;not null"`
	VehicleTypeID *uint          `json:"vehicle_type_id,omitempty"` // specific items only
	RequiresPhoto bool           `json:"requer_foto"`
	Required      bool           `json:"obrigatorio"`
	AnswerType    string         `json:"tipo_resposta"`
	AnswerOptions datatypes.JSON `json:"opcoes_resposta,omitempty"`
}

func (CatalogItem) TableName() string {
	return "catalog_items"
}

// CatalogItemType links a generic catalog item to one vehicle type.
type CatalogItemType struct {
	gorm.Model
	CatalogItemID uint `json:"catalog_item_id" gorm:"uniqueIndex:idx_item_type;not null"`
	VehicleTypeID uint `json:"vehicle_type_id" gorm:"uniqueIndex:idx_item_type;not null"`
}

func (CatalogItemType) TableName() string {
	return "catalog_item_types"
}
