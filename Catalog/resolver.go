// Package Catalog resolves effective checklist item lists from the two-level
// catalog and owns catalog mutations.
package Catalog

import (
	"sort"
	"strings"

	"gorm.io/gorm"

	"Vistoria/AppErrors"
	"Vistoria/Models"
)

// EffectiveItems returns the checklist items in force for a vehicle type:
// the union of generic items whose association table lists the type and
// specific items tied to it. Dedup is by catalog row id (two rows may share a
// name across categories). Unknown vehicle types yield an empty list.
func EffectiveItems(db *gorm.DB, vehicleTypeID uint, category string, enabledOnly bool) ([]Models.CatalogItem, error) {
	var generic []Models.CatalogItem
	q := db.Model(&Models.CatalogItem{}).
		Joins("JOIN catalog_item_types ON catalog_item_types.catalog_item_id = catalog_items.id AND catalog_item_types.deleted_at IS NULL").
		Where("catalog_item_types.vehicle_type_id = ?", vehicleTypeID)
	q = applyItemFilters(q, category, enabledOnly)
	if err := q.Find(&generic).Error; err != nil {
		return nil, AppErrors.Storage("load generic items", err)
	}

	var specific []Models.CatalogItem
	q = db.Model(&Models.CatalogItem{}).
		Where("catalog_items.vehicle_type_id = ?", vehicleTypeID)
	q = applyItemFilters(q, category, enabledOnly)
	if err := q.Find(&specific).Error; err != nil {
		return nil, AppErrors.Storage("load specific items", err)
	}

	seen := make(map[uint]struct{}, len(generic)+len(specific))
	items := make([]Models.CatalogItem, 0, len(generic)+len(specific))
	for _, item := range append(generic, specific...) {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})

	return items, nil
}

func applyItemFilters(q *gorm.DB, category string, enabledOnly bool) *gorm.DB {
	if category != "" {
		q = q.Where("catalog_items.category = ?", category)
	}
	if enabledOnly {
		q = q.Where("catalog_items.enabled = ?", true)
	}
	return q
}
