package Catalog

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"Vistoria/Models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))
	return db
}

func createVehicleType(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	vt := Models.VehicleType{Name: name, Active: true}
	require.NoError(t, db.Create(&vt).Error)
	return vt.ID
}

func createGenericItem(t *testing.T, db *gorm.DB, category, name string, typeIDs ...uint) uint {
	t.Helper()
	item := Models.CatalogItem{Category: category, Name: name, Enabled: true, Scope: Models.ScopeGeneric}
	require.NoError(t, db.Create(&item).Error)
	for _, typeID := range typeIDs {
		link := Models.CatalogItemType{CatalogItemID: item.ID, VehicleTypeID: typeID}
		require.NoError(t, db.Create(&link).Error)
	}
	return item.ID
}

func createSpecificItem(t *testing.T, db *gorm.DB, category, name string, typeID uint) uint {
	t.Helper()
	item := Models.CatalogItem{Category: category, Name: name, Enabled: true, Scope: Models.ScopeSpecific, VehicleTypeID: &typeID}
	require.NoError(t, db.Create(&item).Error)
	return item.ID
}

func TestEffectiveItemsUnion(t *testing.T) {
	db := testDB(t)
	caminhao := createVehicleType(t, db, "Caminhão")

	genericID := createGenericItem(t, db, "MOTOR", "Nível de Óleo", Models.DefaultVehicleTypeID, caminhao)
	specificID := createSpecificItem(t, db, "PNEU", "Tacógrafo", caminhao)
	createSpecificItem(t, db, "MOTOR", "Só do Carro", Models.DefaultVehicleTypeID)

	items, err := EffectiveItems(db, caminhao, "", true)
	require.NoError(t, err)

	ids := itemIDs(items)
	assert.ElementsMatch(t, []uint{genericID, specificID}, ids)
}

func TestEffectiveItemsNoDoubleInheritance(t *testing.T) {
	db := testDB(t)
	caminhao := createVehicleType(t, db, "Caminhão")

	// Corrupt double-binding: the item is both linked through the association
	// table and carries the type's foreign key. It must come back once.
	itemID := createGenericItem(t, db, "MOTOR", "Correia", caminhao)
	require.NoError(t, db.Model(&Models.CatalogItem{}).
		Where("id = ?", itemID).
		Update("vehicle_type_id", caminhao).Error)

	items, err := EffectiveItems(db, caminhao, "", true)
	require.NoError(t, err)
	assert.Equal(t, []uint{itemID}, itemIDs(items))
}

func TestEffectiveItemsUnknownType(t *testing.T) {
	db := testDB(t)
	createGenericItem(t, db, "MOTOR", "Óleo", Models.DefaultVehicleTypeID)

	items, err := EffectiveItems(db, 999, "", true)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestEffectiveItemsEnabledFilter(t *testing.T) {
	db := testDB(t)
	enabledID := createGenericItem(t, db, "MOTOR", "Óleo", Models.DefaultVehicleTypeID)
	disabledID := createGenericItem(t, db, "MOTOR", "Filtro de Ar", Models.DefaultVehicleTypeID)
	require.NoError(t, db.Model(&Models.CatalogItem{}).
		Where("id = ?", disabledID).
		Update("enabled", false).Error)

	enabled, err := EffectiveItems(db, Models.DefaultVehicleTypeID, "", true)
	require.NoError(t, err)
	assert.Equal(t, []uint{enabledID}, itemIDs(enabled))

	all, err := EffectiveItems(db, Models.DefaultVehicleTypeID, "", false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{enabledID, disabledID}, itemIDs(all))
}

func TestEffectiveItemsCategoryFilter(t *testing.T) {
	db := testDB(t)
	motorID := createGenericItem(t, db, "MOTOR", "Óleo", Models.DefaultVehicleTypeID)
	createGenericItem(t, db, "PNEU", "Calibragem", Models.DefaultVehicleTypeID)

	items, err := EffectiveItems(db, Models.DefaultVehicleTypeID, "MOTOR", true)
	require.NoError(t, err)
	assert.Equal(t, []uint{motorID}, itemIDs(items))
}

func TestEffectiveItemsOrdering(t *testing.T) {
	db := testDB(t)
	createGenericItem(t, db, "PNEU", "calibragem", Models.DefaultVehicleTypeID)
	createGenericItem(t, db, "MOTOR", "Óleo", Models.DefaultVehicleTypeID)
	createSpecificItem(t, db, "MOTOR", "correia", Models.DefaultVehicleTypeID)
	createGenericItem(t, db, "PNEU", "Banda de Rodagem", Models.DefaultVehicleTypeID)

	items, err := EffectiveItems(db, Models.DefaultVehicleTypeID, "", true)
	require.NoError(t, err)

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Category+"/"+item.Name)
	}
	assert.Equal(t, []string{
		"MOTOR/correia",
		"MOTOR/Óleo",
		"PNEU/Banda de Rodagem",
		"PNEU/calibragem",
	}, names)
}

func itemIDs(items []Models.CatalogItem) []uint {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
