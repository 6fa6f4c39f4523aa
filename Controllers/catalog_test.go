package Controllers

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"Vistoria/Models"
)

func catalogApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))

	controller := NewCatalogController(db)
	app := fiber.New()
	app.Get("/api/catalog/effective", controller.GetEffectiveItems)

	return app, db
}

func TestGetEffectiveItemsEnabledOnlyQuery(t *testing.T) {
	app, db := catalogApp(t)

	enabled := Models.CatalogItem{Category: "MOTOR", Name: "Óleo", Enabled: true, Scope: Models.ScopeGeneric}
	require.NoError(t, db.Create(&enabled).Error)
	disabled := Models.CatalogItem{Category: "MOTOR", Name: "Filtro de Ar", Enabled: false, Scope: Models.ScopeGeneric}
	require.NoError(t, db.Create(&disabled).Error)
	for _, itemID := range []uint{enabled.ID, disabled.ID} {
		link := Models.CatalogItemType{CatalogItemID: itemID, VehicleTypeID: Models.DefaultVehicleTypeID}
		require.NoError(t, db.Create(&link).Error)
	}

	// Without the parameter, disabled items are filtered out.
	resp := doJSON(t, app, "GET", "/api/catalog/effective?vehicle_type_id=1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var items []Models.CatalogItem
	decodeJSON(t, resp, &items)
	require.Len(t, items, 1)
	assert.Equal(t, enabled.ID, items[0].ID)

	resp = doJSON(t, app, "GET", "/api/catalog/effective?vehicle_type_id=1&enabled_only=false", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	items = nil
	decodeJSON(t, resp, &items)
	assert.Len(t, items, 2)

	resp = doJSON(t, app, "GET", "/api/catalog/effective", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
