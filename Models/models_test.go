package Models

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "ABC1234", NormalizePlate(" abc1234 "))
	assert.Equal(t, "ABC1D23", NormalizePlate("abc1d23"))
	assert.Equal(t, "", NormalizePlate("   "))
}

func TestPlateNormalizedOnSave(t *testing.T) {
	db := testDB(t)

	inspection := Inspection{Plate: " abc1234 ", VehicleTypeID: DefaultVehicleTypeID, DataRealizacao: time.Now()}
	require.NoError(t, db.Create(&inspection).Error)
	assert.Equal(t, "ABC1234", inspection.Plate)

	status := AnomalyStatus{Plate: "xyz9876", Category: "MOTOR", Item: "Óleo"}
	require.NoError(t, db.Create(&status).Error)
	assert.Equal(t, "XYZ9876", status.Plate)
}

func TestMigrateSeedsDefaultVehicleType(t *testing.T) {
	db := testDB(t)

	var carro VehicleType
	require.NoError(t, db.First(&carro, DefaultVehicleTypeID).Error)
	assert.Equal(t, "Carro", carro.Name)
	assert.True(t, carro.Active)

	// Re-running migrations must not duplicate the seed.
	require.NoError(t, Migrate(db))
	var count int64
	db.Model(&VehicleType{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
