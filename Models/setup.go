package Models

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the database and runs migrations. Configuration comes from
// .env (DB_PATH); defaults to database.db in the working directory.
func Connect() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using defaults")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "database.db"
	}

	connection, err := gorm.Open(sqlite.Open(dbPath))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	DB = connection

	if err := Migrate(DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}

// Migrate runs AutoMigrate in dependency order and seeds the reserved
// default vehicle type.
func Migrate(db *gorm.DB) error {
	// 1. Base tables with no foreign keys
	if err := db.AutoMigrate(
		&User{},
		&VehicleType{},
	); err != nil {
		return err
	}

	// 2. Catalog tables (items reference vehicle types)
	if err := db.AutoMigrate(
		&CatalogItem{},
		&CatalogItemType{},
	); err != nil {
		return err
	}

	// 3. Inspection tables and the anomaly workflow table
	if err := db.AutoMigrate(
		&Inspection{},
		&InspectionItem{},
		&InspectionPhoto{},
		&TireReading{},
		&AnomalyStatus{},
	); err != nil {
		return err
	}

	return SeedDefaultVehicleType(db)
}

// SeedDefaultVehicleType guarantees the reserved "Carro" type (id 1) exists.
func SeedDefaultVehicleType(db *gorm.DB) error {
	carro := VehicleType{Name: "Carro", Active: true, Icon: "car"}
	carro.ID = DefaultVehicleTypeID
	return db.FirstOrCreate(&carro, "id = ?", DefaultVehicleTypeID).Error
}
