package FiberConfig

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"Vistoria/Checklist"
	"Vistoria/Controllers"
	"Vistoria/Models"
	"Vistoria/middleware"
)

// SetupRoutes wires every handler. Failure mapping follows the error
// taxonomy: validation 400, not-found 404, conflict 409, storage 500.
func SetupRoutes(app *fiber.App, db *gorm.DB, sessions *Checklist.Manager) {
	checklistController := Controllers.NewChecklistController(sessions)
	anomalyController := Controllers.NewAnomalyController(db)
	catalogController := Controllers.NewCatalogController(db)
	vehicleTypeController := Controllers.NewVehicleTypeController(db)
	photoController := Controllers.NewPhotoController(db, sessions, os.Getenv("PHOTO_DIR"))
	exportController := Controllers.NewExportController(db)

	app.Post("/api/Login", Controllers.Login)
	app.Post("/api/Logout", Controllers.Logout)
	app.Get("/api/User", Controllers.User)
	app.Post("/api/RegisterUser", middleware.Verify(Models.PermissionAdmin), Controllers.RegisterUser)

	// Vehicle types
	types := app.Group("/api/vehicle-types", middleware.Verify(Models.PermissionInspector))
	types.Get("/", vehicleTypeController.GetVehicleTypes)
	types.Post("/", middleware.Verify(Models.PermissionSupervisor), vehicleTypeController.CreateVehicleType)
	types.Put("/:id", middleware.Verify(Models.PermissionSupervisor), vehicleTypeController.UpdateVehicleType)
	types.Delete("/:id", middleware.Verify(Models.PermissionSupervisor), vehicleTypeController.DeleteVehicleType)

	// Catalog
	catalog := app.Group("/api/catalog", middleware.Verify(Models.PermissionInspector))
	catalog.Get("/effective", catalogController.GetEffectiveItems)
	catalog.Get("/export", middleware.Verify(Models.PermissionSupervisor), exportController.ExportCatalog)
	catalog.Post("/items", middleware.Verify(Models.PermissionSupervisor), catalogController.AddItem)
	catalog.Delete("/items/:id", middleware.Verify(Models.PermissionSupervisor), catalogController.DeleteItem)
	catalog.Patch("/items/:id/enabled", middleware.Verify(Models.PermissionSupervisor), catalogController.SetEnabled)
	catalog.Post("/items/bulk-enabled", middleware.Verify(Models.PermissionSupervisor), catalogController.BulkSetEnabled)
	catalog.Patch("/items/:id/category", middleware.Verify(Models.PermissionSupervisor), catalogController.MoveCategory)
	catalog.Patch("/items/:id/type", middleware.Verify(Models.PermissionSupervisor), catalogController.SetItemType)

	// Checklist session flow
	checklist := app.Group("/api/checklist", middleware.Verify(Models.PermissionInspector))
	checklist.Post("/start", checklistController.Start)
	checklist.Patch("/:id/initial", checklistController.PatchInitial)
	checklist.Post("/:id/items", checklistController.AddItems)
	checklist.Post("/:id/photos", photoController.Upload)
	checklist.Post("/:id/tires", checklistController.AddTires)
	checklist.Post("/:id/finalize", checklistController.Finalize)
	checklist.Get("/draft/:key", checklistController.GetDraft)
	checklist.Put("/draft/:key", checklistController.SaveDraft)
	checklist.Delete("/draft/:key", checklistController.DeleteDraft)

	// Anomaly dashboard
	anomalies := app.Group("/api/anomalies", middleware.Verify(Models.PermissionSupervisor))
	anomalies.Get("/report", anomalyController.GetReport)
	anomalies.Get("/export", exportController.ExportAnomalies)
	anomalies.Post("/approve", anomalyController.Approve)
	anomalies.Post("/reject", anomalyController.Reject)
	anomalies.Post("/finalize", anomalyController.Finalize)

	// Photos are served on demand, never through the aggregation path
	inspections := app.Group("/api/inspections", middleware.Verify(Models.PermissionInspector))
	inspections.Get("/:id/photos", photoController.ListPhotos)
	inspections.Get("/:id/photos/:photoId", photoController.GetPhoto)
}

// FiberConfig builds the app, installs middleware and serves.
func FiberConfig(sessions *Checklist.Manager) {
	fmt.Println("Server Up...")
	app := fiber.New()

	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, Models.DB, sessions)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	app.Listen(":" + port)
}
