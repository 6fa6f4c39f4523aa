package Controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Vistoria/AppErrors"
	"Vistoria/Catalog"
)

// CatalogController exposes the effective-item resolver and the catalog
// mutation surface.
type CatalogController struct {
	DB      *gorm.DB
	Manager *Catalog.Manager
}

func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{DB: db, Manager: Catalog.NewManager(db)}
}

// GetEffectiveItems resolves the checklist in force for a vehicle type.
// GET /api/catalog/effective?vehicle_type_id=&category=&enabled_only=
func (c *CatalogController) GetEffectiveItems(ctx *fiber.Ctx) error {
	typeID, err := strconv.ParseUint(ctx.Query("vehicle_type_id"), 10, 32)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "vehicle_type_id is required"})
	}

	enabledOnly := true
	if v, err := strconv.ParseBool(ctx.Query("enabled_only")); err == nil {
		enabledOnly = v
	}
	items, err := Catalog.EffectiveItems(c.DB, uint(typeID), ctx.Query("category"), enabledOnly)
	if err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(items)
}

// AddItem creates a catalog item with its type binding fixed at creation.
// POST /api/catalog/items
func (c *CatalogController) AddItem(ctx *fiber.Ctx) error {
	var in Catalog.AddItemInput
	if err := ctx.BodyParser(&in); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(&in); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item, err := c.Manager.AddItem(in)
	if err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(item)
}

// DeleteItem removes an item and its association rows.
// DELETE /api/catalog/items/:id
func (c *CatalogController) DeleteItem(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	if err := c.Manager.DeleteItem(uint(id)); err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Item deleted successfully"})
}

// SetEnabled toggles one item.
// PATCH /api/catalog/items/:id/enabled
func (c *CatalogController) SetEnabled(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var body struct {
		Enabled *bool `json:"enabled"`
	}
	if err := ctx.BodyParser(&body); err != nil || body.Enabled == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "enabled is required"})
	}

	if err := c.Manager.SetEnabled(uint(id), *body.Enabled); err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"id": id, "enabled": *body.Enabled})
}

// BulkSetEnabled toggles a batch, best-effort: each item's outcome is
// reported independently and one failure never rolls back the rest.
// POST /api/catalog/items/bulk-enabled
func (c *CatalogController) BulkSetEnabled(ctx *fiber.Ctx) error {
	var body struct {
		IDs     []uint `json:"ids"`
		Enabled *bool  `json:"enabled"`
	}
	if err := ctx.BodyParser(&body); err != nil || body.Enabled == nil || len(body.IDs) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ids and enabled are required"})
	}

	return ctx.JSON(c.Manager.BulkSetEnabled(body.IDs, *body.Enabled))
}

// MoveCategory moves an item between categories, identity preserved.
// PATCH /api/catalog/items/:id/category
func (c *CatalogController) MoveCategory(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var body struct {
		Category string `json:"categoria"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.Manager.MoveCategory(uint(id), body.Category); err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"id": id, "categoria": body.Category})
}

// SetItemType is the explicit set-type operation, the only way to convert
// between generic and specific.
// PATCH /api/catalog/items/:id/type
func (c *CatalogController) SetItemType(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var in Catalog.SetTypeInput
	if err := ctx.BodyParser(&in); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item, err := c.Manager.SetItemType(uint(id), in)
	if err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(item)
}
