package Controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Vistoria/Models"
)

// VehicleTypeController handles vehicle-type CRUD.
type VehicleTypeController struct {
	DB *gorm.DB
}

func NewVehicleTypeController(db *gorm.DB) *VehicleTypeController {
	return &VehicleTypeController{DB: db}
}

// GetVehicleTypes lists all vehicle types.
func (c *VehicleTypeController) GetVehicleTypes(ctx *fiber.Ctx) error {
	var types []Models.VehicleType
	if err := c.DB.Find(&types).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve vehicle types"})
	}
	return ctx.JSON(types)
}

// CreateVehicleType registers a new vehicle type.
func (c *VehicleTypeController) CreateVehicleType(ctx *fiber.Ctx) error {
	var input Models.VehicleType
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if strings.TrimSpace(input.Name) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	vt := Models.VehicleType{Name: input.Name, Active: true, Icon: input.Icon}
	if err := c.DB.Create(&vt).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "unique") {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A vehicle type with this name already exists"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create vehicle type"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(vt)
}

// UpdateVehicleType edits name, icon or active flag. The reserved default
// type "Carro" (id 1) may never be deactivated.
func (c *VehicleTypeController) UpdateVehicleType(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vehicle type ID"})
	}

	var vt Models.VehicleType
	if err := c.DB.First(&vt, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle type not found"})
	}

	var input struct {
		Name   *string `json:"name"`
		Active *bool   `json:"active"`
		Icon   *string `json:"icon"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.Active != nil && !*input.Active && vt.ID == Models.DefaultVehicleTypeID {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "The default vehicle type cannot be deactivated"})
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if input.Icon != nil {
		updates["icon"] = *input.Icon
	}
	if len(updates) > 0 {
		if err := c.DB.Model(&vt).Updates(updates).Error; err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update vehicle type"})
		}
	}
	return ctx.JSON(vt)
}

// DeleteVehicleType soft deletes a non-default vehicle type.
func (c *VehicleTypeController) DeleteVehicleType(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vehicle type ID"})
	}
	if uint(id) == Models.DefaultVehicleTypeID {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "The default vehicle type cannot be deleted"})
	}

	var vt Models.VehicleType
	if err := c.DB.First(&vt, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle type not found"})
	}

	c.DB.Delete(&vt)
	return ctx.JSON(fiber.Map{"message": "Vehicle type deleted successfully"})
}
