package Controllers

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"Vistoria/AppErrors"
	"Vistoria/Checklist"
)

var validate = validator.New()

// nowFunc is overridable in tests.
var nowFunc = time.Now

const timestampLayout = "2006-01-02 15:04:05"

// ChecklistController exposes the multi-screen submission flow.
type ChecklistController struct {
	Sessions *Checklist.Manager
}

func NewChecklistController(sessions *Checklist.Manager) *ChecklistController {
	return &ChecklistController{Sessions: sessions}
}

// Start creates the inspection for a visit.
// POST /api/checklist/start — 409 with the prior timestamp on duplicates.
func (c *ChecklistController) Start(ctx *fiber.Ctx) error {
	var in Checklist.StartInput
	if err := ctx.BodyParser(&in); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(&in); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	id, err := c.Sessions.Start(in)
	if err != nil {
		if conflict, ok := AppErrors.AsConflict(err); ok {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":             "duplicate submission",
				"data_realizacao":   conflict.PriorTimestamp.Format(timestampLayout),
				"cool_down_minutes": int(Checklist.CoolDown.Minutes()),
			})
		}
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"inspection_id": id})
}

// PatchInitial updates the first screen's fields.
// PATCH /api/checklist/:id/initial
func (c *ChecklistController) PatchInitial(ctx *fiber.Ctx) error {
	id, err := inspectionID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid inspection ID"})
	}

	var update Checklist.InitialUpdate
	if err := ctx.BodyParser(&update); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.Sessions.PatchInitial(id, update); err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"inspection_id": id})
}

// AddItems appends item rows from the item-inspection screen.
// POST /api/checklist/:id/items
func (c *ChecklistController) AddItems(ctx *fiber.Ctx) error {
	id, err := inspectionID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid inspection ID"})
	}

	var body struct {
		Items []Checklist.ItemInput `json:"itens"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.Sessions.AddItems(id, body.Items); err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"inspection_id": id, "itens": len(body.Items)})
}

// AddTires appends tire readings from the tire screen.
// POST /api/checklist/:id/tires
func (c *ChecklistController) AddTires(ctx *fiber.Ctx) error {
	id, err := inspectionID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid inspection ID"})
	}

	var body struct {
		Tires []Checklist.TireInput `json:"pneus"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.Sessions.AddTires(id, body.Tires); err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"inspection_id": id, "pneus": len(body.Tires)})
}

// Finalize completes the visit.
// POST /api/checklist/:id/finalize
func (c *ChecklistController) Finalize(ctx *fiber.Ctx) error {
	id, err := inspectionID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid inspection ID"})
	}

	var body struct {
		ClientKey string `json:"client_key"`
	}
	_ = ctx.BodyParser(&body)

	if err := c.Sessions.Finalize(id, body.ClientKey); err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"inspection_id": id, "status": "finalizada"})
}

// SaveDraft persists a screen's accumulated fields.
// PUT /api/checklist/draft/:key
func (c *ChecklistController) SaveDraft(ctx *fiber.Ctx) error {
	var body struct {
		Screen string            `json:"screen"`
		Fields map[string]string `json:"fields"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	draft, err := c.Sessions.RecordScreen(ctx.Params("key"), body.Screen, body.Fields)
	if err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(draft)
}

// GetDraft resumes an in-progress session after an app restart.
// GET /api/checklist/draft/:key
func (c *ChecklistController) GetDraft(ctx *fiber.Ctx) error {
	draft, err := c.Sessions.Drafts.Load(ctx.Params("key"))
	if err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(draft)
}

// DeleteDraft is the explicit "start over" action.
// DELETE /api/checklist/draft/:key
func (c *ChecklistController) DeleteDraft(ctx *fiber.Ctx) error {
	if err := c.Sessions.StartOver(ctx.Params("key")); err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Draft discarded"})
}

func inspectionID(ctx *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
