package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Vistoria/Aggregation"
	"Vistoria/AppErrors"
	"Vistoria/Models"
)

// AnomalyController serves the grouped anomaly report and the approval
// workflow transitions.
type AnomalyController struct {
	DB *gorm.DB
}

func NewAnomalyController(db *gorm.DB) *AnomalyController {
	return &AnomalyController{DB: db}
}

// FetchReportRows loads the item rows joined with their inspection headers.
// The photo column is deliberately left out of the select so large binary
// references never travel through the aggregation path.
func FetchReportRows(db *gorm.DB) ([]Aggregation.ItemRow, error) {
	var rows []Aggregation.ItemRow
	err := db.Table("inspection_items").
		Select("inspection_items.inspection_id, inspections.plate, inspection_items.category, inspection_items.item, inspection_items.status, users.name AS user_name, inspections.data_realizacao, inspections.odometer").
		Joins("JOIN inspections ON inspections.id = inspection_items.inspection_id AND inspections.deleted_at IS NULL").
		Joins("LEFT JOIN users ON users.id = inspections.user_id AND users.deleted_at IS NULL").
		Where("inspection_items.deleted_at IS NULL").
		Order("inspections.plate ASC, inspections.data_realizacao DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, AppErrors.Storage("load report rows", err)
	}
	return rows, nil
}

// GetReport returns the grouped-by-vehicle anomaly report.
// GET /api/anomalies/report?filter=active|finalized
func (a *AnomalyController) GetReport(ctx *fiber.Ctx) error {
	filter := Aggregation.Filter(ctx.Query("filter", string(Aggregation.FilterActive)))
	if filter != Aggregation.FilterActive && filter != Aggregation.FilterFinalized {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "filter must be active or finalized",
		})
	}

	rows, err := FetchReportRows(a.DB)
	if err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	var statuses []Models.AnomalyStatus
	if err := a.DB.Find(&statuses).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load anomaly statuses"})
	}

	return ctx.JSON(Aggregation.Report(rows, statuses, filter))
}

// TransitionRequest identifies the problem being acted on.
type TransitionRequest struct {
	Plate      string `json:"plate" validate:"required"`
	Category   string `json:"categoria" validate:"required"`
	Item       string `json:"item" validate:"required"`
	Observacao string `json:"observacao"`
}

// Approve marks a problem approved by the logged-in user.
// POST /api/anomalies/approve
func (a *AnomalyController) Approve(ctx *fiber.Ctx) error {
	req, err := parseTransition(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var approverID uint
	var approverName string
	if user, ok := ctx.Locals("user").(Models.User); ok {
		approverID = user.ID
		approverName = user.Name
	}

	row, err := Aggregation.Approve(a.DB, req.Plate, req.Category, req.Item, approverID, approverName, nowFunc())
	if err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(row)
}

// Reject hides a problem from the active report.
// POST /api/anomalies/reject
func (a *AnomalyController) Reject(ctx *fiber.Ctx) error {
	req, err := parseTransition(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	row, err := Aggregation.Reject(a.DB, req.Plate, req.Category, req.Item, req.Observacao)
	if err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(row)
}

// Finalize closes a problem permanently (barring manual reopening).
// POST /api/anomalies/finalize
func (a *AnomalyController) Finalize(ctx *fiber.Ctx) error {
	req, err := parseTransition(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	row, err := Aggregation.Finalize(a.DB, req.Plate, req.Category, req.Item, req.Observacao, nowFunc())
	if err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(row)
}

func parseTransition(ctx *fiber.Ctx) (*TransitionRequest, error) {
	var req TransitionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, err
	}
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
