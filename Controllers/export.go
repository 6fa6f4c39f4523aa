package Controllers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"Vistoria/Aggregation"
	"Vistoria/AppErrors"
	"Vistoria/Catalog"
	"Vistoria/Models"
)

// ExportController builds Excel downloads for the admin console.
type ExportController struct {
	DB *gorm.DB
}

func NewExportController(db *gorm.DB) *ExportController {
	return &ExportController{DB: db}
}

// ExportAnomalies streams the anomaly report as an .xlsx workbook.
// GET /api/anomalies/export?filter=active|finalized
func (e *ExportController) ExportAnomalies(ctx *fiber.Ctx) error {
	filter := Aggregation.Filter(ctx.Query("filter", string(Aggregation.FilterActive)))
	if filter != Aggregation.FilterActive && filter != Aggregation.FilterFinalized {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "filter must be active or finalized"})
	}

	rows, err := FetchReportRows(e.DB)
	if err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	var statuses []Models.AnomalyStatus
	if err := e.DB.Find(&statuses).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load anomaly statuses"})
	}

	report := Aggregation.Report(rows, statuses, filter)

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Anomalias"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Placa", "Categoria", "Item", "Status", "Ocorrências", "Inspeções", "Última Inspeção", "Odômetro", "Situação", "Aprovador", "Observações"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheet, "A1", last, headerStyle)
	}

	rowIdx := 2
	for _, entry := range report {
		for _, problem := range entry.Anomalias {
			values := []interface{}{
				entry.Plate,
				problem.Category,
				problem.Item,
				strings.Join(problem.Statuses, ", "),
				problem.TotalOcorrencias,
				len(problem.InspectionIDs),
				problem.DataInspecao,
				problem.Odometer,
				problem.StatusAnomalia,
				strings.Join(problem.Aprovadores, ", "),
				strings.Join(problem.Observacoes, "; "),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, rowIdx)
				f.SetCellValue(sheet, cell, v)
			}
			rowIdx++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build workbook"})
	}

	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="anomalias_%s.xlsx"`, filter))
	return ctx.Send(buf.Bytes())
}

// ExportCatalog streams the effective item list of a vehicle type.
// GET /api/catalog/export?vehicle_type_id=
func (e *ExportController) ExportCatalog(ctx *fiber.Ctx) error {
	typeID := ctx.QueryInt("vehicle_type_id", 0)
	if typeID <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "vehicle_type_id is required"})
	}

	items, err := Catalog.EffectiveItems(e.DB, uint(typeID), "", false)
	if err != nil {
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Checklist"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Categoria", "Item", "Escopo", "Habilitado", "Obrigatório", "Requer Foto", "Tipo de Resposta"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, item := range items {
		values := []interface{}{item.Category, item.Name, item.Scope, item.Enabled, item.Required, item.RequiresPhoto, item.AnswerType}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build workbook"})
	}

	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="checklist_tipo_%d.xlsx"`, typeID))
	return ctx.Send(buf.Bytes())
}
