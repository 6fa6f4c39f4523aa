package Controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"Vistoria/Aggregation"
	"Vistoria/Checklist"
	"Vistoria/Models"
)

// testApp wires the checklist and anomaly handlers without the auth
// middleware; permission checks are not under test here.
func testApp(t *testing.T) (*fiber.App, *Checklist.Manager) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))

	drafts, err := Checklist.OpenDraftStore("")
	require.NoError(t, err)
	t.Cleanup(func() { drafts.Close() })

	sessions := Checklist.NewManager(db, drafts)
	checklist := NewChecklistController(sessions)
	anomalies := NewAnomalyController(db)

	app := fiber.New()
	app.Post("/api/checklist/start", checklist.Start)
	app.Post("/api/checklist/:id/items", checklist.AddItems)
	app.Get("/api/anomalies/report", anomalies.GetReport)
	app.Post("/api/anomalies/reject", anomalies.Reject)

	return app, sessions
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestChecklistFlowFeedsAnomalyReport(t *testing.T) {
	app, _ := testApp(t)

	resp := doJSON(t, app, "POST", "/api/checklist/start", fiber.Map{
		"plate":           "abc1234",
		"vehicle_type_id": Models.DefaultVehicleTypeID,
		"odometro":        1500,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var started struct {
		InspectionID uint `json:"inspection_id"`
	}
	decodeJSON(t, resp, &started)
	require.NotZero(t, started.InspectionID)

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/checklist/%d/items", started.InspectionID), fiber.Map{
		"itens": []fiber.Map{
			{"categoria": "MOTOR", "item": "Nível de Óleo", "status": "ruim"},
			{"categoria": "MOTOR", "item": "Correia", "status": "bom"},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/anomalies/report", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report []Aggregation.VehicleReport
	decodeJSON(t, resp, &report)
	require.Len(t, report, 1)
	assert.Equal(t, "ABC1234", report[0].Plate)
	assert.Equal(t, 1, report[0].TotalProblemas)
	require.Len(t, report[0].Anomalias, 1)
	assert.Equal(t, "Nível de Óleo", report[0].Anomalias[0].Item)
	assert.Equal(t, 1500, report[0].Anomalias[0].Odometer)

	// Rejecting the problem empties the active report.
	resp = doJSON(t, app, "POST", "/api/anomalies/reject", fiber.Map{
		"plate":      "ABC1234",
		"categoria":  "MOTOR",
		"item":       "Nível de Óleo",
		"observacao": "falso positivo",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/anomalies/report", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	report = nil
	decodeJSON(t, resp, &report)
	assert.Empty(t, report)
}

func TestReportRowsDropDeletedUserNames(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))

	user := Models.User{Name: "João", Email: "joao@frota.com", Permission: Models.PermissionInspector}
	require.NoError(t, db.Create(&user).Error)

	inspection := Models.Inspection{
		Plate:          "ABC1234",
		VehicleTypeID:  Models.DefaultVehicleTypeID,
		UserID:         user.ID,
		DataRealizacao: time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&inspection).Error)
	item := Models.InspectionItem{InspectionID: inspection.ID, Category: "MOTOR", Item: "Óleo", Status: "ruim"}
	require.NoError(t, db.Create(&item).Error)

	rows, err := FetchReportRows(db)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "João", rows[0].UserName)

	require.NoError(t, db.Delete(&user).Error)

	rows, err = FetchReportRows(db)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].UserName)
}

func TestReportRejectsUnknownFilter(t *testing.T) {
	app, _ := testApp(t)

	resp := doJSON(t, app, "GET", "/api/anomalies/report?filter=bogus", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestStartDuplicateReturnsConflictBody(t *testing.T) {
	app, sessions := testApp(t)
	base := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	sessions.Now = func() time.Time { return base }

	resp := doJSON(t, app, "POST", "/api/checklist/start", fiber.Map{
		"plate":           "ABC1234",
		"vehicle_type_id": Models.DefaultVehicleTypeID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	sessions.Now = func() time.Time { return base.Add(10 * time.Minute) }
	resp = doJSON(t, app, "POST", "/api/checklist/start", fiber.Map{
		"plate":           "ABC1234",
		"vehicle_type_id": Models.DefaultVehicleTypeID,
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var body struct {
		Error           string `json:"error"`
		DataRealizacao  string `json:"data_realizacao"`
		CoolDownMinutes int    `json:"cool_down_minutes"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "duplicate submission", body.Error)
	assert.Equal(t, base.Format(timestampLayout), body.DataRealizacao)
	assert.Equal(t, 60, body.CoolDownMinutes)
}
