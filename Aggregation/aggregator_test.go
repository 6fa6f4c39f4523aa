package Aggregation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vistoria/Models"
)

func day(n int) time.Time {
	return time.Date(2024, 3, n, 10, 0, 0, 0, time.UTC)
}

func TestReportExampleScenario(t *testing.T) {
	rows := []ItemRow{
		{InspectionID: 1, Plate: "abc1234", Category: "MOTOR", Item: "Nível de Óleo", Status: "ruim", UserName: "joao", DataRealizacao: day(1), Odometer: 1000},
		{InspectionID: 2, Plate: "ABC1234", Category: "MOTOR", Item: "Nível de Óleo", Status: "ruim", UserName: "maria", DataRealizacao: day(4), Odometer: 1300},
	}

	report := Report(rows, nil, FilterActive)
	require.Len(t, report, 1)

	entry := report[0]
	assert.Equal(t, "ABC1234", entry.Plate)
	assert.Equal(t, 1, entry.TotalProblemas)
	assert.Equal(t, 2, entry.TotalInspecoesComProblema)
	assert.Equal(t, day(4).Format("2006-01-02 15:04:05"), entry.DataUltimaInspecao)

	require.Len(t, entry.Anomalias, 1)
	problem := entry.Anomalias[0]
	assert.Equal(t, 2, problem.TotalOcorrencias)
	assert.Equal(t, Models.AnomalyPending, problem.StatusAnomalia)
	assert.ElementsMatch(t, []uint{1, 2}, problem.InspectionIDs)
	assert.ElementsMatch(t, []string{"joao", "maria"}, problem.Users)
}

func TestReportIsOrderIndependent(t *testing.T) {
	rows := []ItemRow{
		{InspectionID: 1, Plate: "XYZ9876", Category: "MOTOR", Item: "Correia", Status: "ruim", DataRealizacao: day(1), Odometer: 50},
		{InspectionID: 2, Plate: "ABC1234", Category: "PNEU", Item: "Estepe", Status: "pessima", DataRealizacao: day(2), Odometer: 60},
		{InspectionID: 3, Plate: "ABC1234", Category: "MOTOR", Item: "Correia", Status: "ruim", DataRealizacao: day(3), Odometer: 70},
		{InspectionID: 4, Plate: "XYZ9876", Category: "MOTOR", Item: "Correia", Status: "ruim", DataRealizacao: day(4), Odometer: 80},
	}

	forward := Report(rows, nil, FilterActive)

	reversed := make([]ItemRow, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		reversed = append(reversed, rows[i])
	}
	backward := Report(reversed, nil, FilterActive)

	assert.Equal(t, forward, backward)

	// Plates come out alphabetically regardless of input order.
	require.Len(t, forward, 2)
	assert.Equal(t, "ABC1234", forward[0].Plate)
	assert.Equal(t, "XYZ9876", forward[1].Plate)
}

func TestReportIsIdempotent(t *testing.T) {
	rows := []ItemRow{
		{InspectionID: 1, Plate: "AAA1111", Category: "MOTOR", Item: "Óleo", Status: "ruim", DataRealizacao: day(1)},
		{InspectionID: 2, Plate: "AAA1111", Category: "MOTOR", Item: "Óleo", Status: "pessima", DataRealizacao: day(2)},
	}
	assert.Equal(t, Report(rows, nil, FilterActive), Report(rows, nil, FilterActive))
}

func TestDuplicateRowsMergeUnderOneKey(t *testing.T) {
	row := ItemRow{InspectionID: 7, Plate: "DUP0001", Category: "LIMPEZA", Item: "Tapetes", Status: "ruim", DataRealizacao: day(2), Odometer: 900}
	report := Report([]ItemRow{row, row}, nil, FilterActive)

	require.Len(t, report, 1)
	require.Len(t, report[0].Anomalias, 1)

	problem := report[0].Anomalias[0]
	assert.Equal(t, 2, problem.TotalOcorrencias)
	assert.Equal(t, []uint{7}, problem.InspectionIDs)
	assert.Equal(t, 1, report[0].TotalInspecoesComProblema)
}

func TestStatusFilterExclusivity(t *testing.T) {
	rows := []ItemRow{
		{InspectionID: 1, Plate: "FIL0001", Category: "MOTOR", Item: "Pendente", Status: "ruim", DataRealizacao: day(1)},
		{InspectionID: 1, Plate: "FIL0001", Category: "MOTOR", Item: "Aprovado", Status: "ruim", DataRealizacao: day(1)},
		{InspectionID: 1, Plate: "FIL0001", Category: "MOTOR", Item: "Rejeitado", Status: "ruim", DataRealizacao: day(1)},
		{InspectionID: 1, Plate: "FIL0001", Category: "MOTOR", Item: "Finalizado", Status: "ruim", DataRealizacao: day(1)},
	}
	statuses := []Models.AnomalyStatus{
		{Plate: "FIL0001", Category: "MOTOR", Item: "Aprovado", StatusAnomalia: Models.AnomalyApproved},
		{Plate: "FIL0001", Category: "MOTOR", Item: "Rejeitado", StatusAnomalia: Models.AnomalyRejected},
		{Plate: "FIL0001", Category: "MOTOR", Item: "Finalizado", StatusAnomalia: Models.AnomalyFinalized},
	}

	active := Report(rows, statuses, FilterActive)
	require.Len(t, active, 1)
	activeItems := itemNames(active[0].Anomalias)
	assert.ElementsMatch(t, []string{"Pendente", "Aprovado"}, activeItems)

	finalized := Report(rows, statuses, FilterFinalized)
	require.Len(t, finalized, 1)
	assert.Equal(t, []string{"Finalizado"}, itemNames(finalized[0].Anomalias))
}

func TestNonProblemVocabulary(t *testing.T) {
	for _, status := range []string{"bom", "BOM", "ótimo", "otimo", "contem", "contém", "satisfatória", "satisfatório", "satisfatoria", "satisfatorio", "", "  "} {
		assert.False(t, IsProblemStatus(status), "status %q should not be a problem", status)
	}
	for _, status := range []string{"ruim", "pessima", "péssima", "nao_contem", "vazio"} {
		assert.True(t, IsProblemStatus(status), "status %q should be a problem", status)
	}
}

func TestFirstSeenDateAndOdometerFreeze(t *testing.T) {
	rows := []ItemRow{
		{InspectionID: 1, Plate: "FRZ0001", Category: "MOTOR", Item: "Óleo", Status: "ruim", DataRealizacao: day(1), Odometer: 100},
		{InspectionID: 2, Plate: "FRZ0001", Category: "MOTOR", Item: "Óleo", Status: "ruim", DataRealizacao: day(5), Odometer: 500},
		{InspectionID: 3, Plate: "FRZ0001", Category: "MOTOR", Item: "Óleo", Status: "ruim", DataRealizacao: day(3), Odometer: 300},
	}

	report := Report(rows, nil, FilterActive)
	require.Len(t, report, 1)
	problem := report[0].Anomalias[0]

	// Scan order is visit date descending, so the frozen fields come from
	// the most recent visit.
	assert.Equal(t, day(5).Format("2006-01-02 15:04:05"), problem.DataInspecao)
	assert.Equal(t, 500, problem.Odometer)
	assert.Equal(t, problem.DataInspecao, report[0].DataUltimaInspecao)
}

func TestStatusOverlayCollectsWorkflowFields(t *testing.T) {
	approvedAt := day(6)
	rows := []ItemRow{
		{InspectionID: 1, Plate: "OVR0001", Category: "MOTOR", Item: "Óleo", Status: "ruim", DataRealizacao: day(1)},
	}
	statuses := []Models.AnomalyStatus{{
		Plate:          " ovr0001 ",
		Category:       "motor",
		Item:           " óleo ",
		StatusAnomalia: Models.AnomalyApproved,
		DataAprovacao:  &approvedAt,
		ApproverName:   "Supervisor",
		Observacao:     "verificar na próxima visita",
	}}

	report := Report(rows, statuses, FilterActive)
	require.Len(t, report, 1)
	problem := report[0].Anomalias[0]

	assert.Equal(t, Models.AnomalyApproved, problem.StatusAnomalia)
	assert.Equal(t, []string{"Supervisor"}, problem.Aprovadores)
	assert.Equal(t, []string{approvedAt.Format("2006-01-02 15:04:05")}, problem.DatasAprovacao)
	assert.Equal(t, []string{"verificar na próxima visita"}, problem.Observacoes)
}

func itemNames(problems []*Problem) []string {
	names := make([]string, 0, len(problems))
	for _, p := range problems {
		names = append(names, p.Item)
	}
	return names
}
