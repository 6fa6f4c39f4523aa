package Aggregation

import (
	"sort"
	"strings"
	"time"

	"Vistoria/Models"
)

// Filter selects which slice of the anomaly workflow the report covers.
type Filter string

const (
	FilterActive    Filter = "active"
	FilterFinalized Filter = "finalized"
)

const dateLayout = "2006-01-02 15:04:05"

// ItemRow is one inspection item joined with its inspection header. Photo
// references are deliberately absent: the aggregation path never carries
// binary payloads.
type ItemRow struct {
	InspectionID   uint      `json:"inspection_id"`
	Plate          string    `json:"plate"`
	Category       string    `json:"categoria"`
	Item           string    `json:"item"`
	Status         string    `json:"status"`
	UserName       string    `json:"usuario"`
	DataRealizacao time.Time `json:"data_realizacao"`
	Odometer       int       `json:"odometro"`
}

// Problem is one distinct (plate, category, item) anomaly, merged across
// every inspection that raised it.
type Problem struct {
	Category         string   `json:"categoria"`
	Item             string   `json:"item"`
	Statuses         []string `json:"status"`
	TotalOcorrencias int      `json:"total_ocorrencias"`
	Users            []string `json:"usuarios"`
	InspectionIDs    []uint   `json:"inspecao_ids"`
	DataInspecao     string   `json:"data_inspecao"`
	Odometer         int      `json:"odometro"`
	StatusAnomalia   string   `json:"status_anomalia"`
	DatasAprovacao   []string `json:"datas_aprovacao,omitempty"`
	Aprovadores      []string `json:"aprovadores,omitempty"`
	DatasFinalizacao []string `json:"datas_finalizacao,omitempty"`
	Observacoes      []string `json:"observacoes,omitempty"`

	plate string
	date  time.Time
}

// VehicleReport is the admin dashboard entry for one plate.
type VehicleReport struct {
	Plate                     string     `json:"plate"`
	TotalProblemas            int        `json:"total_problemas"`
	TotalInspecoesComProblema int        `json:"total_inspecoes_com_problema"`
	DataUltimaInspecao        string     `json:"data_ultima_inspecao"`
	Anomalias                 []*Problem `json:"anomalias"`
}

// Report collapses raw item rows into one problem per normalized
// (plate, category, item) triple and groups the problems by plate. Statuses
// overlay the independent approval workflow; an absent row means pending.
//
// Input order does not matter: rows are sorted plate ascending then visit
// date descending before the scan, so output is deterministic. Within a key
// the first row encountered freezes the visit date and odometer.
func Report(rows []ItemRow, statuses []Models.AnomalyStatus, filter Filter) []VehicleReport {
	statusIndex := make(map[problemKey]Models.AnomalyStatus, len(statuses))
	for _, st := range statuses {
		statusIndex[keyOf(st.Plate, st.Category, st.Item)] = st
	}

	sorted := make([]ItemRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := Models.NormalizePlate(sorted[i].Plate), Models.NormalizePlate(sorted[j].Plate)
		if pi != pj {
			return pi < pj
		}
		if !sorted[i].DataRealizacao.Equal(sorted[j].DataRealizacao) {
			return sorted[i].DataRealizacao.After(sorted[j].DataRealizacao)
		}
		return sorted[i].InspectionID > sorted[j].InspectionID
	})

	index := make(map[problemKey]*Problem)
	var ordered []*Problem

	for _, row := range sorted {
		if !IsProblemStatus(row.Status) {
			continue
		}

		key := keyOf(row.Plate, row.Category, row.Item)
		st, hasStatus := statusIndex[key]
		workflow := Models.AnomalyPending
		if hasStatus && st.StatusAnomalia != "" {
			workflow = st.StatusAnomalia
		}

		switch filter {
		case FilterFinalized:
			if workflow != Models.AnomalyFinalized {
				continue
			}
		default: // active
			if workflow == Models.AnomalyRejected || workflow == Models.AnomalyFinalized {
				continue
			}
		}

		p, seen := index[key]
		if !seen {
			p = &Problem{
				Category:       row.Category,
				Item:           row.Item,
				StatusAnomalia: workflow,
				DataInspecao:   row.DataRealizacao.Format(dateLayout),
				Odometer:       row.Odometer,
				plate:          Models.NormalizePlate(row.Plate),
				date:           row.DataRealizacao,
			}
			index[key] = p
			ordered = append(ordered, p)
		}

		p.TotalOcorrencias++
		p.Statuses = appendUnique(p.Statuses, strings.TrimSpace(row.Status))
		p.Users = appendUnique(p.Users, row.UserName)
		p.InspectionIDs = appendUniqueUint(p.InspectionIDs, row.InspectionID)

		if hasStatus {
			if st.DataAprovacao != nil {
				p.DatasAprovacao = appendUnique(p.DatasAprovacao, st.DataAprovacao.Format(dateLayout))
			}
			if st.ApproverName != "" {
				p.Aprovadores = appendUnique(p.Aprovadores, st.ApproverName)
			}
			if st.DataFinalizacao != nil {
				p.DatasFinalizacao = appendUnique(p.DatasFinalizacao, st.DataFinalizacao.Format(dateLayout))
			}
			if st.Observacao != "" {
				p.Observacoes = appendUnique(p.Observacoes, st.Observacao)
			}
		}
	}

	return groupByPlate(ordered)
}

// groupByPlate builds the per-plate report entries. Problems arrive in plate
// ascending, visit date descending order, so the first problem of each plate
// carries the most recent contributing inspection date.
func groupByPlate(problems []*Problem) []VehicleReport {
	reports := make([]VehicleReport, 0)
	var current *VehicleReport
	seenInspections := make(map[uint]struct{})

	for _, p := range problems {
		if current == nil || current.Plate != p.plate {
			reports = append(reports, VehicleReport{
				Plate:              p.plate,
				DataUltimaInspecao: p.DataInspecao,
			})
			current = &reports[len(reports)-1]
			seenInspections = make(map[uint]struct{})
		}
		current.Anomalias = append(current.Anomalias, p)
		current.TotalProblemas++
		for _, id := range p.InspectionIDs {
			if _, ok := seenInspections[id]; !ok {
				seenInspections[id] = struct{}{}
				current.TotalInspecoesComProblema++
			}
		}
	}

	return reports
}

func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func appendUniqueUint(list []uint, v uint) []uint {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
