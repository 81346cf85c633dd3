package dto

import (
	"skill-gap/internal/domain/gap"
)

// GapsResponse is the skill gap table: the fixed columns plus any extra
// columns carried from the uploads, in Columns order.
type GapsResponse struct {
	Columns []string        `json:"columns"`
	Rows    []gap.GapRecord `json:"rows"`
	Count   int             `json:"count"`
}

func NewGapsResponse(t gap.Table) GapsResponse {
	rows := t.Rows
	if rows == nil {
		rows = []gap.GapRecord{}
	}
	cols := t.Columns
	if cols == nil {
		cols = []string{}
	}
	return GapsResponse{Columns: cols, Rows: rows, Count: len(rows)}
}

type TrainingPlanResponse struct {
	Items []gap.TrainingPlanItem `json:"items"`
	Count int                    `json:"count"`
}

func NewTrainingPlanResponse(items []gap.TrainingPlanItem) TrainingPlanResponse {
	if items == nil {
		items = []gap.TrainingPlanItem{}
	}
	return TrainingPlanResponse{Items: items, Count: len(items)}
}

type SchemaErrorData struct {
	Dataset string   `json:"dataset"`
	Missing []string `json:"missing"`
}

type ParseErrorData struct {
	Dataset string `json:"dataset"`
	Line    int    `json:"line,omitempty"`
	Column  string `json:"column,omitempty"`
	Value   string `json:"value,omitempty"`
	Reason  string `json:"reason,omitempty"`
}
