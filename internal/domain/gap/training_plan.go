package gap

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"skill-gap/internal/domain/course"
)

const (
	ColRecommendedCourse = "Recommended Course"
	ColCourseSummary     = "Course Summary"
)

// TrainingPlanHeader is the column order of the exported plan.
var TrainingPlanHeader = []string{
	ColEmployeeName,
	ColEmpID,
	ColRole,
	ColSkill,
	ColGap,
	ColRecommendedCourse,
	ColCourseSummary,
}

// CourseLookup resolves a skill to a course recommendation.
type CourseLookup interface {
	Recommend(skill string) (course.Course, bool)
}

type TrainingPlanItem struct {
	EmployeeName      string  `json:"employee_name"`
	EmpID             string  `json:"emp_id"`
	Department        string  `json:"department"`
	Role              string  `json:"role"`
	Skill             string  `json:"skill"`
	Gap               float64 `json:"gap"`
	RecommendedCourse string  `json:"recommended_course"`
	CourseSummary     string  `json:"course_summary"`
	CourseURL         string  `json:"course_url,omitempty"`
}

// TrainingPlan lists the positive gaps of t with their recommended course.
// Skills without a catalog entry get an empty recommendation.
func TrainingPlan(t Table, courses CourseLookup) []TrainingPlanItem {
	gaps := PositiveGaps(t)
	out := make([]TrainingPlanItem, 0, gaps.Len())
	for _, r := range gaps.Rows {
		it := TrainingPlanItem{
			EmployeeName: r.EmployeeName,
			EmpID:        r.EmpID,
			Department:   r.Department,
			Role:         r.Role,
			Skill:        r.Skill,
			Gap:          r.Gap,
		}
		if courses != nil {
			if c, ok := courses.Recommend(r.Skill); ok {
				it.RecommendedCourse = c.Title
				it.CourseSummary = c.Summary
				it.CourseURL = c.URL
			}
		}
		out = append(out, it)
	}
	return out
}

func WriteTrainingPlanCSV(w io.Writer, items []TrainingPlanItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TrainingPlanHeader); err != nil {
		return err
	}
	for _, it := range items {
		rec := []string{
			it.EmployeeName,
			it.EmpID,
			it.Role,
			it.Skill,
			FormatRating(it.Gap),
			it.RecommendedCourse,
			it.CourseSummary,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTrainingPlanCSV parses a plan written by WriteTrainingPlanCSV.
func ReadTrainingPlanCSV(r io.Reader) ([]TrainingPlanItem, error) {
	const dataset = "training plan"

	cr := csv.NewReader(r)
	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Dataset: dataset, Err: errEmptyFile}
		}
		return nil, csvError(dataset, err)
	}
	pos := make(map[string]int, len(head))
	for i, h := range head {
		pos[strings.TrimSpace(h)] = i
	}
	if _, ok := pos[ColGap]; !ok {
		return nil, &SchemaError{Dataset: dataset, Missing: []string{ColGap}}
	}
	get := func(row []string, col string) string {
		i, ok := pos[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	out := make([]TrainingPlanItem, 0)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, csvError(dataset, err)
		}
		line, _ := cr.FieldPos(0)
		g, err := strconv.ParseFloat(get(row, ColGap), 64)
		if err != nil {
			return nil, &ParseError{Dataset: dataset, Line: line, Column: ColGap, Value: get(row, ColGap), Err: fmt.Errorf("gap is not numeric")}
		}
		out = append(out, TrainingPlanItem{
			EmployeeName:      get(row, ColEmployeeName),
			EmpID:             get(row, ColEmpID),
			Role:              get(row, ColRole),
			Skill:             get(row, ColSkill),
			Gap:               g,
			RecommendedCourse: get(row, ColRecommendedCourse),
			CourseSummary:     get(row, ColCourseSummary),
		})
	}
}

// FormatRating renders a rating or gap with the fewest digits that parse
// back to the same value.
func FormatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
