package gap

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	ColEmployeeName   = "Employee Name"
	ColEmpID          = "Emp ID"
	ColDepartment     = "Department"
	ColRole           = "Role"
	ColSkill          = "Skill"
	ColSelfRating     = "Self Rating"
	ColRequiredRating = "Required Rating"
	ColGap            = "Gap"
)

const (
	DatasetEmployees    = "employee skills"
	DatasetRequirements = "required skills"
)

var (
	errEmptyFile    = errors.New("empty file: header row required")
	errBlankRating  = errors.New("rating is blank")
	errNonFinite    = errors.New("rating is not a finite number")
	errTooManyCells = errors.New("row has more cells than the header")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type EmployeeSkillRecord struct {
	EmployeeName string
	EmpID        string
	Department   string
	Role         string
	Skill        string
	SelfRating   float64
	Extra        []string
}

type EmployeeDataset struct {
	ExtraColumns []string
	Records      []EmployeeSkillRecord
}

type RequiredSkillRecord struct {
	Role           string
	Skill          string
	RequiredRating float64
	Extra          []string
}

type RequirementDataset struct {
	ExtraColumns []string
	Records      []RequiredSkillRecord
}

// ParseEmployees reads dataset A. Role, Skill and Self Rating are required;
// Employee Name, Emp ID and Department are read when present.
func ParseEmployees(r io.Reader) (EmployeeDataset, error) {
	known := []string{ColEmployeeName, ColEmpID, ColDepartment, ColRole, ColSkill, ColSelfRating}
	required := []string{ColRole, ColSkill, ColSelfRating}

	var out EmployeeDataset
	err := readTable(r, DatasetEmployees, known, required, func(h header) {
		out.ExtraColumns = h.extras
	}, func(h header, line int, row []string) error {
		rating, err := parseRating(DatasetEmployees, line, ColSelfRating, h.value(row, ColSelfRating))
		if err != nil {
			return err
		}
		out.Records = append(out.Records, EmployeeSkillRecord{
			EmployeeName: h.value(row, ColEmployeeName),
			EmpID:        h.value(row, ColEmpID),
			Department:   h.value(row, ColDepartment),
			Role:         h.value(row, ColRole),
			Skill:        h.value(row, ColSkill),
			SelfRating:   rating,
			Extra:        h.extraValues(row),
		})
		return nil
	})
	if err != nil {
		return EmployeeDataset{}, err
	}
	return out, nil
}

// ParseRequirements reads dataset B. Role, Skill and Required Rating are
// required.
func ParseRequirements(r io.Reader) (RequirementDataset, error) {
	known := []string{ColRole, ColSkill, ColRequiredRating}

	var out RequirementDataset
	err := readTable(r, DatasetRequirements, known, known, func(h header) {
		out.ExtraColumns = h.extras
	}, func(h header, line int, row []string) error {
		rating, err := parseRating(DatasetRequirements, line, ColRequiredRating, h.value(row, ColRequiredRating))
		if err != nil {
			return err
		}
		out.Records = append(out.Records, RequiredSkillRecord{
			Role:           h.value(row, ColRole),
			Skill:          h.value(row, ColSkill),
			RequiredRating: rating,
			Extra:          h.extraValues(row),
		})
		return nil
	})
	if err != nil {
		return RequirementDataset{}, err
	}
	return out, nil
}

type header struct {
	width    int
	known    map[string]int
	extras   []string
	extraIdx []int
}

func (h header) value(row []string, col string) string {
	i, ok := h.known[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (h header) extraValues(row []string) []string {
	if len(h.extraIdx) == 0 {
		return nil
	}
	out := make([]string, len(h.extraIdx))
	for i, idx := range h.extraIdx {
		if idx < len(row) {
			out[i] = strings.TrimSpace(row[idx])
		}
	}
	return out
}

func readTable(
	r io.Reader,
	dataset string,
	known []string,
	required []string,
	onHeader func(h header),
	onRow func(h header, line int, row []string) error,
) error {
	if r == nil {
		return &ParseError{Dataset: dataset, Err: errEmptyFile}
	}

	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &ParseError{Dataset: dataset, Err: errEmptyFile}
		}
		return csvError(dataset, err)
	}

	h, err := buildHeader(dataset, first, known, required)
	if err != nil {
		return err
	}
	onHeader(h)

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return csvError(dataset, err)
		}
		if blankRow(row) {
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(row) > h.width {
			return &ParseError{Dataset: dataset, Line: line, Err: errTooManyCells}
		}
		if err := onRow(h, line, row); err != nil {
			return err
		}
	}
}

// blankRow reports rows like ",,,," that spreadsheet exports leave behind.
func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func buildHeader(dataset string, names []string, known []string, required []string) (header, error) {
	byKey := make(map[string]string, len(known))
	for _, k := range known {
		byKey[columnKey(k)] = k
	}

	h := header{width: len(names), known: make(map[string]int, len(known))}
	for i, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if canon, ok := byKey[columnKey(name)]; ok {
			if _, dup := h.known[canon]; !dup {
				h.known[canon] = i
				continue
			}
		}
		h.extras = append(h.extras, name)
		h.extraIdx = append(h.extraIdx, i)
	}

	var missing []string
	for _, col := range required {
		if _, ok := h.known[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return header{}, &SchemaError{Dataset: dataset, Missing: missing}
	}
	return h, nil
}

// columnKey folds case and drops spaces, underscores and dashes so that
// "Self Rating", "self_rating" and "SelfRating" name the same column.
func columnKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch r {
		case ' ', '_', '-', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func parseRating(dataset string, line int, col string, raw string) (float64, error) {
	if raw == "" {
		return 0, &ParseError{Dataset: dataset, Line: line, Column: col, Err: errBlankRating}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ParseError{Dataset: dataset, Line: line, Column: col, Value: raw, Err: errors.New("rating is not numeric")}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Dataset: dataset, Line: line, Column: col, Value: raw, Err: errNonFinite}
	}
	return v, nil
}

func csvError(dataset string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Dataset: dataset, Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Dataset: dataset, Err: err}
}
