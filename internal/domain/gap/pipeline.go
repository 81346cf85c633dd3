package gap

import (
	"regexp"
)

// DefaultUnnamedPattern matches the placeholder headers spreadsheet exports
// give to index and blank columns.
const DefaultUnnamedPattern = `^Unnamed`

type Options struct {
	UnnamedPattern *regexp.Regexp
}

func DefaultOptions() Options {
	return Options{UnnamedPattern: regexp.MustCompile(DefaultUnnamedPattern)}
}

type GapRecord struct {
	EmployeeName   string   `json:"employee_name"`
	EmpID          string   `json:"emp_id"`
	Department     string   `json:"department"`
	Role           string   `json:"role"`
	Skill          string   `json:"skill"`
	SelfRating     float64  `json:"self_rating"`
	RequiredRating float64  `json:"required_rating"`
	Gap            float64  `json:"gap"`
	Extra          []string `json:"extra,omitempty"`
}

// Table is the joined result. Columns names the Extra values carried by each
// row, in order.
type Table struct {
	Columns []string    `json:"columns"`
	Rows    []GapRecord `json:"rows"`
}

func (t Table) Len() int { return len(t.Rows) }

func (t Table) Empty() bool { return len(t.Rows) == 0 }

func (t Table) with(rows []GapRecord) Table {
	return Table{Columns: t.Columns, Rows: rows}
}

type roleSkill struct {
	role  string
	skill string
}

// Compute inner-joins employees and requirements on (Role, Skill) and
// derives Gap = RequiredRating - SelfRating for every joined row. Employee
// rows without a requirement are dropped; duplicate requirements multiply.
// Row order follows the employee dataset.
func Compute(emps EmployeeDataset, reqs RequirementDataset, opts Options) Table {
	if opts.UnnamedPattern == nil {
		opts = DefaultOptions()
	}

	index := make(map[roleSkill][]RequiredSkillRecord, len(reqs.Records))
	for _, r := range reqs.Records {
		k := roleSkill{role: r.Role, skill: r.Skill}
		index[k] = append(index[k], r)
	}

	columns, keepA, keepB := mergeColumns(emps.ExtraColumns, reqs.ExtraColumns, opts.UnnamedPattern)

	rows := make([]GapRecord, 0, len(emps.Records))
	for _, e := range emps.Records {
		matches, ok := index[roleSkill{role: e.Role, skill: e.Skill}]
		if !ok {
			continue
		}
		for _, r := range matches {
			rows = append(rows, GapRecord{
				EmployeeName:   e.EmployeeName,
				EmpID:          e.EmpID,
				Department:     e.Department,
				Role:           e.Role,
				Skill:          e.Skill,
				SelfRating:     e.SelfRating,
				RequiredRating: r.RequiredRating,
				Gap:            r.RequiredRating - e.SelfRating,
				Extra:          pick(e.Extra, keepA, r.Extra, keepB),
			})
		}
	}

	return Table{Columns: columns, Rows: rows}
}

// Unmatched counts employee rows whose (Role, Skill) has no requirement.
func Unmatched(emps EmployeeDataset, reqs RequirementDataset) int {
	known := make(map[roleSkill]struct{}, len(reqs.Records))
	for _, r := range reqs.Records {
		known[roleSkill{role: r.Role, skill: r.Skill}] = struct{}{}
	}
	n := 0
	for _, e := range emps.Records {
		if _, ok := known[roleSkill{role: e.Role, skill: e.Skill}]; !ok {
			n++
		}
	}
	return n
}

// mergeColumns names the extra columns of the join. A name present on both
// sides is suffixed _x (employees) and _y (requirements). Names matching the
// unnamed pattern are pruned; keepA and keepB index the surviving columns of
// each side.
func mergeColumns(a, b []string, unnamed *regexp.Regexp) (columns []string, keepA, keepB []int) {
	inB := make(map[string]struct{}, len(b))
	for _, n := range b {
		inB[n] = struct{}{}
	}
	inA := make(map[string]struct{}, len(a))
	for _, n := range a {
		inA[n] = struct{}{}
	}

	for i, n := range a {
		if _, clash := inB[n]; clash {
			n += "_x"
		}
		if unnamed.MatchString(n) {
			continue
		}
		columns = append(columns, n)
		keepA = append(keepA, i)
	}
	for i, n := range b {
		if _, clash := inA[n]; clash {
			n += "_y"
		}
		if unnamed.MatchString(n) {
			continue
		}
		columns = append(columns, n)
		keepB = append(keepB, i)
	}
	return columns, keepA, keepB
}

func pick(a []string, keepA []int, b []string, keepB []int) []string {
	if len(keepA)+len(keepB) == 0 {
		return nil
	}
	out := make([]string, 0, len(keepA)+len(keepB))
	for _, i := range keepA {
		out = append(out, cell(a, i))
	}
	for _, i := range keepB {
		out = append(out, cell(b, i))
	}
	return out
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
