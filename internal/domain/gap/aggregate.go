package gap

import "sort"

type Summary struct {
	TotalEmployees    int `json:"total_employees"`
	EmployeesWithGaps int `json:"employees_with_gaps"`
	TotalGaps         int `json:"total_gaps"`
}

type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type Charts struct {
	BySkill      []GroupCount `json:"by_skill"`
	ByDepartment []GroupCount `json:"by_department"`
	ByRole       []GroupCount `json:"by_role"`
}

// DistinctEmployees counts employees in the uploaded dataset by Emp ID,
// falling back to the employee name for rows without one.
func DistinctEmployees(emps EmployeeDataset) int {
	seen := make(map[string]struct{}, len(emps.Records))
	for _, r := range emps.Records {
		k := employeeKey(r.EmpID, r.EmployeeName)
		if k == "" {
			continue
		}
		seen[k] = struct{}{}
	}
	return len(seen)
}

// Aggregate summarizes the positive gaps of t. totalEmployees comes from the
// unfiltered upload and is reported as is.
func Aggregate(totalEmployees int, t Table) Summary {
	gaps := PositiveGaps(t)
	seen := make(map[string]struct{})
	for _, r := range gaps.Rows {
		k := employeeKey(r.EmpID, r.EmployeeName)
		if k == "" {
			continue
		}
		seen[k] = struct{}{}
	}
	return Summary{
		TotalEmployees:    totalEmployees,
		EmployeesWithGaps: len(seen),
		TotalGaps:         gaps.Len(),
	}
}

// GroupBy counts rows per value of col. Keys are sorted and blank keys are
// skipped. Unknown columns are looked up among the extra columns.
func GroupBy(t Table, col string) []GroupCount {
	field := fieldFor(t, col)
	counts := make(map[string]int)
	for _, r := range t.Rows {
		k := field(r)
		if k == "" {
			continue
		}
		counts[k]++
	}

	out := make([]GroupCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, GroupCount{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// BuildCharts groups the positive gaps of t by skill, department and role.
func BuildCharts(t Table) Charts {
	gaps := PositiveGaps(t)
	return Charts{
		BySkill:      GroupBy(gaps, ColSkill),
		ByDepartment: GroupBy(gaps, ColDepartment),
		ByRole:       GroupBy(gaps, ColRole),
	}
}

func fieldFor(t Table, col string) func(GapRecord) string {
	switch col {
	case ColSkill:
		return func(r GapRecord) string { return r.Skill }
	case ColDepartment:
		return func(r GapRecord) string { return r.Department }
	case ColRole:
		return func(r GapRecord) string { return r.Role }
	case ColEmployeeName:
		return func(r GapRecord) string { return r.EmployeeName }
	case ColEmpID:
		return func(r GapRecord) string { return r.EmpID }
	}
	for i, c := range t.Columns {
		if c == col {
			idx := i
			return func(r GapRecord) string { return cell(r.Extra, idx) }
		}
	}
	return func(GapRecord) string { return "" }
}

func employeeKey(empID, name string) string {
	if empID != "" {
		return "id:" + empID
	}
	if name != "" {
		return "name:" + name
	}
	return ""
}
