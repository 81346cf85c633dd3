package gap

import (
	"sort"
	"strings"
)

// All is the selector sentinel that disables a filter.
const All = "All"

// Selector holds the chosen values of one filter. An empty selector, or one
// containing All, selects every row.
type Selector []string

// ParseSelector flattens raw query values, splitting on commas and dropping
// blanks.
func ParseSelector(raw ...string) Selector {
	var out Selector
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			out = append(out, part)
		}
	}
	return out
}

func (s Selector) IsAll() bool {
	if len(s) == 0 {
		return true
	}
	for _, v := range s {
		if v == All {
			return true
		}
	}
	return false
}

func (s Selector) matches(v string) bool {
	for _, want := range s {
		if want == v {
			return true
		}
	}
	return false
}

// Filter keeps the rows matching both selectors. With both selectors set to
// All it returns t unchanged.
func Filter(t Table, department, role Selector) Table {
	deptAll, roleAll := department.IsAll(), role.IsAll()
	if deptAll && roleAll {
		return t
	}
	rows := make([]GapRecord, 0, len(t.Rows))
	for _, r := range t.Rows {
		if !deptAll && !department.matches(r.Department) {
			continue
		}
		if !roleAll && !role.matches(r.Role) {
			continue
		}
		rows = append(rows, r)
	}
	return t.with(rows)
}

// PositiveGaps keeps skill deficits only.
func PositiveGaps(t Table) Table {
	rows := make([]GapRecord, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.Gap > 0 {
			rows = append(rows, r)
		}
	}
	return t.with(rows)
}

// NonPositiveGaps is the complement of PositiveGaps.
func NonPositiveGaps(t Table) Table {
	rows := make([]GapRecord, 0, len(t.Rows))
	for _, r := range t.Rows {
		if !(r.Gap > 0) {
			rows = append(rows, r)
		}
	}
	return t.with(rows)
}

type FilterOptions struct {
	Departments []string `json:"departments"`
	Roles       []string `json:"roles"`
}

// SelectorOptions lists the distinct, sorted, non-empty departments and roles of the
// unfiltered table.
func SelectorOptions(t Table) FilterOptions {
	return FilterOptions{
		Departments: distinct(t.Rows, func(r GapRecord) string { return r.Department }),
		Roles:       distinct(t.Rows, func(r GapRecord) string { return r.Role }),
	}
}

func distinct(rows []GapRecord, field func(GapRecord) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range rows {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
