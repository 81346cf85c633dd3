package gap

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"skill-gap/internal/domain/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const employeesCSV = ` Employee Name ,Emp ID,Department,Role ,Skill,Self Rating,Unnamed: 6
Asha,1,Eng,Dev,Python,2,
Asha,1,Eng,Dev,Communication,4,
Ben,2,Ops,Technician,Safety,3,
Ben,2,Ops,Technician,Excel,1,
Cara,3,Eng,Dev,Python,5,
Dan,4,Sales,Rep,Negotiation,2,
`

const requirementsCSV = `Role,Skill,Required Rating
Dev,Python,4
Dev,Communication,3
Technician,Safety,5
Technician,Excel,2
`

func parseBoth(t *testing.T, a, b string) (EmployeeDataset, RequirementDataset) {
	t.Helper()
	emps, err := ParseEmployees(strings.NewReader(a))
	require.NoError(t, err)
	reqs, err := ParseRequirements(strings.NewReader(b))
	require.NoError(t, err)
	return emps, reqs
}

func TestCompute_SingleRowExample(t *testing.T) {
	emps, reqs := parseBoth(t,
		"Employee Name,Emp ID,Department,Role,Skill,Self Rating\nX,1,Eng,Dev,Python,2\n",
		"Role,Skill,Required Rating\nDev,Python,4\n",
	)

	table := Compute(emps, reqs, DefaultOptions())
	require.Equal(t, 1, table.Len())
	assert.Equal(t, 2.0, table.Rows[0].Gap)

	gaps := PositiveGaps(table)
	require.Equal(t, 1, gaps.Len())

	plan := TrainingPlan(gaps, course.Default())
	require.Len(t, plan, 1)
	assert.Equal(t, "Python for Beginners – Coursera", plan[0].RecommendedCourse)
}

func TestCompute_GapIsRequiredMinusSelf(t *testing.T) {
	emps, reqs := parseBoth(t, employeesCSV, requirementsCSV)
	table := Compute(emps, reqs, DefaultOptions())

	for _, r := range table.Rows {
		assert.Equal(t, r.RequiredRating-r.SelfRating, r.Gap, "%s/%s", r.EmployeeName, r.Skill)
	}
}

func TestCompute_InnerJoinDropsUnmatched(t *testing.T) {
	emps, reqs := parseBoth(t, employeesCSV, requirementsCSV)
	table := Compute(emps, reqs, DefaultOptions())

	unmatched := Unmatched(emps, reqs)
	assert.Equal(t, 1, unmatched)
	assert.Equal(t, len(emps.Records)-unmatched, table.Len())

	known := map[roleSkill]bool{}
	for _, r := range reqs.Records {
		known[roleSkill{role: r.Role, skill: r.Skill}] = true
	}
	for _, r := range table.Rows {
		assert.True(t, known[roleSkill{role: r.Role, skill: r.Skill}], "unexpected pair %s/%s", r.Role, r.Skill)
	}
}

func TestCompute_PreservesEmployeeOrder(t *testing.T) {
	emps, reqs := parseBoth(t, employeesCSV, requirementsCSV)
	table := Compute(emps, reqs, DefaultOptions())

	names := make([]string, 0, table.Len())
	for _, r := range table.Rows {
		names = append(names, r.EmployeeName+"/"+r.Skill)
	}
	assert.Equal(t, []string{"Asha/Python", "Asha/Communication", "Ben/Safety", "Ben/Excel", "Cara/Python"}, names)
}

func TestCompute_DuplicateRequirementsMultiply(t *testing.T) {
	emps, reqs := parseBoth(t,
		"Role,Skill,Self Rating\nDev,Go,1\n",
		"Role,Skill,Required Rating\nDev,Go,3\nDev,Go,5\n",
	)
	table := Compute(emps, reqs, DefaultOptions())
	require.Equal(t, 2, table.Len())
	assert.Equal(t, 2.0, table.Rows[0].Gap)
	assert.Equal(t, 4.0, table.Rows[1].Gap)
}

func TestCompute_DropsUnnamedColumnsAndSuffixesClashes(t *testing.T) {
	emps, reqs := parseBoth(t,
		"Role,Skill,Self Rating,Notes,,Unnamed: 9\nDev,Go,1,mine,x,y\n",
		"Role,Skill,Required Rating,Notes,Weight\nDev,Go,3,theirs,2\n",
	)
	table := Compute(emps, reqs, DefaultOptions())

	assert.Equal(t, []string{"Notes_x", "Notes_y", "Weight"}, table.Columns)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, []string{"mine", "theirs", "2"}, table.Rows[0].Extra)
}

func TestCompute_EmptyJoinIsNotAnError(t *testing.T) {
	emps, reqs := parseBoth(t,
		"Role,Skill,Self Rating\nDev,Go,1\n",
		"Role,Skill,Required Rating\nOps,Safety,3\n",
	)
	table := Compute(emps, reqs, DefaultOptions())
	assert.True(t, table.Empty())

	s := Aggregate(DistinctEmployees(emps), table)
	assert.Equal(t, 0, s.EmployeesWithGaps)
	assert.Equal(t, 0, s.TotalGaps)

	c := BuildCharts(table)
	assert.Empty(t, c.BySkill)
	assert.Empty(t, c.ByDepartment)
	assert.Empty(t, c.ByRole)
}

func TestParse_MissingColumns(t *testing.T) {
	_, err := ParseEmployees(strings.NewReader("Employee Name,Role\nX,Dev\n"))
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, DatasetEmployees, se.Dataset)
	assert.Equal(t, []string{ColSkill, ColSelfRating}, se.Missing)

	_, err = ParseRequirements(strings.NewReader("Role,Skill\nDev,Go\n"))
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{ColRequiredRating}, se.Missing)
}

func TestParse_HeaderVariants(t *testing.T) {
	emps, err := ParseEmployees(strings.NewReader("\xEF\xBB\xBF employee_name , EmpID ,ROLE,skill,self-rating\nX,7,Dev,Go,2.5\n"))
	require.NoError(t, err)
	require.Len(t, emps.Records, 1)
	assert.Equal(t, EmployeeSkillRecord{EmployeeName: "X", EmpID: "7", Role: "Dev", Skill: "Go", SelfRating: 2.5}, emps.Records[0])
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		line   int
		column string
	}{
		{name: "non numeric", input: "Role,Skill,Self Rating\nDev,Go,two\n", line: 2, column: ColSelfRating},
		{name: "blank rating", input: "Role,Skill,Self Rating\nDev,Go,3\nDev,SQL,\n", line: 3, column: ColSelfRating},
		{name: "too many cells", input: "Role,Skill,Self Rating\nDev,Go,3,extra\n", line: 2},
		{name: "bad quoting", input: "Role,Skill,Self Rating\nDev,\"Go,3\n"},
		{name: "empty file", input: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseEmployees(strings.NewReader(tc.input))
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, DatasetEmployees, pe.Dataset)
			if tc.line > 0 {
				assert.Equal(t, tc.line, pe.Line)
			}
			assert.Equal(t, tc.column, pe.Column)
		})
	}
}

func TestParse_SkipsBlankRows(t *testing.T) {
	emps, reqs := parseBoth(t,
		"Employee Name,Emp ID,Department,Role,Skill,Self Rating\nX,1,Eng,Dev,Python,2\n,,,,,\n , ,,,, \n",
		"Role,Skill,Required Rating\n,,\nDev,Python,4\n,,\n",
	)
	require.Len(t, emps.Records, 1)
	require.Len(t, reqs.Records, 1)

	table := Compute(emps, reqs, DefaultOptions())
	require.Equal(t, 1, table.Len())
	assert.Equal(t, 2.0, table.Rows[0].Gap)
	assert.Equal(t, 1, DistinctEmployees(emps))
}

func TestTrainingPlanCSV_RoundTrip(t *testing.T) {
	emps, reqs := parseBoth(t, employeesCSV, requirementsCSV)
	table := Compute(emps, reqs, DefaultOptions())
	plan := TrainingPlan(table, course.Default())

	var buf bytes.Buffer
	require.NoError(t, WriteTrainingPlanCSV(&buf, plan))
	assert.True(t, strings.HasPrefix(buf.String(), "Employee Name,Emp ID,Role,Skill,Gap,Recommended Course,Course Summary\n"))

	back, err := ReadTrainingPlanCSV(&buf)
	require.NoError(t, err)
	require.Len(t, back, len(plan))
	for i := range plan {
		assert.Equal(t, plan[i].Gap, back[i].Gap)
		assert.Equal(t, plan[i].Skill, back[i].Skill)
		assert.Equal(t, plan[i].RecommendedCourse, back[i].RecommendedCourse)
	}
}

func TestTrainingPlan_UnmappedSkillHasNoCourse(t *testing.T) {
	table := Table{Rows: []GapRecord{{EmployeeName: "X", Skill: "Welding", Gap: 1}}}
	plan := TrainingPlan(table, course.Default())
	require.Len(t, plan, 1)
	assert.Empty(t, plan[0].RecommendedCourse)
	assert.Empty(t, plan[0].CourseSummary)

	plan = TrainingPlan(table, nil)
	require.Len(t, plan, 1)
	assert.Empty(t, plan[0].RecommendedCourse)
}
