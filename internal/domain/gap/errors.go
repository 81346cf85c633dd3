package gap

import (
	"fmt"
	"strings"
)

// EmptyResultNotice is shown when the join produced no rows. It is a valid
// state, not an error.
const EmptyResultNotice = "no employee skill matched a role requirement; check that Role and Skill values agree between both files"

// NoGapsNotice is shown when the current selection has no positive gap.
const NoGapsNotice = "no skill gaps found for the current selection"

// SchemaError reports required columns missing from one input.
type SchemaError struct {
	Dataset string
	Missing []string
}

func (e *SchemaError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: missing required column(s): %s", e.Dataset, strings.Join(e.Missing, ", "))
}

// ParseError reports malformed tabular input or a non-numeric rating.
// Line is 1-based and counts the header row.
type ParseError struct {
	Dataset string
	Line    int
	Column  string
	Value   string
	Err     error
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(e.Dataset)
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, ": value %q", e.Value)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
