package analysis

import (
	"time"

	"skill-gap/internal/domain/gap"

	"github.com/google/uuid"
)

// Analysis is one upload: the joined gap table plus the figures that must
// survive filtering. It is replaced, never mutated, when new files arrive.
type Analysis struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	TotalEmployees int       `json:"total_employees"`
	EmployeeRows   int       `json:"employee_rows"`
	RequiredRows   int       `json:"required_rows"`
	Unmatched      int       `json:"unmatched"`
	Table          gap.Table `json:"table"`
}

func (a Analysis) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && !now.Before(a.ExpiresAt)
}
