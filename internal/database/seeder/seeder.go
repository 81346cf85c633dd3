// Package seeder loads reference data into a freshly migrated database.
package seeder

import (
	"context"

	"skill-gap/internal/database"
)

// Seeder writes one kind of reference row and reports how many it inserted.
// Running a seeder twice must not duplicate rows.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) (int, error)
}
