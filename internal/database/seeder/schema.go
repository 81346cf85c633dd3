package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skill-gap/internal/database"
)

var ErrSchemaMismatch = errors.New("schema mismatch")

// requireColumns fails when table lacks any of columns, naming all of them.
func requireColumns(ctx context.Context, q database.Querier, table string, columns ...string) error {
	rows, err := q.Query(ctx,
		`SELECT column_name FROM information_schema.columns
		 WHERE table_schema = current_schema() AND table_name = $1 AND column_name = ANY($2)`,
		table, columns,
	)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	found := make(map[string]bool, len(columns))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		found[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, c := range columns {
		if !found[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s missing %s", ErrSchemaMismatch, table, strings.Join(missing, ", "))
	}
	return nil
}
