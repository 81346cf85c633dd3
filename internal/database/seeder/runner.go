package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skill-gap/internal/database"

	"go.uber.org/zap"
)

type Runner struct {
	Seeders []Seeder
	Logger  *zap.Logger
}

// Run executes the seeders in order and stops at the first failure.
func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	for _, s := range r.Seeders {
		start := time.Now()
		n, err := s.Run(ctx, db)
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeder finished",
			zap.String("seeder", s.Name()),
			zap.Int("inserted", n),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return nil
}
