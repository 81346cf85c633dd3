package seeder

import (
	"context"
	"fmt"

	"skill-gap/internal/database"
	"skill-gap/internal/domain/course"
)

// CoursesSeeder inserts catalog entries that are not in the table yet.
// Existing rows are left alone so edits made through the API survive restarts.
type CoursesSeeder struct {
	Courses []course.Course
}

func (CoursesSeeder) Name() string { return "courses" }

func (s CoursesSeeder) Run(ctx context.Context, db database.DB) (int, error) {
	if err := requireColumns(ctx, db, "courses", "skill", "title", "summary", "url", "provider"); err != nil {
		return 0, err
	}
	for _, it := range s.Courses {
		if err := it.Validate(); err != nil {
			return 0, fmt.Errorf("course %q: %w", it.Skill, err)
		}
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	inserted := 0
	for _, it := range s.Courses {
		n, err := tx.Exec(ctx,
			`INSERT INTO courses (skill, title, summary, url, provider)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT DO NOTHING`,
			it.Skill, it.Title, it.Summary, it.URL, it.Provider,
		)
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", it.Skill, err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}
