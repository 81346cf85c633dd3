package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"skill-gap/internal/database"
	"skill-gap/internal/domain/course"

	"github.com/jackc/pgx/v5"
)

var ErrCourseNotFound = errors.New("course not found")

type CourseRepository interface {
	List(ctx context.Context) ([]course.Course, error)
	GetBySkill(ctx context.Context, skill string) (course.Course, error)
	Upsert(ctx context.Context, c course.Course) (course.Course, error)
	Delete(ctx context.Context, skill string) error
}

type PostgresCourseRepository struct {
	db database.DB
}

func NewPostgresCourseRepository(db database.DB) *PostgresCourseRepository {
	return &PostgresCourseRepository{db: db}
}

func (r *PostgresCourseRepository) List(ctx context.Context) ([]course.Course, error) {
	rows, err := r.db.Query(ctx, `SELECT skill, title, summary, url, provider FROM courses ORDER BY skill ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]course.Course, 0)
	for rows.Next() {
		var c course.Course
		if err := rows.Scan(&c.Skill, &c.Title, &c.Summary, &c.URL, &c.Provider); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCourseRepository) GetBySkill(ctx context.Context, skill string) (course.Course, error) {
	row := r.db.QueryRow(ctx,
		`SELECT skill, title, summary, url, provider FROM courses WHERE lower(skill) = lower($1)`,
		strings.TrimSpace(skill),
	)

	var c course.Course
	if err := row.Scan(&c.Skill, &c.Title, &c.Summary, &c.URL, &c.Provider); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return course.Course{}, ErrCourseNotFound
		}
		return course.Course{}, err
	}
	return c, nil
}

// Upsert matches existing rows case-insensitively and keeps the stored
// spelling of the skill.
func (r *PostgresCourseRepository) Upsert(ctx context.Context, c course.Course) (course.Course, error) {
	if err := c.Validate(); err != nil {
		return course.Course{}, err
	}
	c.Skill = strings.TrimSpace(c.Skill)

	affected, err := r.db.Exec(ctx,
		`UPDATE courses
		 SET title = $2, summary = $3, url = $4, provider = $5, updated_at = now()
		 WHERE lower(skill) = lower($1)`,
		c.Skill, c.Title, c.Summary, c.URL, c.Provider,
	)
	if err != nil {
		return course.Course{}, err
	}
	if affected == 0 {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO courses (skill, title, summary, url, provider) VALUES ($1, $2, $3, $4, $5)`,
			c.Skill, c.Title, c.Summary, c.URL, c.Provider,
		); err != nil {
			return course.Course{}, err
		}
	}

	return r.GetBySkill(ctx, c.Skill)
}

func (r *PostgresCourseRepository) Delete(ctx context.Context, skill string) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM courses WHERE lower(skill) = lower($1)`, strings.TrimSpace(skill))
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCourseNotFound
	}
	return nil
}
