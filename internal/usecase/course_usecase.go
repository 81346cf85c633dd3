package usecase

import (
	"context"
	"errors"
	"strings"

	"skill-gap/internal/domain/course"
	"skill-gap/internal/repository"

	"go.uber.org/zap"
)

type CourseUsecase interface {
	ListCourses(ctx context.Context) ([]course.Course, error)
	GetCourse(ctx context.Context, skill string) (course.Course, error)
	UpsertCourse(ctx context.Context, c course.Course) (course.Course, error)
	DeleteCourse(ctx context.Context, skill string) error
	Reload(ctx context.Context) error
}

// Course serves recommendations from the in-memory catalog. When a
// repository is set, writes go to it first and the catalog follows.
type Course struct {
	catalog  *course.Catalog
	repo     repository.CourseRepository
	notifier Notifier
	logger   *zap.Logger
}

func NewCourseUsecase(catalog *course.Catalog, repo repository.CourseRepository, notifier Notifier, logger *zap.Logger) *Course {
	if catalog == nil {
		catalog = course.NewCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Course{catalog: catalog, repo: repo, notifier: notifier, logger: logger}
}

func (u *Course) ListCourses(context.Context) ([]course.Course, error) {
	return u.catalog.All(), nil
}

func (u *Course) GetCourse(_ context.Context, skill string) (course.Course, error) {
	if strings.TrimSpace(skill) == "" {
		return course.Course{}, ErrInvalidInput
	}
	c, ok := u.catalog.Recommend(skill)
	if !ok {
		return course.Course{}, ErrCourseNotFound
	}
	return c, nil
}

func (u *Course) UpsertCourse(ctx context.Context, c course.Course) (course.Course, error) {
	c.Skill = strings.TrimSpace(c.Skill)
	c.Title = strings.TrimSpace(c.Title)
	c.Summary = strings.TrimSpace(c.Summary)
	c.URL = strings.TrimSpace(c.URL)
	c.Provider = strings.TrimSpace(c.Provider)
	if err := c.Validate(); err != nil {
		return course.Course{}, ErrInvalidInput
	}

	if u.repo != nil {
		stored, err := u.repo.Upsert(ctx, c)
		if err != nil {
			u.logger.Error("upsert course failed", zap.String("skill", c.Skill), zap.Error(err))
			return course.Course{}, ErrInternal
		}
		c = stored
	}

	if err := u.catalog.Upsert(c); err != nil {
		return course.Course{}, ErrInvalidInput
	}

	u.logger.Info("course saved", zap.String("skill", c.Skill))
	u.notify(map[string]any{"action": "upsert", "course": c})
	return c, nil
}

func (u *Course) DeleteCourse(ctx context.Context, skill string) error {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return ErrInvalidInput
	}

	if u.repo != nil {
		if err := u.repo.Delete(ctx, skill); err != nil {
			if errors.Is(err, repository.ErrCourseNotFound) {
				return ErrCourseNotFound
			}
			u.logger.Error("delete course failed", zap.String("skill", skill), zap.Error(err))
			return ErrInternal
		}
		u.catalog.Delete(skill)
	} else if !u.catalog.Delete(skill) {
		return ErrCourseNotFound
	}

	u.logger.Info("course deleted", zap.String("skill", skill))
	u.notify(map[string]any{"action": "delete", "skill": skill})
	return nil
}

// Reload replaces the catalog with the repository contents. Without a
// repository it is a no-op. An empty table keeps the current catalog.
func (u *Course) Reload(ctx context.Context) error {
	if u.repo == nil {
		return nil
	}
	items, err := u.repo.List(ctx)
	if err != nil {
		u.logger.Error("reload courses failed", zap.Error(err))
		return ErrInternal
	}
	if len(items) == 0 {
		u.logger.Warn("course table is empty, keeping current catalog", zap.Int("courses", u.catalog.Len()))
		return nil
	}
	u.catalog.Replace(items)
	u.logger.Info("course catalog loaded", zap.Int("courses", len(items)))
	return nil
}

func (u *Course) notify(payload map[string]any) {
	if u.notifier != nil {
		u.notifier.Notify(EventCatalogUpdated, payload)
	}
}
