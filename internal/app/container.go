package app

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"skill-gap/internal/config"
	"skill-gap/internal/database"
	"skill-gap/internal/database/migration"
	dbpostgres "skill-gap/internal/database/postgres"
	"skill-gap/internal/database/seeder"
	"skill-gap/internal/domain/course"
	"skill-gap/internal/domain/gap"
	"skill-gap/internal/infrastructure/cache"
	"skill-gap/internal/pkg/jwt"
	applog "skill-gap/internal/pkg/logger"
	"skill-gap/internal/repository"
	"skill-gap/internal/usecase"
	"skill-gap/internal/ws"
	"skill-gap/migrations"

	"go.uber.org/zap"
)

// Container owns every long-lived dependency. Optional backends (Postgres,
// Redis, admin auth) are nil or unavailable when not configured.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB    database.DB
	Redis *cache.Redis
	Hub   *ws.Hub
	JWT   jwt.Service

	Catalog  *course.Catalog
	Analyses repository.AnalysisRepository
	Courses  repository.CourseRepository

	AnalysisUC usecase.AnalysisUsecase
	CourseUC   usecase.CourseUsecase
	AuthUC     usecase.AuthUsecase
}

func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Container, error) {
	logger = applog.OrNop(logger)
	c := &Container{Config: cfg, Logger: logger, Hub: ws.NewHub(logger.Named("ws"))}

	catalog, err := loadCatalog(cfg.Catalog, logger)
	if err != nil {
		return nil, err
	}
	c.Catalog = catalog

	if cfg.Database.Enabled() {
		if err := c.openDatabase(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	} else {
		logger.Info("postgres not configured, course catalog is read from file or built-in table")
	}

	c.Redis = cache.NewRedis(cfg.Redis, logger.Named("redis"))
	if c.Redis.Available() {
		c.Analyses = repository.NewRedisAnalysisRepository(c.Redis)
		logger.Info("analysis store: redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		c.Analyses = repository.NewMemoryAnalysisRepository(cfg.Analysis.TTL)
		logger.Info("analysis store: in-process")
	}

	if cfg.JWT.AccessSecret != "" {
		c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn)
	}

	opts := gap.DefaultOptions()
	if cfg.Analysis.UnnamedPattern != "" {
		re, err := regexp.Compile(cfg.Analysis.UnnamedPattern)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("unnamed column pattern: %w", err)
		}
		opts.UnnamedPattern = re
	}

	courseUC := usecase.NewCourseUsecase(c.Catalog, c.Courses, c.Hub, logger.Named("courses"))
	if err := courseUC.Reload(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.CourseUC = courseUC
	c.AnalysisUC = usecase.NewAnalysisUsecase(c.Analyses, c.Catalog, c.Hub, logger.Named("analysis"), opts, cfg.Analysis.TTL)
	c.AuthUC = usecase.NewAuthUsecase(cfg.Admin, c.JWT, logger.Named("auth"))

	return c, nil
}

func (c *Container) openDatabase(ctx context.Context) error {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, c.Config.Database)
	if err != nil {
		return err
	}
	c.DB = db

	runner := migration.Runner{FS: migrations.FS, Logger: c.Logger.Named("migration")}
	if c.Config.Database.MigrationsDir != "" {
		runner.FS, runner.Dir = nil, c.Config.Database.MigrationsDir
	}
	if err := runner.Run(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	seeds := seeder.Runner{
		Seeders: []seeder.Seeder{seeder.CoursesSeeder{Courses: c.Catalog.All()}},
		Logger:  c.Logger.Named("seeder"),
	}
	if err := seeds.Run(ctx, db); err != nil {
		return err
	}

	c.Courses = repository.NewPostgresCourseRepository(db)
	return nil
}

// loadCatalog reads COURSE_CATALOG_PATH when set, else the built-in table.
func loadCatalog(cfg config.CatalogConfig, logger *zap.Logger) (*course.Catalog, error) {
	if cfg.Path == "" {
		catalog := course.Default()
		catalog.SetExactMatch(cfg.ExactMatch)
		return catalog, nil
	}
	catalog, err := course.LoadFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("load course catalog: %w", err)
	}
	catalog.SetExactMatch(cfg.ExactMatch)
	logger.Info("course catalog loaded from file", zap.String("path", cfg.Path), zap.Int("courses", catalog.Len()))
	return catalog, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var firstErr error
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
