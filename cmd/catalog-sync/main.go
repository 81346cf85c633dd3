package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skill-gap/internal/config"
	"skill-gap/internal/database/migration"
	dbpostgres "skill-gap/internal/database/postgres"
	"skill-gap/internal/database/seeder"
	"skill-gap/internal/domain/course"
	"skill-gap/internal/pkg/logger"
	"skill-gap/internal/repository"
	"skill-gap/internal/scraper"
	"skill-gap/migrations"

	"go.uber.org/zap"
)

func main() {
	catalogPath := flag.String("catalog", "", "course catalog JSON to enrich (default: COURSE_CATALOG_PATH or built-in table)")
	outPath := flag.String("out", "", "write the enriched catalog here instead of stdout")
	force := flag.Bool("force", false, "refetch summaries that are already set")
	workers := flag.Int("workers", 0, "concurrent fetches (default: SCRAPER_WORKERS)")
	useDB := flag.Bool("db", false, "read and write the courses table instead of a JSON file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.App.LogLevel, cfg.App.IsProduction())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	n := cfg.Scraper.Workers
	if *workers > 0 {
		n = *workers
	}
	enricher := scraper.Enricher{
		Fetcher: scraper.NewSummaryFetcher(cfg.Scraper.Timeout, cfg.Scraper.Headless, lg.Named("fetch")),
		Workers: n,
		Logger:  lg.Named("enrich"),
	}

	if *useDB {
		if err := syncDatabase(ctx, cfg, enricher, *force, lg); err != nil {
			lg.Fatal("catalog sync failed", zap.Error(err))
		}
		return
	}

	path := *catalogPath
	if path == "" {
		path = cfg.Catalog.Path
	}
	catalog := course.Default()
	if path != "" {
		catalog, err = course.LoadFile(path)
		if err != nil {
			lg.Fatal("failed to load catalog", zap.String("path", path), zap.Error(err))
		}
	}

	courses, rep := enricher.Enrich(ctx, catalog.All(), *force)
	logReport(lg, rep)

	var w io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			lg.Fatal("failed to create output", zap.Error(err))
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	if err := course.WriteJSON(w, courses); err != nil {
		lg.Fatal("failed to write catalog", zap.Error(err))
	}
}

func syncDatabase(ctx context.Context, cfg config.Config, enricher scraper.Enricher, force bool, lg *zap.Logger) error {
	if !cfg.Database.Enabled() {
		return errors.New("-db requires DB_HOST and DB_NAME")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := dbpostgres.Connect(connectCtx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	runner := migration.Runner{FS: migrations.FS, Logger: lg.Named("migration")}
	if cfg.Database.MigrationsDir != "" {
		runner.FS, runner.Dir = nil, cfg.Database.MigrationsDir
	}
	if err := runner.Run(ctx, db); err != nil {
		return err
	}

	seeds := seeder.Runner{
		Seeders: []seeder.Seeder{seeder.CoursesSeeder{Courses: course.Default().All()}},
		Logger:  lg.Named("seeder"),
	}
	if err := seeds.Run(ctx, db); err != nil {
		return err
	}

	repo := repository.NewPostgresCourseRepository(db)
	courses, err := repo.List(ctx)
	if err != nil {
		return err
	}

	enriched, rep := enricher.Enrich(ctx, courses, force)
	logReport(lg, rep)

	for i, c := range enriched {
		if c.Summary == courses[i].Summary {
			continue
		}
		if _, err := repo.Upsert(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func logReport(lg *zap.Logger, rep scraper.EnrichReport) {
	lg.Info("catalog enrichment finished",
		zap.Int("attempted", rep.Attempted),
		zap.Int("updated", rep.Updated),
		zap.Int("failed", rep.Failed),
		zap.Int("skipped", rep.Skipped),
	)
}
