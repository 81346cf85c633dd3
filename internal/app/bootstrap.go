package app

import (
	"context"
	"fmt"
	"strings"

	"skill-gap/internal/config"
	"skill-gap/internal/delivery/http/handler"
	"skill-gap/internal/delivery/http/middleware"
	"skill-gap/internal/delivery/http/routes"
	applog "skill-gap/internal/pkg/logger"
	"skill-gap/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP app over an already wired container.
func New(c *Container) *App {
	c.Logger = applog.OrNop(c.Logger)
	f := fiber.New(fiber.Config{
		AppName:   c.Config.App.AppName,
		BodyLimit: bodyLimit(c.Config.Analysis.MaxUploadBytes),
	})

	registerGlobalMiddleware(f, c.Logger)
	registry(c).Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container, starts the websocket hub and returns the
// app plus a cleanup func that stops both.
func Bootstrap(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return New(c), cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *zap.Logger) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(logger.Named("http"))
	app.Use(accessMw.Middleware())
	app.Use(middleware.ErrorHandler(logger))
}

func registry(c *Container) *routes.Registry {
	checks := map[string]handler.HealthCheck{}
	if c.DB != nil {
		checks["postgres"] = c.DB.Ping
	}
	if c.Redis != nil && c.Redis.Available() {
		checks["redis"] = c.Redis.Ping
	}

	reg := &routes.Registry{
		Health:   handler.NewHealthHandler(checks),
		Analysis: handler.NewAnalysisHandler(c.AnalysisUC, c.Config.Analysis.MaxUploadBytes),
		Course:   handler.NewCourseHandler(c.CourseUC),
		Auth:     handler.NewAuthHandler(c.AuthUC),
		WS:       ws.NewHandler(c.Hub, c.Logger.Named("ws")),
	}
	if c.JWT != nil {
		reg.AdminAuth = middleware.RequireAdmin(c.JWT)
	}
	return reg
}

// bodyLimit leaves room for two files plus multipart framing.
func bodyLimit(maxUpload int) int {
	if maxUpload <= 0 {
		return fiber.DefaultBodyLimit
	}
	return 2*maxUpload + 1<<20
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
