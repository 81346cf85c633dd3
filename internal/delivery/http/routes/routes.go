package routes

import (
	"skill-gap/internal/delivery/http/handler"
	"skill-gap/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Registry holds every handler the server mounts. Nil handlers are skipped.
type Registry struct {
	Health   *handler.HealthHandler
	Analysis *handler.AnalysisHandler
	Course   *handler.CourseHandler
	Auth     *handler.AuthHandler
	WS       *ws.Handler

	// AdminAuth guards course writes. When nil the write routes are not
	// mounted at all.
	AdminAuth fiber.Handler
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	r.registerHealth(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.WS != nil {
		r.WS.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r)
}
