package v1

import (
	"skill-gap/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterAnalyses(r fiber.Router, analysisHandler *handler.AnalysisHandler) {
	if r == nil {
		return
	}
	if analysisHandler == nil {
		return
	}

	analysisHandler.RegisterRoutes(r)
}
