package v1

import (
	"skill-gap/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterAuth(r fiber.Router, authHandler *handler.AuthHandler) {
	if r == nil {
		return
	}
	if authHandler == nil {
		return
	}

	authHandler.RegisterRoutes(r)
}
