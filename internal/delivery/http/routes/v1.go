package routes

import (
	v1 "skill-gap/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, reg *Registry) {
	if r == nil || reg == nil {
		return
	}

	v1.RegisterAnalyses(r, reg.Analysis)
	v1.RegisterCourses(r, reg.Course, reg.AdminAuth)
	if reg.AdminAuth != nil {
		v1.RegisterAuth(r, reg.Auth)
	}
}
