package handler

import (
	"errors"
	"net/url"
	"strings"

	"skill-gap/internal/delivery/http/dto"
	"skill-gap/internal/delivery/http/middleware"
	"skill-gap/internal/pkg/response"
	"skill-gap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CourseHandler struct {
	uc usecase.CourseUsecase
}

func NewCourseHandler(uc usecase.CourseUsecase) *CourseHandler {
	return &CourseHandler{uc: uc}
}

// RegisterRoutes mounts the read routes. Write routes are mounted only when
// admin is non-nil and always sit behind it.
func (h *CourseHandler) RegisterRoutes(r fiber.Router, admin fiber.Handler) {
	if r == nil {
		return
	}

	grp := r.Group("/courses")
	grp.Get("/", h.List)
	grp.Get("/:skill", h.Get)

	if admin != nil {
		grp.Put("/:skill", admin, h.Upsert)
		grp.Delete("/:skill", admin, h.Delete)
	}
}

func (h *CourseHandler) List(c fiber.Ctx) error {
	items, err := h.uc.ListCourses(c.Context())
	if err != nil {
		return mapCourseUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCourseListResponse(items))
}

func (h *CourseHandler) Get(c fiber.Ctx) error {
	got, err := h.uc.GetCourse(c.Context(), skillParam(c))
	if err != nil {
		return mapCourseUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCourseResponse(got))
}

func (h *CourseHandler) Upsert(c fiber.Ctx) error {
	var req dto.CourseRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	saved, err := h.uc.UpsertCourse(c.Context(), req.ToCourse(skillParam(c)))
	if err != nil {
		return mapCourseUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Course saved", dto.NewCourseResponse(saved))
}

func (h *CourseHandler) Delete(c fiber.Ctx) error {
	if err := h.uc.DeleteCourse(c.Context(), skillParam(c)); err != nil {
		return mapCourseUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Course deleted", nil)
}

func skillParam(c fiber.Ctx) string {
	raw := c.Params("skill")
	if v, err := url.PathUnescape(raw); err == nil {
		raw = v
	}
	return strings.TrimSpace(raw)
}

func mapCourseUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrCourseNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Course not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Skill and title are required", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
