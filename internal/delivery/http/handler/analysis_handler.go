package handler

import (
	"errors"
	"io"
	"mime/multipart"

	"skill-gap/internal/delivery/http/dto"
	"skill-gap/internal/delivery/http/middleware"
	"skill-gap/internal/domain/gap"
	"skill-gap/internal/pkg/response"
	"skill-gap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	formEmployeeFile = "employee_file"
	formRequiredFile = "required_file"
	formReplaces     = "replaces"

	queryDepartment = "department"
	queryRole       = "role"

	trainingPlanFilename = "training_plan.csv"
)

type AnalysisHandler struct {
	uc             usecase.AnalysisUsecase
	maxUploadBytes int64
}

func NewAnalysisHandler(uc usecase.AnalysisUsecase, maxUploadBytes int) *AnalysisHandler {
	return &AnalysisHandler{uc: uc, maxUploadBytes: int64(maxUploadBytes)}
}

func (h *AnalysisHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/analyses")
	grp.Post("/", h.Create)
	grp.Get("/:id", h.View)
	grp.Delete("/:id", h.Delete)
	grp.Get("/:id/gaps", h.Gaps)
	grp.Get("/:id/training-plan", h.TrainingPlan)
	grp.Get("/:id/training-plan/export", h.ExportTrainingPlan)
	grp.Get("/:id/summary", h.Summary)
	grp.Get("/:id/charts", h.Charts)
	grp.Get("/:id/filters", h.Filters)
}

func (h *AnalysisHandler) Create(c fiber.Ctx) error {
	emp, err := h.openUpload(c, formEmployeeFile)
	if err != nil {
		return err
	}
	defer emp.Close()

	req, err := h.openUpload(c, formRequiredFile)
	if err != nil {
		return err
	}
	defer req.Close()

	view, err := h.uc.Analyze(c.Context(), usecase.UploadInput{
		Employees:    emp,
		Requirements: req,
		Replaces:     c.FormValue(formReplaces),
	})
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}

	return response.SuccessWithNotice(c, fiber.StatusCreated, "Analysis created", view.Notice, view)
}

func (h *AnalysisHandler) View(c fiber.Ctx) error {
	view, err := h.uc.View(c.Context(), c.Params("id"), viewParams(c))
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}
	return response.SuccessWithNotice(c, fiber.StatusOK, response.MessageOK, view.Notice, view)
}

func (h *AnalysisHandler) Gaps(c fiber.Ctx) error {
	t, notice, err := h.uc.Gaps(c.Context(), c.Params("id"), viewParams(c))
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}
	return response.SuccessWithNotice(c, fiber.StatusOK, response.MessageOK, notice, dto.NewGapsResponse(t))
}

func (h *AnalysisHandler) TrainingPlan(c fiber.Ctx) error {
	items, notice, err := h.uc.TrainingPlan(c.Context(), c.Params("id"), viewParams(c))
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}
	return response.SuccessWithNotice(c, fiber.StatusOK, response.MessageOK, notice, dto.NewTrainingPlanResponse(items))
}

func (h *AnalysisHandler) ExportTrainingPlan(c fiber.Ctx) error {
	b, err := h.uc.ExportTrainingPlan(c.Context(), c.Params("id"), viewParams(c))
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}
	return response.CSVAttachment(c, trainingPlanFilename, func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	})
}

func (h *AnalysisHandler) Summary(c fiber.Ctx) error {
	s, err := h.uc.Summary(c.Context(), c.Params("id"), viewParams(c))
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, s)
}

func (h *AnalysisHandler) Charts(c fiber.Ctx) error {
	ch, err := h.uc.Charts(c.Context(), c.Params("id"), viewParams(c))
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, ch)
}

func (h *AnalysisHandler) Filters(c fiber.Ctx) error {
	opts, err := h.uc.FilterOptions(c.Context(), c.Params("id"))
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, opts)
}

func (h *AnalysisHandler) Delete(c fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return mapAnalysisUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Analysis deleted", nil)
}

func (h *AnalysisHandler) openUpload(c fiber.Ctx, field string) (multipart.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, middleware.NewAppError(fiber.StatusBadRequest, "Missing file "+field, nil, err)
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return nil, middleware.NewAppError(fiber.StatusRequestEntityTooLarge, "File "+field+" is too large", nil, nil)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file "+field, nil, err)
	}
	return f, nil
}

// viewParams reads the department and role selectors. Both accept repeated
// parameters and comma separated values.
func viewParams(c fiber.Ctx) usecase.ViewParams {
	return usecase.ViewParams{
		Departments: gap.ParseSelector(queryValues(c, queryDepartment)...),
		Roles:       gap.ParseSelector(queryValues(c, queryRole)...),
	}
}

func queryValues(c fiber.Ctx, key string) []string {
	raw := c.Request().URI().QueryArgs().PeekMulti(key)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, string(v))
	}
	return out
}

func mapAnalysisUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var schemaErr *gap.SchemaError
	if errors.As(err, &schemaErr) {
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, schemaErr.Error(),
			dto.SchemaErrorData{Dataset: schemaErr.Dataset, Missing: schemaErr.Missing}, err)
	}

	var parseErr *gap.ParseError
	if errors.As(err, &parseErr) {
		data := dto.ParseErrorData{
			Dataset: parseErr.Dataset,
			Line:    parseErr.Line,
			Column:  parseErr.Column,
			Value:   parseErr.Value,
		}
		if parseErr.Err != nil {
			data.Reason = parseErr.Err.Error()
		}
		return middleware.NewAppError(fiber.StatusBadRequest, parseErr.Error(), data, err)
	}

	switch {
	case errors.Is(err, usecase.ErrAnalysisNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Analysis not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
