package middleware

import (
	"errors"

	"skill-gap/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// AppError carries the status, message and optional data a handler wants
// rendered. Cause is logged for 5xx responses and never sent to clients.
type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// ErrorHandler renders handler errors and recovered panics into the response
// envelope. Server errors never leak their message.
func ErrorHandler(logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("rid", requestID(c)),
					zap.String("path", c.Path()),
					zap.Stack("stack"),
				)
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		if err = c.Next(); err == nil {
			return nil
		}

		status, msg, data := classify(err)
		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("rid", requestID(c)),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return response.Error(c, status, msg, data)
	}
}

func classify(err error) (int, string, any) {
	status, msg := fiber.StatusInternalServerError, ""
	var data any

	var appErr *AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		status, msg, data = appErr.StatusCode, appErr.Message, appErr.Data
	case errors.As(err, &fiberErr):
		status, msg = fiberErr.Code, fiberErr.Message
	}

	if status < 400 || status >= fiber.StatusInternalServerError {
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}
	if msg == "" {
		msg = response.DefaultMessage(status)
	}
	return status, msg, data
}

func requestID(c fiber.Ctx) string {
	v, _ := c.Locals(CtxRequestIDKey).(string)
	return v
}
