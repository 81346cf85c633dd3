// Package response renders the JSON envelope every API route answers with.
package response

import (
	"bytes"
	"io"

	"github.com/gofiber/fiber/v3"
)

// Envelope is the body of every JSON response. Notice is set when a request
// succeeded but the result is empty for a reason the user should see.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Notice  string `json:"notice,omitempty"`
	Data    any    `json:"data"`
}

const (
	MessageOK                  = "ok"
	MessageInternalServerError = "internal server error"
)

var defaultMessages = map[int]string{
	fiber.StatusOK:                    MessageOK,
	fiber.StatusCreated:               "created",
	fiber.StatusBadRequest:            "bad request",
	fiber.StatusUnauthorized:          "unauthorized",
	fiber.StatusForbidden:             "forbidden",
	fiber.StatusNotFound:              "not found",
	fiber.StatusMethodNotAllowed:      "method not allowed",
	fiber.StatusConflict:              "conflict",
	fiber.StatusRequestEntityTooLarge: "payload too large",
	fiber.StatusUnprocessableEntity:   "unprocessable entity",
}

// DefaultMessage is the canned message for an HTTP status.
func DefaultMessage(status int) string {
	if m, ok := defaultMessages[status]; ok {
		return m
	}
	if status >= fiber.StatusInternalServerError {
		return MessageInternalServerError
	}
	return "error"
}

func Success(c fiber.Ctx, status int, message string, data any) error {
	return send(c, Envelope{Status: status, Message: message, Data: data})
}

func SuccessWithNotice(c fiber.Ctx, status int, message, notice string, data any) error {
	return send(c, Envelope{Status: status, Message: message, Notice: notice, Data: data})
}

func Error(c fiber.Ctx, status int, message string, data any) error {
	return send(c, Envelope{Status: status, Message: message, Data: data})
}

func send(c fiber.Ctx, env Envelope) error {
	if env.Status < 100 || env.Status > 599 {
		env.Status = fiber.StatusInternalServerError
	}
	if env.Message == "" {
		env.Message = DefaultMessage(env.Status)
	}
	return c.Status(env.Status).JSON(env)
}

// CSVAttachment renders write's output as a downloadable CSV file. Nothing is
// sent when write fails, so the caller can still answer with an error.
func CSVAttachment(c fiber.Ctx, filename string, write func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}
