package envelope

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Result is the uniform response body returned by every endpoint. Exactly one
// of Data or Message is meaningful depending on Success.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK writes a successful result carrying data.
func OK(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Result{Success: true, Data: data})
}

// Fail writes a failed result carrying a message.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Result{Success: false, Message: message})
}

// ErrorHandler renders errors escaping handlers (including fiber.Error values
// produced by middleware) into the result envelope so failures keep the same
// shape as handler responses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	return Fail(c, status, err.Error())
}
