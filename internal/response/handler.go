package response

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hasibdev/blog-api/internal/apperror"
)

// Body is the uniform envelope for every endpoint: successes carry Message and
// Data, failures carry Message and the Errors slice (null when there is no
// per-field detail).
type Body struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Body{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Body{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Fail(c *fiber.Ctx, status int, message string, details ...string) error {
	return c.Status(status).JSON(Body{
		Success: false,
		Message: message,
		Errors:  details,
	})
}

// Err renders a typed application error; unrecognized errors become a generic
// 500 so storage-layer failures never leak to clients.
func Err(c *fiber.Ctx, err error) error {
	appErr := apperror.From(err)
	return Fail(c, appErr.Status, appErr.Message, appErr.Errors...)
}
