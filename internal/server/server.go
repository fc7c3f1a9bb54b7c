package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/hasibdev/blog-api/internal/apperror"
	"github.com/hasibdev/blog-api/internal/config"
	"github.com/hasibdev/blog-api/internal/response"
	"github.com/hasibdev/blog-api/internal/storage"
)

// New wires the dependency graph: config and db go in, a ready fiber app
// comes out. The ErrorHandler is the catch-all boundary — typed errors render
// as the uniform body, anything else degrades to a generic 500.
func New(cfg *config.Config, db *gorm.DB, st *storage.Storage) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return response.Fail(c, fiberErr.Code, fiberErr.Message)
			}
			appErr := apperror.From(err)
			return response.Fail(c, appErr.Status, appErr.Message, appErr.Errors...)
		},
	})

	app.Static("/uploads", "./uploads", fiber.Static{
		Compress:  true,
		ByteRange: true,
		Browse:    false,
		MaxAge:    3600,
	})

	SetupRoutes(app, cfg, db, st)

	return app
}
