package media

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hasibdev/blog-api/internal/response"
	"github.com/hasibdev/blog-api/internal/storage"
)

type Handler struct {
	storage *storage.Storage
}

func NewHandler(st *storage.Storage) *Handler {
	return &Handler{storage: st}
}

func (h *Handler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "No file uploaded")
	}

	imageURL, err := h.storage.Upload(file)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to upload image")
	}

	return response.Success(c, "File uploaded successfully", fiber.Map{"imageUrl": imageURL})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	var body struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := c.BodyParser(&body); err != nil || body.ImageURL == "" {
		return response.Fail(c, fiber.StatusBadRequest, "No image url provided")
	}

	if err := h.storage.Delete(body.ImageURL); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Failed to delete image")
	}
	return response.Success(c, "Image deleted successfully", nil)
}
