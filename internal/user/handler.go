package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/hasibdev/blog-api/internal/auth"
	"github.com/hasibdev/blog-api/internal/models"
	"github.com/hasibdev/blog-api/internal/response"
	"github.com/hasibdev/blog-api/internal/utils"
)

// Profile mutations are self-only and the sensitive ones (name, email,
// password, account deletion) re-authenticate with the current password.
type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) Get(c *fiber.Ctx) error {
	var user models.User
	if err := h.db.First(&user, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "User not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "User retrieved successfully", user)
}

func (h *Handler) GetPosts(c *fiber.Ctx) error {
	var posts []models.Post
	err := h.db.Where("author_id = ?", c.Params("id")).
		Preload("Author").
		Preload("Category").
		Find(&posts).Error
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "User posts retrieved successfully", posts)
}

func (h *Handler) UpdateName(c *fiber.Ctx) error {
	user, errResp := h.loadOwnAccount(c)
	if user == nil {
		return errResp
	}

	var body struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil || body.Name == "" || body.Password == "" {
		return response.Fail(c, fiber.StatusBadRequest, "All fields are required",
			"Name and password are required")
	}
	if !utils.CheckPasswordHash(body.Password, user.Password) {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid password")
	}

	user.Name = body.Name
	if err := h.db.Save(user).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "User name updated successfully", nil)
}

func (h *Handler) UpdateEmail(c *fiber.Ctx) error {
	user, errResp := h.loadOwnAccount(c)
	if user == nil {
		return errResp
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" || body.Password == "" {
		return response.Fail(c, fiber.StatusBadRequest, "All fields are required",
			"Email and password are required")
	}
	if !utils.CheckPasswordHash(body.Password, user.Password) {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid password")
	}

	user.Email = body.Email
	if err := h.db.Save(user).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "User email updated successfully", nil)
}

func (h *Handler) UpdatePassword(c *fiber.Ctx) error {
	user, errResp := h.loadOwnAccount(c)
	if user == nil {
		return errResp
	}

	var body struct {
		Password    string `json:"password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&body); err != nil || body.Password == "" || body.NewPassword == "" {
		return response.Fail(c, fiber.StatusBadRequest, "All fields are required",
			"Password and new password are required")
	}
	if len(body.NewPassword) < 6 {
		return response.Fail(c, fiber.StatusBadRequest, "Password must be at least 6 characters")
	}
	if !utils.CheckPasswordHash(body.Password, user.Password) {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid password")
	}

	hash, err := utils.HashPassword(body.NewPassword)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	user.Password = hash
	if err := h.db.Save(user).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "User password updated successfully", nil)
}

func (h *Handler) UpdateProfilePicture(c *fiber.Ctx) error {
	user, errResp := h.loadOwnAccount(c)
	if user == nil {
		return errResp
	}

	var body struct {
		Image string `json:"image"`
	}
	if err := c.BodyParser(&body); err != nil || body.Image == "" {
		return response.Fail(c, fiber.StatusBadRequest, "All fields are required",
			"Profile picture is required")
	}

	user.Image = body.Image
	if err := h.db.Save(user).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "User profile picture updated successfully", nil)
}

func (h *Handler) UpdateBio(c *fiber.Ctx) error {
	user, errResp := h.loadOwnAccount(c)
	if user == nil {
		return errResp
	}

	var body struct {
		Bio string `json:"bio"`
	}
	if err := c.BodyParser(&body); err != nil || body.Bio == "" {
		return response.Fail(c, fiber.StatusBadRequest, "All fields are required", "Bio is required")
	}

	user.Bio = body.Bio
	if err := h.db.Save(user).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "User bio updated successfully", nil)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	user, errResp := h.loadOwnAccount(c)
	if user == nil {
		return errResp
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil || body.Password == "" {
		return response.Fail(c, fiber.StatusBadRequest, "All fields are required", "Password is required")
	}
	if !utils.CheckPasswordHash(body.Password, user.Password) {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid password")
	}

	if err := h.db.Delete(user).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "User deleted successfully", nil)
}

// loadOwnAccount resolves the :id user and asserts the caller is that user.
// A nil user means the response has already been written.
func (h *Handler) loadOwnAccount(c *fiber.Ctx) (*models.User, error) {
	var user models.User
	if err := h.db.First(&user, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.Fail(c, fiber.StatusNotFound, "User not found")
		}
		return nil, response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	if !auth.IsOwner(auth.CallerID(c), user.ID) {
		return nil, response.Fail(c, fiber.StatusForbidden, "You are not authorized to update this user")
	}
	return &user, nil
}
