package comment

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/hasibdev/blog-api/internal/auth"
	"github.com/hasibdev/blog-api/internal/models"
	"github.com/hasibdev/blog-api/internal/response"
)

type Handler struct {
	db  *gorm.DB
	ugc *bluemonday.Policy
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, ugc: bluemonday.UGCPolicy()}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	user, errResp := h.loadCaller(c)
	if user == nil {
		return errResp
	}

	var body struct {
		Text   string `json:"text"`
		PostID string `json:"postId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if body.Text == "" || body.PostID == "" {
		return response.Fail(c, fiber.StatusBadRequest, "All fields are required",
			"Text and postId are required")
	}

	var post models.Post
	if err := h.db.First(&post, "id = ?", body.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Post not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	comment := models.Comment{
		Text:   h.ugc.Sanitize(body.Text),
		UserID: user.ID,
		PostID: post.ID,
	}
	if err := h.db.Create(&comment).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Created(c, "Comment created successfully", comment)
}

func (h *Handler) CreateReply(c *fiber.Ctx) error {
	user, errResp := h.loadCaller(c)
	if user == nil {
		return errResp
	}

	var body struct {
		Text      string `json:"text"`
		CommentID string `json:"commentId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if body.Text == "" || body.CommentID == "" {
		return response.Fail(c, fiber.StatusBadRequest, "All fields are required",
			"Text and commentId are required")
	}

	var comment models.Comment
	if err := h.db.First(&comment, "id = ?", body.CommentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Comment not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	reply := models.Reply{
		Text:      h.ugc.Sanitize(body.Text),
		UserID:    user.ID,
		CommentID: comment.ID,
	}
	if err := h.db.Create(&reply).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Created(c, "Comment reply created successfully", reply)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	var comment models.Comment
	if err := h.db.First(&comment, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Comment not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	if !auth.IsOwner(auth.CallerID(c), comment.UserID) {
		return response.Fail(c, fiber.StatusForbidden, "You are not authorized to update this comment")
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&body); err != nil || body.Text == "" {
		return response.Fail(c, fiber.StatusBadRequest, "All fields are required", "Text is required")
	}

	comment.Text = h.ugc.Sanitize(body.Text)
	if err := h.db.Save(&comment).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "Comment updated successfully", comment)
}

func (h *Handler) UpdateReply(c *fiber.Ctx) error {
	var reply models.Reply
	if err := h.db.First(&reply, "id = ?", c.Params("replyId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Comment reply not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	if !auth.IsOwner(auth.CallerID(c), reply.UserID) {
		return response.Fail(c, fiber.StatusForbidden, "You are not authorized to update this comment reply")
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&body); err != nil || body.Text == "" {
		return response.Fail(c, fiber.StatusBadRequest, "All fields are required", "Text is required")
	}

	reply.Text = h.ugc.Sanitize(body.Text)
	if err := h.db.Save(&reply).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "Comment reply updated successfully", reply)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	var comment models.Comment
	if err := h.db.First(&comment, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Comment not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	if !auth.IsOwner(auth.CallerID(c), comment.UserID) {
		return response.Fail(c, fiber.StatusForbidden, "You are not authorized to delete this comment")
	}

	if err := h.db.Delete(&comment).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "Comment deleted successfully", nil)
}

func (h *Handler) DeleteReply(c *fiber.Ctx) error {
	var reply models.Reply
	if err := h.db.First(&reply, "id = ?", c.Params("replyId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Comment reply not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	if !auth.IsOwner(auth.CallerID(c), reply.UserID) {
		return response.Fail(c, fiber.StatusForbidden, "You are not authorized to delete this comment reply")
	}

	if err := h.db.Delete(&reply).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "Comment reply deleted successfully", nil)
}

func (h *Handler) loadCaller(c *fiber.Ctx) (*models.User, error) {
	var user models.User
	if err := h.db.First(&user, "id = ?", auth.CallerID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.Fail(c, fiber.StatusNotFound, "User not found")
		}
		return nil, response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return &user, nil
}
