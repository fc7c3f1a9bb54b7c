package post

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hasibdev/blog-api/internal/auth"
	"github.com/hasibdev/blog-api/internal/models"
	"github.com/hasibdev/blog-api/internal/response"
	"github.com/hasibdev/blog-api/internal/storage"
)

// Mutating handlers follow one order: load (404), ownership (403), field
// validation (400), write.
type Handler struct {
	db      *gorm.DB
	storage *storage.Storage
	strict  *bluemonday.Policy
}

func NewHandler(db *gorm.DB, st *storage.Storage) *Handler {
	return &Handler{
		db:      db,
		storage: st,
		strict:  bluemonday.StrictPolicy(),
	}
}

func (h *Handler) List(c *fiber.Ctx) error {
	q := listQuery{
		page:     c.QueryInt("page", 1),
		limit:    c.QueryInt("limit", 15),
		search:   c.Query("search"),
		category: c.Query("category"),
	}
	if q.page < 1 {
		q.page = 1
	}
	if q.limit < 1 {
		q.limit = 15
	}

	var total int64
	if err := q.apply(h.db).Count(&total).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	lastPage := int((total + int64(q.limit) - 1) / int64(q.limit))

	var posts []models.Post
	err := q.apply(h.db).
		Omit("content").
		Preload("Category").
		Preload("Author").
		Offset((q.page - 1) * q.limit).
		Limit(q.limit).
		Find(&posts).Error
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	data := fiber.Map{
		"posts":          posts,
		"total":          total,
		"per_page":       q.limit,
		"current_page":   q.page,
		"first_page":     1,
		"last_page":      lastPage,
		"first_page_url": q.pageURL(1),
		"last_page_url":  q.pageURL(lastPage),
	}
	if q.page < lastPage {
		data["next_page_url"] = q.pageURL(q.page + 1)
	}
	if q.page > 1 {
		data["prev_page_url"] = q.pageURL(q.page - 1)
	}

	return response.Success(c, "Posts fetched successfully", data)
}

func (h *Handler) GetBySlug(c *fiber.Ctx) error {
	var post models.Post
	err := h.db.Preload("Category").Preload("Author").
		Where("slug = ?", c.Params("slug")).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Post not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "Post fetched successfully", post)
}

func (h *Handler) GetCommentsBySlug(c *fiber.Ctx) error {
	var post models.Post
	if err := h.db.Where("slug = ?", c.Params("slug")).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Post not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	var comments []models.Comment
	err := h.db.Where("post_id = ?", post.ID).
		Preload("User").
		Preload("Replies.User").
		Find(&comments).Error
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "Post comments fetched successfully", comments)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var user models.User
	if err := h.db.First(&user, "id = ?", auth.CallerID(c)).Error; err != nil {
		return response.Fail(c, fiber.StatusNotFound, "User not found")
	}

	var body struct {
		Title    string          `json:"title"`
		Subtitle string          `json:"subtitle"`
		Content  json.RawMessage `json:"content"`
		Image    string          `json:"image"`
		Category string          `json:"category"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if body.Title == "" || body.Subtitle == "" || len(body.Content) == 0 || body.Image == "" || body.Category == "" {
		return response.Fail(c, fiber.StatusBadRequest, "All fields are required",
			"Title, subtitle, content, image, and category are required")
	}

	var category models.Category
	if err := h.db.Where("name = ?", body.Category).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Category not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	slug, err := UniqueSlug(h.db, body.Title)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	post := models.Post{
		Title:      h.strict.Sanitize(body.Title),
		Subtitle:   h.strict.Sanitize(body.Subtitle),
		Content:    datatypes.JSON(body.Content),
		Image:      body.Image,
		Slug:       slug,
		AuthorID:   user.ID,
		CategoryID: category.ID,
	}
	if err := h.db.Create(&post).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to create post")
	}

	return response.Created(c, "Post created successfully", post)
}

func (h *Handler) UpdateTitle(c *fiber.Ctx) error {
	post, errResp := h.loadOwnedPost(c)
	if post == nil {
		return errResp
	}

	var body struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&body); err != nil || body.Title == "" {
		return response.Fail(c, fiber.StatusBadRequest, "All fields are required", "Title is required")
	}

	slug, err := UniqueSlug(h.db, body.Title)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	post.Title = h.strict.Sanitize(body.Title)
	post.Slug = slug
	if err := h.db.Save(post).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "Post updated successfully", post)
}

func (h *Handler) UpdateContentAndSubtitle(c *fiber.Ctx) error {
	post, errResp := h.loadOwnedPost(c)
	if post == nil {
		return errResp
	}

	var body struct {
		Subtitle string          `json:"subtitle"`
		Content  json.RawMessage `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if body.Subtitle == "" && len(body.Content) == 0 {
		return response.Fail(c, fiber.StatusBadRequest, "At least one field is required",
			"Subtitle or content is required")
	}

	if body.Subtitle != "" {
		post.Subtitle = h.strict.Sanitize(body.Subtitle)
	}
	if len(body.Content) > 0 {
		post.Content = datatypes.JSON(body.Content)
	}
	if err := h.db.Save(post).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "Post updated successfully", post)
}

func (h *Handler) UpdateImage(c *fiber.Ctx) error {
	post, errResp := h.loadOwnedPost(c)
	if post == nil {
		return errResp
	}

	var body struct {
		Image string `json:"image"`
	}
	if err := c.BodyParser(&body); err != nil || body.Image == "" {
		return response.Fail(c, fiber.StatusBadRequest, "All fields are required", "Image is required")
	}

	// Best effort; a missing old object must not block the update.
	_ = h.storage.Delete(post.Image)

	post.Image = body.Image
	if err := h.db.Save(post).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "Post updated successfully", post)
}

func (h *Handler) UpdateCategory(c *fiber.Ctx) error {
	post, errResp := h.loadOwnedPost(c)
	if post == nil {
		return errResp
	}

	var body struct {
		Category string `json:"category"`
	}
	if err := c.BodyParser(&body); err != nil || body.Category == "" {
		return response.Fail(c, fiber.StatusBadRequest, "All fields are required", "Category is required")
	}

	var category models.Category
	if err := h.db.Where("name = ?", body.Category).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Category not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	post.CategoryID = category.ID
	post.Category = nil
	if err := h.db.Save(post).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "Post updated successfully", post)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	post, errResp := h.loadOwnedPost(c)
	if post == nil {
		return errResp
	}

	if err := h.db.Delete(post).Error; err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	return response.Success(c, "Post deleted successfully", nil)
}

// loadOwnedPost resolves the :id post and asserts the caller owns it. A nil
// post means the response has already been written.
func (h *Handler) loadOwnedPost(c *fiber.Ctx) (*models.Post, error) {
	var post models.Post
	if err := h.db.First(&post, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.Fail(c, fiber.StatusNotFound, "Post not found")
		}
		return nil, response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	if !auth.IsOwner(auth.CallerID(c), post.AuthorID) {
		return nil, response.Fail(c, fiber.StatusForbidden, "You are not authorized to modify this post")
	}
	return &post, nil
}
