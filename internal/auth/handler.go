package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hasibdev/blog-api/internal/config"
	"github.com/hasibdev/blog-api/internal/response"
)

type Handler struct {
	service *Service
	cfg     *config.Config
}

func NewHandler(service *Service, cfg *config.Config) *Handler {
	return &Handler{service: service, cfg: cfg}
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var body struct {
		Name                 string `json:"name"`
		Email                string `json:"email"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, pair, err := h.service.Register(body.Name, body.Email, body.Password, body.PasswordConfirmation)
	if err != nil {
		return response.Err(c, err)
	}

	h.setAuthCookies(c, pair)
	return response.Created(c, "User registered successfully", user)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, pair, err := h.service.Login(body.Email, body.Password)
	if err != nil {
		return response.Err(c, err)
	}

	h.setAuthCookies(c, pair)
	return response.Success(c, "User logged in successfully", user)
}

func (h *Handler) Refresh(c *fiber.Ctx) error {
	incoming := c.Cookies(h.cfg.RefreshCookieName)

	accessToken, err := h.service.Refresh(incoming)
	if err != nil {
		return response.Err(c, err)
	}

	c.Cookie(h.accessCookie(accessToken))
	return response.Success(c, "Success", nil)
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(CallerID(c)); err != nil {
		return response.Err(c, err)
	}

	h.clearAuthCookies(c)
	return response.Success(c, "User logged out successfully", nil)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	user, err := h.service.CurrentUser(CallerID(c))
	if err != nil {
		return response.Err(c, err)
	}
	return response.Success(c, "User data retrieved successfully", user)
}

func (h *Handler) setAuthCookies(c *fiber.Ctx, pair TokenPair) {
	c.Cookie(h.accessCookie(pair.AccessToken))
	c.Cookie(h.refreshCookie(pair.RefreshToken, h.cfg.RefreshExpiry))
}

func (h *Handler) clearAuthCookies(c *fiber.Ctx) {
	access := h.accessCookie("")
	access.Expires = time.Now().Add(-time.Hour)
	access.MaxAge = -1
	c.Cookie(access)

	refresh := h.refreshCookie("", -time.Hour)
	refresh.MaxAge = -1
	c.Cookie(refresh)
}

func (h *Handler) accessCookie(value string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     h.cfg.AccessCookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(h.cfg.AccessExpiry),
		HTTPOnly: true,
		Secure:   h.cfg.Env == "production",
		SameSite: h.cfg.CookieSameSite,
	}
}

// The refresh cookie is scoped to the refresh endpoint so the long-lived
// token rides along on exactly one route.
func (h *Handler) refreshCookie(value string, ttl time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     h.cfg.RefreshCookieName,
		Value:    value,
		Path:     h.cfg.RefreshCookiePath,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   h.cfg.Env == "production",
		SameSite: h.cfg.CookieSameSite,
	}
}
