package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/hasibdev/blog-api/internal/auth"
	"github.com/hasibdev/blog-api/internal/category"
	"github.com/hasibdev/blog-api/internal/config"
	"github.com/hasibdev/blog-api/internal/database"
	"github.com/hasibdev/blog-api/internal/models"
	"github.com/hasibdev/blog-api/internal/server"
	"github.com/hasibdev/blog-api/internal/storage"
	"github.com/hasibdev/blog-api/internal/utils"
)

// TestApp bundles everything a handler test needs: the app itself plus the
// db, config and token service used to build it.
type TestApp struct {
	App    *fiber.App
	DB     *gorm.DB
	Cfg    *config.Config
	Tokens *auth.TokenService
}

func TestConfig() *config.Config {
	return &config.Config{
		Env:               "test",
		ServerAddr:        ":0",
		AccessSecret:      strings.Repeat("a", 32),
		RefreshSecret:     strings.Repeat("r", 32),
		AccessExpiry:      15 * time.Minute,
		RefreshExpiry:     7 * 24 * time.Hour,
		AccessCookieName:  "access_token",
		RefreshCookieName: "refresh_token",
		RefreshCookiePath: "/api/v1/auth/refresh-token",
		CookieSameSite:    "Lax",
	}
}

func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err, "Failed to create test database")

	err = database.Migrate(db)
	assert.NoError(t, err, "Failed to migrate test database")

	return db
}

func SetupTestApp(t *testing.T) *TestApp {
	cfg := TestConfig()
	db := TestDB(t)

	err := category.SeedDefaults(db)
	assert.NoError(t, err, "Failed to seed categories")

	st, err := storage.New(cfg)
	assert.NoError(t, err, "Failed to initialize storage")

	return &TestApp{
		App:    server.New(cfg, db, st),
		DB:     db,
		Cfg:    cfg,
		Tokens: auth.NewTokenService(cfg),
	}
}

func CreateTestUser(t *testing.T, db *gorm.DB, name, email, password string) *models.User {
	hash, err := utils.HashPassword(password)
	assert.NoError(t, err, "Failed to hash password")

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
	}
	err = db.Create(user).Error
	assert.NoError(t, err, "Failed to create test user")

	return user
}

// AccessCookie issues a valid access token for the user and returns it as a
// request cookie map.
func (ta *TestApp) AccessCookie(t *testing.T, userID string) map[string]string {
	token, err := ta.Tokens.IssueAccessToken(userID)
	assert.NoError(t, err, "Failed to issue test token")
	return map[string]string{ta.Cfg.AccessCookieName: token}
}

func MakeRequest(app *fiber.App, method, url string, body interface{}, cookies map[string]string) (*httptest.ResponseRecorder, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	rec := httptest.NewRecorder()

	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode
	for k, vals := range resp.Header {
		for _, v := range vals {
			rec.Header().Add(k, v)
		}
	}
	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

func MakeMultipartRequest(app *fiber.App, method, url string, contentType string, body io.Reader, cookies map[string]string) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", contentType)
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	rec := httptest.NewRecorder()

	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode
	for k, vals := range resp.Header {
		for _, v := range vals {
			rec.Header().Add(k, v)
		}
	}
	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

// ResponseCookie returns the named cookie set by the response, or nil.
func ResponseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	parsed := http.Response{Header: rec.Header()}
	for _, c := range parsed.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type StandardResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func ParseResponse(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if rec.Body.Len() == 0 {
		t.Log("Warning: Response body is empty")
		return
	}

	err := json.NewDecoder(rec.Body).Decode(v)
	if err != nil && err != io.EOF {
		t.Logf("Response body: %s", rec.Body.String())
		assert.NoError(t, err, "Failed to parse response")
	}
}

func AssertSuccess(t *testing.T, rec *httptest.ResponseRecorder) StandardResponse {
	var result StandardResponse
	ParseResponse(t, rec, &result)
	assert.True(t, result.Success, "Expected success response")
	assert.Empty(t, result.Errors, "Expected no errors")
	return result
}

func AssertError(t *testing.T, rec *httptest.ResponseRecorder, expectedStatus int, expectedMessage string) {
	assert.Equal(t, expectedStatus, rec.Code, "Status code mismatch")

	var result StandardResponse
	ParseResponse(t, rec, &result)
	assert.False(t, result.Success, "Expected error response")
	if expectedMessage != "" {
		assert.Equal(t, expectedMessage, result.Message, "Error message mismatch")
	}
}
