package auth_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hasibdev/blog-api/internal/testutils"
)

func registerBody(name, email, password string) map[string]string {
	return map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              password,
		"password_confirmation": password,
	}
}

func TestRegisterEndpoint(t *testing.T) {
	ta := testutils.SetupTestApp(t)

	rec, err := testutils.MakeRequest(ta.App, "POST", "/api/v1/auth/register",
		registerBody("alice", "alice@example.com", "password1"), nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	result := testutils.AssertSuccess(t, rec)
	assert.Equal(t, "User registered successfully", result.Message)

	var user map[string]interface{}
	assert.NoError(t, json.Unmarshal(result.Data, &user))
	assert.Equal(t, "alice", user["name"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "refresh_token")

	// Both cookies land, with the refresh cookie scoped to its one endpoint.
	access := testutils.ResponseCookie(rec, ta.Cfg.AccessCookieName)
	assert.NotNil(t, access)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, "/", access.Path)

	refresh := testutils.ResponseCookie(rec, ta.Cfg.RefreshCookieName)
	assert.NotNil(t, refresh)
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, "/api/v1/auth/refresh-token", refresh.Path)
}

func TestRegisterEndpointDuplicate(t *testing.T) {
	ta := testutils.SetupTestApp(t)
	testutils.CreateTestUser(t, ta.DB, "alice", "alice@example.com", "password1")

	rec, err := testutils.MakeRequest(ta.App, "POST", "/api/v1/auth/register",
		registerBody("alice", "other@example.com", "password1"), nil)
	assert.NoError(t, err)
	testutils.AssertError(t, rec, http.StatusBadRequest, "User already exists")
}

func TestLoginEndpoint(t *testing.T) {
	ta := testutils.SetupTestApp(t)
	testutils.CreateTestUser(t, ta.DB, "alice", "alice@example.com", "password1")

	t.Run("Success", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "POST", "/api/v1/auth/login",
			map[string]string{"email": "alice@example.com", "password": "password1"}, nil)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		testutils.AssertSuccess(t, rec)

		assert.NotNil(t, testutils.ResponseCookie(rec, ta.Cfg.AccessCookieName))
		assert.NotNil(t, testutils.ResponseCookie(rec, ta.Cfg.RefreshCookieName))
	})

	t.Run("Wrong password", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "POST", "/api/v1/auth/login",
			map[string]string{"email": "alice@example.com", "password": "wrong-pass"}, nil)
		assert.NoError(t, err)
		testutils.AssertError(t, rec, http.StatusBadRequest, "Invalid email or password")
	})

	t.Run("Unknown email gets the same message", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "POST", "/api/v1/auth/login",
			map[string]string{"email": "nobody@example.com", "password": "password1"}, nil)
		assert.NoError(t, err)
		testutils.AssertError(t, rec, http.StatusBadRequest, "Invalid email or password")
	})
}

func TestRefreshEndpoint(t *testing.T) {
	ta := testutils.SetupTestApp(t)

	rec, err := testutils.MakeRequest(ta.App, "POST", "/api/v1/auth/register",
		registerBody("alice", "alice@example.com", "password1"), nil)
	assert.NoError(t, err)
	refresh := testutils.ResponseCookie(rec, ta.Cfg.RefreshCookieName)
	assert.NotNil(t, refresh)

	t.Run("Success", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "GET", "/api/v1/auth/refresh-token", nil,
			map[string]string{ta.Cfg.RefreshCookieName: refresh.Value})
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		testutils.AssertSuccess(t, rec)

		// A fresh access cookie is set; the refresh cookie is left alone.
		assert.NotNil(t, testutils.ResponseCookie(rec, ta.Cfg.AccessCookieName))
		assert.Nil(t, testutils.ResponseCookie(rec, ta.Cfg.RefreshCookieName))
	})

	t.Run("No cookie", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "GET", "/api/v1/auth/refresh-token", nil, nil)
		assert.NoError(t, err)
		testutils.AssertError(t, rec, http.StatusUnauthorized, "Unauthorized")
	})

	t.Run("Garbage cookie", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "GET", "/api/v1/auth/refresh-token", nil,
			map[string]string{ta.Cfg.RefreshCookieName: "not-a-jwt"})
		assert.NoError(t, err)
		testutils.AssertError(t, rec, http.StatusUnauthorized, "Invalid token.")
	})

	t.Run("Access token in the refresh slot", func(t *testing.T) {
		user := testutils.CreateTestUser(t, ta.DB, "bob", "bob@example.com", "password1")
		access, err := ta.Tokens.IssueAccessToken(user.ID)
		assert.NoError(t, err)

		rec, err := testutils.MakeRequest(ta.App, "GET", "/api/v1/auth/refresh-token", nil,
			map[string]string{ta.Cfg.RefreshCookieName: access})
		assert.NoError(t, err)
		testutils.AssertError(t, rec, http.StatusUnauthorized, "Invalid token.")
	})
}

func TestMeEndpoint(t *testing.T) {
	ta := testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, ta.DB, "alice", "alice@example.com", "password1")

	t.Run("Success", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "GET", "/api/v1/auth/me", nil,
			ta.AccessCookie(t, user.ID))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		result := testutils.AssertSuccess(t, rec)
		var me map[string]interface{}
		assert.NoError(t, json.Unmarshal(result.Data, &me))
		assert.Equal(t, user.ID, me["id"])
		assert.Equal(t, "alice", me["name"])
		assert.NotContains(t, me, "password")
		assert.NotContains(t, me, "refresh_token")
	})

	t.Run("No token", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "GET", "/api/v1/auth/me", nil, nil)
		assert.NoError(t, err)
		testutils.AssertError(t, rec, http.StatusUnauthorized, "Access denied. No token provided.")
	})
}

func TestLogoutEndpoint(t *testing.T) {
	ta := testutils.SetupTestApp(t)

	rec, err := testutils.MakeRequest(ta.App, "POST", "/api/v1/auth/register",
		registerBody("alice", "alice@example.com", "password1"), nil)
	assert.NoError(t, err)
	access := testutils.ResponseCookie(rec, ta.Cfg.AccessCookieName)
	refresh := testutils.ResponseCookie(rec, ta.Cfg.RefreshCookieName)
	cookies := map[string]string{ta.Cfg.AccessCookieName: access.Value}

	rec, err = testutils.MakeRequest(ta.App, "DELETE", "/api/v1/auth/logout", nil, cookies)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	testutils.AssertSuccess(t, rec)

	// Both cookies are cleared on the way out.
	clearedAccess := testutils.ResponseCookie(rec, ta.Cfg.AccessCookieName)
	assert.NotNil(t, clearedAccess)
	assert.Empty(t, clearedAccess.Value)
	clearedRefresh := testutils.ResponseCookie(rec, ta.Cfg.RefreshCookieName)
	assert.NotNil(t, clearedRefresh)
	assert.Empty(t, clearedRefresh.Value)

	// The old refresh token no longer works.
	rec, err = testutils.MakeRequest(ta.App, "GET", "/api/v1/auth/refresh-token", nil,
		map[string]string{ta.Cfg.RefreshCookieName: refresh.Value})
	assert.NoError(t, err)
	testutils.AssertError(t, rec, http.StatusUnauthorized, "Unauthorized")

	// A second logout with a still-valid access token is rejected.
	rec, err = testutils.MakeRequest(ta.App, "DELETE", "/api/v1/auth/logout", nil, cookies)
	assert.NoError(t, err)
	testutils.AssertError(t, rec, http.StatusUnauthorized, "Unauthorized, no refresh token found")
}
