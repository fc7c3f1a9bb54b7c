package user_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/hasibdev/blog-api/internal/models"
	"github.com/hasibdev/blog-api/internal/testutils"
	"github.com/hasibdev/blog-api/internal/utils"
)

func TestGetUser(t *testing.T) {
	ta := testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, ta.DB, "alice", "alice@example.com", "password1")

	t.Run("Success", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "GET", "/api/v1/users/"+user.ID, nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		result := testutils.AssertSuccess(t, rec)
		var fetched map[string]interface{}
		assert.NoError(t, json.Unmarshal(result.Data, &fetched))
		assert.Equal(t, "alice", fetched["name"])
		assert.NotContains(t, fetched, "password")
		assert.NotContains(t, fetched, "refresh_token")
	})

	t.Run("Not found", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "GET", "/api/v1/users/no-such-id", nil, nil)
		assert.NoError(t, err)
		testutils.AssertError(t, rec, http.StatusNotFound, "User not found")
	})
}

func TestGetUserPosts(t *testing.T) {
	ta := testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, ta.DB, "alice", "alice@example.com", "password1")
	other := testutils.CreateTestUser(t, ta.DB, "bob", "bob@example.com", "password1")

	var category models.Category
	assert.NoError(t, ta.DB.Where("name = ?", "technology").First(&category).Error)
	for _, p := range []models.Post{
		{Title: "Mine", Subtitle: "s", Content: datatypes.JSON(`{}`), Image: "i", Slug: "mine", AuthorID: user.ID, CategoryID: category.ID},
		{Title: "Theirs", Subtitle: "s", Content: datatypes.JSON(`{}`), Image: "i", Slug: "theirs", AuthorID: other.ID, CategoryID: category.ID},
	} {
		post := p
		assert.NoError(t, ta.DB.Create(&post).Error)
	}

	rec, err := testutils.MakeRequest(ta.App, "GET", "/api/v1/users/"+user.ID+"/posts", nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	result := testutils.AssertSuccess(t, rec)
	var posts []models.Post
	assert.NoError(t, json.Unmarshal(result.Data, &posts))
	assert.Len(t, posts, 1)
	assert.Equal(t, "Mine", posts[0].Title)
}

func TestUpdateName(t *testing.T) {
	ta := testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, ta.DB, "alice", "alice@example.com", "password1")
	intruder := testutils.CreateTestUser(t, ta.DB, "mallory", "mallory@example.com", "password1")

	t.Run("Success", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "PATCH", "/api/v1/users/"+user.ID+"/update-name",
			map[string]string{"name": "alice2", "password": "password1"}, ta.AccessCookie(t, user.ID))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.User
		assert.NoError(t, ta.DB.First(&updated, "id = ?", user.ID).Error)
		assert.Equal(t, "alice2", updated.Name)
	})

	t.Run("Wrong password", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "PATCH", "/api/v1/users/"+user.ID+"/update-name",
			map[string]string{"name": "alice3", "password": "wrong-pass"}, ta.AccessCookie(t, user.ID))
		assert.NoError(t, err)
		testutils.AssertError(t, rec, http.StatusBadRequest, "Invalid password")
	})

	t.Run("Non-owner gets 403 even with their own correct password", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "PATCH", "/api/v1/users/"+user.ID+"/update-name",
			map[string]string{"name": "hijacked", "password": "password1"}, ta.AccessCookie(t, intruder.ID))
		assert.NoError(t, err)
		testutils.AssertError(t, rec, http.StatusForbidden, "You are not authorized to update this user")
	})

	t.Run("Unknown user reports 404 before ownership", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "PATCH", "/api/v1/users/no-such-id/update-name",
			map[string]string{"name": "x", "password": "password1"}, ta.AccessCookie(t, intruder.ID))
		assert.NoError(t, err)
		testutils.AssertError(t, rec, http.StatusNotFound, "User not found")
	})
}

func TestUpdatePassword(t *testing.T) {
	ta := testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, ta.DB, "alice", "alice@example.com", "password1")
	cookies := ta.AccessCookie(t, user.ID)

	t.Run("Short new password", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "PATCH", "/api/v1/users/"+user.ID+"/update-password",
			map[string]string{"password": "password1", "new_password": "abc"}, cookies)
		assert.NoError(t, err)
		testutils.AssertError(t, rec, http.StatusBadRequest, "Password must be at least 6 characters")
	})

	t.Run("Success stores a new hash", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "PATCH", "/api/v1/users/"+user.ID+"/update-password",
			map[string]string{"password": "password1", "new_password": "password2"}, cookies)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.User
		assert.NoError(t, ta.DB.First(&updated, "id = ?", user.ID).Error)
		assert.True(t, utils.CheckPasswordHash("password2", updated.Password))
		assert.False(t, utils.CheckPasswordHash("password1", updated.Password))
	})

	t.Run("Old password no longer re-authenticates", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "PATCH", "/api/v1/users/"+user.ID+"/update-password",
			map[string]string{"password": "password1", "new_password": "password3"}, cookies)
		assert.NoError(t, err)
		testutils.AssertError(t, rec, http.StatusBadRequest, "Invalid password")
	})
}

func TestUpdateBioAndProfilePicture(t *testing.T) {
	ta := testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, ta.DB, "alice", "alice@example.com", "password1")
	cookies := ta.AccessCookie(t, user.ID)

	rec, err := testutils.MakeRequest(ta.App, "PATCH", "/api/v1/users/"+user.ID+"/update-bio",
		map[string]string{"bio": "Gopher since 2019"}, cookies)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, err = testutils.MakeRequest(ta.App, "PATCH", "/api/v1/users/"+user.ID+"/update-profile-picture",
		map[string]string{"image": "/uploads/photos/avatar.jpg"}, cookies)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated models.User
	assert.NoError(t, ta.DB.First(&updated, "id = ?", user.ID).Error)
	assert.Equal(t, "Gopher since 2019", updated.Bio)
	assert.Equal(t, "/uploads/photos/avatar.jpg", updated.Image)
}

func TestDeleteUser(t *testing.T) {
	ta := testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, ta.DB, "alice", "alice@example.com", "password1")
	intruder := testutils.CreateTestUser(t, ta.DB, "mallory", "mallory@example.com", "password1")

	t.Run("Non-owner cannot delete", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "DELETE", "/api/v1/users/"+user.ID,
			map[string]string{"password": "password1"}, ta.AccessCookie(t, intruder.ID))
		assert.NoError(t, err)
		testutils.AssertError(t, rec, http.StatusForbidden, "You are not authorized to update this user")
	})

	t.Run("Wrong password", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "DELETE", "/api/v1/users/"+user.ID,
			map[string]string{"password": "wrong-pass"}, ta.AccessCookie(t, user.ID))
		assert.NoError(t, err)
		testutils.AssertError(t, rec, http.StatusBadRequest, "Invalid password")
	})

	t.Run("Success", func(t *testing.T) {
		rec, err := testutils.MakeRequest(ta.App, "DELETE", "/api/v1/users/"+user.ID,
			map[string]string{"password": "password1"}, ta.AccessCookie(t, user.ID))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var count int64
		assert.NoError(t, ta.DB.Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error)
		assert.Zero(t, count)
	})
}
