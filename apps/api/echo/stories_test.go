package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/apps/api/echo"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/story"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/tests"
)

func Test_storyApi_create(t *testing.T) {
	app, deps := setup(t)
	student := testutil.CreateUser(t, deps.UserRepo, "Kid", "kiddo1", "kid@test.cd", "", []string{user.RoleStudent}, true)
	admin := testutil.CreateUser(t, deps.UserRepo, "Admin", "admin1", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	token := getToken(t, deps, student)

	tests := []struct {
		name        string
		token       string
		title       string
		filename    string
		contentType string
		wantCode    int
	}{
		{name: "admins cannot upload", token: getToken(t, deps, admin), title: "Nope", filename: "a.pdf", contentType: "application/pdf", wantCode: http.StatusForbidden},
		{name: "no title", token: token, filename: "a.pdf", contentType: "application/pdf", wantCode: http.StatusBadRequest},
		{name: "no file", token: token, title: "Empty", wantCode: http.StatusBadRequest},
		{name: "image", token: token, title: "Pic", filename: "a.png", contentType: "image/png", wantCode: http.StatusBadRequest},
		{name: "pdf", token: token, title: "The Dragon", filename: "dragon.pdf", contentType: "application/pdf", wantCode: http.StatusCreated},
		{name: "video", token: token, title: "The Dragon II", filename: "dragon.mp4", contentType: "video/mp4", wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newUploadRequest(t, tt.token, tt.title, tt.filename, tt.contentType, []byte("content"))
			app.ServeHTTP(rec, req)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
	assert.Equal(t, 2, deps.Blobs.Len())

	req, rec := newAuthRequest(http.MethodGet, "/api/stories/mine", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var stories []story.Story
	decode(t, rec, &stories)
	require.Len(t, stories, 2)

	req, rec = newAuthRequest(http.MethodGet, "/api/stories/"+stories[0].ID, token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	req, rec = newAuthRequest(http.MethodGet, "/api/stories/nope", token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_storyApi_createAdvances(t *testing.T) {
	app, deps := setup(t)
	teacher := testutil.CreateUser(t, deps.UserRepo, "Sensei", "sensei", "sensei@test.cd", "", []string{user.RoleTeacher}, true)

	req, rec := newUploadRequest(t, getToken(t, deps, teacher), "First Story", "first.pdf", "application/pdf", []byte("%PDF-"))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp CreateStoryResponse
	decode(t, rec, &resp)
	assert.Equal(t, "first-story", resp.Story.Slug)
	require.NotEmpty(t, resp.Advancements)
	assert.Equal(t, "White", resp.Advancements[0].Tier.Name)
}
