package echoapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/apps/api/echo"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
	emailsvc "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/services/email"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/tests"
)

func Test_userApi_login(t *testing.T) {
	app, deps := setup(t)
	testutil.CreateUser(t, deps.UserRepo, "User", "awesome", "awe@test.cd", "Dr4gon!Fire", nil, true)
	testutil.CreateUser(t, deps.UserRepo, "N Dog", "ndoggy", "ndog@test.cd", "Dr4gon!Fire", nil, false)

	tests := []httpTest{
		{name: "no credentials", body: marshalObj(t, LoginRequest{}), wantCode: http.StatusBadRequest},
		{name: "wrong password", body: marshalObj(t, LoginRequest{Username: "awesome", Password: "lol"}), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: "authentication failed"})},
		{name: "unknown user", body: marshalObj(t, LoginRequest{Username: "nobody", Password: "lol"}), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: "authentication failed"})},
		{name: "deactivated", body: marshalObj(t, LoginRequest{Username: "ndoggy", Password: "Dr4gon!Fire"}), wantCode: http.StatusForbidden,
			wantData: marshalObj(t, httpErr{Error: "account deactivated"})},
		{name: "with username", body: marshalObj(t, LoginRequest{Username: "AWESOME", Password: "Dr4gon!Fire"}), wantCode: http.StatusOK},
		{name: "with email", body: marshalObj(t, LoginRequest{Username: "awe@test.cd", Password: "Dr4gon!Fire"}), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/users/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				decode(t, rec, &resp)
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}

func Test_userApi_passwordReset(t *testing.T) {
	app, deps := setup(t)
	usr := testutil.CreateUser(t, deps.UserRepo, "User", "awesome", "awe@test.cd", "Dr4gon!Fire", nil, true)

	// unknown emails get the same answer
	for _, email := range []string{"nobody@test.cd", "AWE@test.cd"} {
		req, rec := newRequest(http.MethodPost, "/api/users/password-reset", marshalObj(t, PasswordResetRequest{Email: email}))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	msgs := emailsvc.SentTo(usr.Email)
	require.Len(t, msgs, 1)
	data := msgs[0].TemplateData.(map[string]string)

	confirm := user.ResetUserPassword{UID: data["UID"], Token: "HE4TS-sigsig-sig", Password: "N3w!Secret#", PasswordConfirm: "N3w!Secret#"}
	req, rec := newRequest(http.MethodPost, "/api/users/password-reset-confirm", marshalObj(t, confirm))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	confirm.Token = data["Token"]
	req, rec = newRequest(http.MethodPost, "/api/users/password-reset-confirm", marshalObj(t, confirm))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req, rec = newRequest(http.MethodPost, "/api/users/login", marshalObj(t, LoginRequest{Username: "awesome", Password: "N3w!Secret#"}))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_userApi_register(t *testing.T) {
	app, deps := setup(t)
	admin := testutil.CreateUser(t, deps.UserRepo, "Admin", "admin1", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	student := testutil.CreateUser(t, deps.UserRepo, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)

	pwd := "Dr4gon!Fire"
	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{name: "admin required", token: getToken(t, deps, student), wantCode: http.StatusForbidden,
			wantData: marshalObj(t, httpErr{Error: "permission denied"})},
		{name: "invalid", token: getToken(t, deps, admin), body: marshalObj(t, user.NewUser{Name: "Kid"}), wantCode: http.StatusBadRequest},
		{name: "role above own", token: getToken(t, deps, admin), wantCode: http.StatusBadRequest,
			body: marshalObj(t, user.NewUser{Name: "Boss", Username: "bossman", Password: pwd, PasswordConfirm: pwd, Roles: []string{user.RoleAdminOwner}})},
		{name: "student", token: getToken(t, deps, admin), wantCode: http.StatusCreated,
			body: marshalObj(t, user.NewUser{Name: "Kid", Username: "kiddo1", Password: pwd, PasswordConfirm: pwd, Roles: []string{user.RoleStudent}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/users/register", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	kid, err := deps.UserSvc.GetByUsername(context.Background(), "kiddo1")
	require.NoError(t, err)
	assert.Zero(t, kid.StoriesUploaded)
	assert.Zero(t, kid.BeltTier)
}

func Test_userApi_retrieve(t *testing.T) {
	app, deps := setup(t)
	student := testutil.CreateUser(t, deps.UserRepo, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	other := testutil.CreateUser(t, deps.UserRepo, "Other", "other1", "other@test.cd", "", []string{user.RoleStudent}, true)
	admin := testutil.CreateUser(t, deps.UserRepo, "Admin", "admin1", "admin@test.cd", "", []string{user.RoleAdmin}, true)

	tests := []httpTest{
		{name: "self", path: "/api/users/" + student.ID, token: getToken(t, deps, student), wantCode: http.StatusOK},
		{name: "someone else", path: "/api/users/" + other.ID, token: getToken(t, deps, student), wantCode: http.StatusNotFound},
		{name: "admin", path: "/api/users/" + other.ID, token: getToken(t, deps, admin), wantCode: http.StatusOK},
		{name: "unknown", path: "/api/users/nope", token: getToken(t, deps, admin), wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
