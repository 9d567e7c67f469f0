package user_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
	appfs "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/fs"
	emailsvc "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/services/email"
	logsvc "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/services/logger"
	inmemdb "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/storage/database/inmem"
)

const pwd = "Dr4gon!Fire"

func newService(t *testing.T) (user.Service, *validator.Validate) {
	t.Helper()
	conf := core.NewTestConfig()
	logger := logsvc.NopLogger{}
	core.ParseEmailTemplates(conf, logger, appfs.FS)
	user.LoadCommonPasswords(logger, appfs.FS)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	emailsvc.ResetSentMessages()
	return user.NewService(inmemdb.NewUserRepository(inmemdb.Open()), emailsvc.NewConsoleServiceMock(conf, logger), conf, logger), validate
}

func TestNewUserValidate(t *testing.T) {
	ctx := context.Background()
	svc, validate := newService(t)
	_, err := svc.Create(ctx, user.NewUser{Name: "Taken", Username: "taken_1", Password: pwd, PasswordConfirm: pwd})
	require.NoError(t, err)

	tests := []struct {
		name    string
		nu      user.NewUser
		wantErr bool
	}{
		{name: "valid", nu: user.NewUser{Name: "Al", Email: " AL@Ninja.test ", Password: pwd, PasswordConfirm: pwd, Roles: []string{user.RoleStudent}}},
		{name: "no username nor email", nu: user.NewUser{Name: "Al", Password: pwd, PasswordConfirm: pwd}, wantErr: true},
		{name: "unknown role", nu: user.NewUser{Name: "Al", Email: "al@ninja.test", Password: pwd, PasswordConfirm: pwd, Roles: []string{"pirate:"}}, wantErr: true},
		{name: "passwords differ", nu: user.NewUser{Name: "Al", Email: "al@ninja.test", Password: pwd, PasswordConfirm: pwd + "x"}, wantErr: true},
		{name: "short password", nu: user.NewUser{Name: "Al", Email: "al@ninja.test", Password: "Ab1!", PasswordConfirm: "Ab1!"}, wantErr: true},
		{name: "numeric password", nu: user.NewUser{Name: "Al", Email: "al@ninja.test", Password: "1234567890", PasswordConfirm: "1234567890"}, wantErr: true},
		{name: "simple password", nu: user.NewUser{Name: "Al", Email: "al@ninja.test", Password: "dragonfire", PasswordConfirm: "dragonfire"}, wantErr: true},
		{name: "password like username", nu: user.NewUser{Name: "Al", Username: "dr4gonfire", Password: "Dr4gonFire!", PasswordConfirm: "Dr4gonFire!"}, wantErr: true},
		{name: "username taken", nu: user.NewUser{Name: "Al", Username: "TAKEN_1", Password: pwd, PasswordConfirm: pwd}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nu.Validate(ctx, validate, svc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	usr, err := svc.Create(ctx, user.NewUser{Name: "Al", Email: "al@ninja.test", Password: pwd, PasswordConfirm: pwd, Roles: []string{user.RoleStudent}})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.True(t, usr.IsActive)
	assert.True(t, usr.CanUploadStories())
	assert.NoError(t, usr.CheckPassword(pwd))
	assert.Zero(t, usr.Progression().StoriesUploaded)
	assert.Zero(t, usr.Progression().BeltTier)
	assert.Zero(t, usr.Progression().LevelTier)

	addr, err := svc.EmailAddress(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, "al@ninja.test", addr.Address)

	_, err = svc.EmailAddress(ctx, "ghost")
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	svc, validate := newService(t)

	usr, err := svc.Create(ctx, user.NewUser{Name: "Al", Email: "al@ninja.test", Password: pwd, PasswordConfirm: pwd})
	require.NoError(t, err)

	assert.Equal(t, user.ErrNotFound, errors.Cause(svc.RequestPasswordReset(ctx, "nobody@ninja.test")))
	require.NoError(t, svc.RequestPasswordReset(ctx, "AL@ninja.test"))

	msgs := emailsvc.SentTo(usr.Email)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].TextContent, "Al")
	data, ok := msgs[0].TemplateData.(map[string]string)
	require.True(t, ok)

	newPwd := "N3w!Secret#"
	reset := user.ResetUserPassword{UID: data["UID"], Token: data["Token"], Password: newPwd, PasswordConfirm: newPwd}
	require.NoError(t, reset.Validate(validate))

	bad := reset
	bad.Token = "HE4TS-sigsig-sig"
	assert.IsType(t, &core.ValidationError{}, svc.ResetPassword(ctx, bad))

	require.NoError(t, svc.ResetPassword(ctx, reset))
	usr, err = svc.GetByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.NoError(t, usr.CheckPassword(newPwd))
	assert.Error(t, usr.CheckPassword(pwd))
}
