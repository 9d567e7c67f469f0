package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/storage/database"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/tests"
)

func setup(t *testing.T) (*commandLine, *testutil.App, *bytes.Buffer) {
	app := testutil.NewApp(t)
	out := new(bytes.Buffer)
	return &commandLine{
		usrRepo: app.UserRepo,
		engine:  app.Engine,
		out:     out,
	}, app, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func runCLI(t *testing.T, cli *commandLine, tt cliTest) error {
	t.Helper()
	err := cli.run(append([]string{"admin"}, tt.args...))
	switch {
	case err == nil:
		if tt.wantErr != nil || tt.wantErrStr != "" {
			t.Errorf("cli.run() error = nil, want an error")
		}
	case tt.wantErr != nil:
		if errors.Cause(err) != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if errors.Cause(err).Error() != tt.wantErrStr {
			t.Errorf("cli.run() error = %s, wantErrStr %s", errors.Cause(err), tt.wantErrStr)
		}
	default:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
	return err
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, _ := setup(t)

	origRun := database.GooseRunFunc
	defer func() { database.GooseRunFunc = origRun }()
	database.GooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "badges", "sql"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_ = runCLI(t, cli, tt)
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli, app, _ := setup(t)
	existing := testutil.CreateUser(t, app.UserRepo, "Sensei", "sensei", "sensei@test.test", "old", []string{user.RoleTeacher}, false)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-username", "ninja"}, wantErr: errHelp},
		{name: "unknown role", args: []string{"adduser", "-username", "ninja", "-role", "pirate"}, extra: extra{pwd: "pwd"}, wantErrStr: "\"pirate\": unknown role"},
		{name: "create student", args: []string{"adduser", "-username", "Ninja", "-email", "ninja@test.test", "-role", "student"}, extra: extra{pwd: "pwd"}},
		{name: "update existing", args: []string{"adduser", "-username", "sensei", "-role", "admin"}, extra: extra{pwd: "new"}},
	}
	for _, tt := range tests {
		readPasswordFunc = func(int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}
		t.Run(tt.name, func(t *testing.T) {
			_ = runCLI(t, cli, tt)
		})
	}

	ctx := context.Background()
	ninja, err := app.UserRepo.GetByUsername(ctx, "ninja")
	require.NoError(t, err)
	assert.True(t, ninja.IsActive)
	assert.True(t, ninja.IsStudent())
	assert.NoError(t, ninja.CheckPassword("pwd"))

	sensei, err := app.UserRepo.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.True(t, sensei.IsActive)
	assert.True(t, sensei.IsAdmin())
	assert.NoError(t, sensei.CheckPassword("new"))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, app, _ := setup(t)
	usr := testutil.CreateUser(t, app.UserRepo, "User", "awe", "awe@test.cd", "mdr", nil, true)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "lol"}},
		{name: "reset with email", args: []string{"resetpassword", "-username", usr.Email}, extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		readPasswordFunc = func(int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, cli, tt); err == nil {
				refreshedUsr, err := app.UserRepo.GetByID(context.Background(), usr.ID)
				if err != nil {
					t.Fatalf("GetByID() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			}
		})
	}
}

func Test_commandLine_progress(t *testing.T) {
	cli, app, out := setup(t)
	usr := testutil.CreateUser(t, app.UserRepo, "Kid", "kid", "kid@test.test", "", []string{user.RoleStudent}, true)
	require.NoError(t, app.DB.SetCounters(usr.ID, 4, 120))

	_ = runCLI(t, cli, cliTest{args: []string{"progress"}, wantErr: errHelp})
	_ = runCLI(t, cli, cliTest{args: []string{"progress", "-username", "ghost"}, wantErr: user.ErrNotFound})

	out.Reset()
	_ = runCLI(t, cli, cliTest{args: []string{"progress", "-username", "KID"}})
	assert.Contains(t, out.String(), "advanced: belt -> Orange")
	assert.Contains(t, out.String(), "advanced: level -> Scout")
	assert.Regexp(t, `belt\s+4\s+Orange\s+Green\s+1`, out.String())
	assert.Regexp(t, `level\s+120\s+Scout\s+Warrior\s+30`, out.String())

	// a second run advances nothing
	out.Reset()
	_ = runCLI(t, cli, cliTest{args: []string{"progress", "-username", "kid"}})
	assert.NotContains(t, out.String(), "advanced:")
}
