package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
)

var rolesByName = map[string][]string{
	"admin":   user.AllRoles,
	"teacher": user.TeacherRoles,
	"student": user.StudentRoles,
}

// addUser updates or creates an active user.User
func (cli *commandLine) addUser(name, uname, email, pwd, role string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	roles, ok := rolesByName[role]
	if role != "" && !ok {
		return fmt.Errorf("%q: unknown role", role)
	}

	lookup := uname
	if lookup == "" {
		lookup = email
	}
	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetByUsernameOrEmail(ctx, lookup)
	exists := err == nil
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			ID:        uuid.New().String(),
			Username:  uname,
			Email:     email,
			Roles:     []string{},
			CreatedAt: now,
		}
	}
	if name = core.CleanString(name); name != "" {
		usr.Name = name
	} else if usr.Name == "" {
		usr.Name = usr.Username
	}
	if roles != nil {
		usr.Roles = roles
	}
	usr.IsActive = true
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if exists {
		_, err = cli.usrRepo.Update(ctx, usr)
	} else {
		_, err = cli.usrRepo.Create(ctx, usr)
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "user %s saved\n", usr.ID)
	return nil
}
