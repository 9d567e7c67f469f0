package main

import (
	"context"
	"time"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	usr, err := cli.usrRepo.GetByUsernameOrEmail(ctx, core.CleanString(uname, true /* lower */))
	if err != nil {
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err := cli.usrRepo.Update(ctx, usr); err != nil {
		return err
	}
	return nil
}
