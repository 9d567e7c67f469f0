package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
)

// progress runs the achievement checks of the user then prints where they stand.
func (cli *commandLine) progress(uname string) error {
	ctx := context.Background()
	usr, err := cli.usrRepo.GetByUsernameOrEmail(ctx, core.CleanString(uname, true /* lower */))
	if err != nil {
		return err
	}

	advanced, err := cli.engine.Check(ctx, usr.ID)
	for _, res := range advanced {
		_, _ = fmt.Fprintf(cli.out, "advanced: %s -> %s\n", res.Track, res.Tier.Name)
	}
	if err != nil {
		return err
	}

	summaries, err := cli.engine.Summary(ctx, usr.ID)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s (%s)\n", usr.Username, usr.ID)
	_, _ = fmt.Fprintln(w, "TRACK\tCOUNTER\tTIER\tNEXT\tREMAINING")
	for _, s := range summaries {
		tier, next := "-", "-"
		if s.Tier != nil {
			tier = s.Tier.Name
		}
		if s.Next != nil {
			next = s.Next.Name
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\n", s.Track, s.Counter, tier, next, s.Remaining)
	}
	return w.Flush()
}
