package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/medwatch/internal/cli"
	"github.com/julianstephens/medwatch/internal/constants"
	"github.com/julianstephens/medwatch/internal/strategy"
)

type WakeCmd struct {
	Status  WakeStatusCmd  `cmd:"" default:"1" help:"Show recurring wake registrations."`
	Enable  WakeEnableCmd  `cmd:"" help:"Register the recurring background wake."`
	Disable WakeDisableCmd `cmd:"" help:"Remove the recurring background wake."`
}

type WakeStatusCmd struct{}

func (c *WakeStatusCmd) Run(ctx *cli.Context) error {
	appCtx := context.Background()

	regs, err := ctx.Store.ListRegistrations(appCtx)
	if err != nil {
		return err
	}
	if len(regs) == 0 {
		fmt.Fprintln(ctx.Out, "No wake registrations.")
		return nil
	}

	now := time.Now()
	for _, r := range regs {
		last := "never"
		if r.LastFiredAt != nil {
			last = r.LastFiredAt.Local().Format(time.DateTime)
		}
		due := ""
		if r.Due(now) {
			due = " (due)"
		}
		fmt.Fprintf(ctx.Out, "%-22s every %-8s last fired %s%s\n", r.Tag, r.MinInterval, last, due)
	}
	return nil
}

type WakeEnableCmd struct{}

func (c *WakeEnableCmd) Run(ctx *cli.Context) error {
	d := strategy.NewDetector(ctx.Probe, ctx.Waker, nil, ctx.Current, ctx.Banners, ctx.Config.Wake.MinInterval)
	err := d.EnableBackground(context.Background())
	for _, b := range ctx.Banners.Recent() {
		fmt.Fprintln(ctx.Out, b.Text)
	}
	return err
}

type WakeDisableCmd struct {
	Yes bool `short:"y" help:"Skip confirmation."`
}

func (c *WakeDisableCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		confirm := false
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Stop background reminders?").
					Description("Reminders will only fire while medwatch is running.").
					Value(&confirm),
			),
		).WithTheme(huh.ThemeDracula()).Run()
		if err != nil {
			return err
		}
		if !confirm {
			fmt.Fprintln(ctx.Out, "Cancelled.")
			return nil
		}
	}

	appCtx := context.Background()
	for _, tag := range []string{constants.WakeTagPeriodic, constants.WakeTagOneShot} {
		if err := ctx.Waker.Unregister(appCtx, tag); err != nil {
			return err
		}
	}
	fmt.Fprintln(ctx.Out, "✓ Background reminders disabled")
	return nil
}
