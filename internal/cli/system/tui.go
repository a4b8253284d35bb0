package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/medwatch/internal/cli"
	"github.com/julianstephens/medwatch/internal/notifier"
	"github.com/julianstephens/medwatch/internal/tui"
)

type TuiCmd struct {
	URL string `help:"Initial target, as passed by notification activation." default:"${launch_url}"`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Open(context.Background()); err != nil {
		return err
	}

	dir := ctx.Config.ConfigDir()
	release, err := notifier.AcquirePageLock(dir)
	if err != nil {
		return err
	}
	defer release()

	p := tea.NewProgram(tui.NewModel(ctx.Store, ctx.Scheduler, ctx.Banners, dir, c.URL), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
