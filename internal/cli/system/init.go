package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/medwatch/internal/cli"
	"github.com/julianstephens/medwatch/internal/logger"
	"github.com/julianstephens/medwatch/internal/remote/postgres"
)

type InitCmd struct {
	Remote bool `help:"Also create the medications table and change trigger on the remote database."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	appCtx := context.Background()

	if err := ctx.Store.Open(appCtx); err != nil {
		return fmt.Errorf("failed to initialize local store: %w", err)
	}
	fmt.Fprintf(ctx.Out, "✓ Local store ready at %s\n", ctx.Store.GetConfigPath())

	if !c.Remote {
		return nil
	}

	dsn, err := postgres.ResolveDSN(ctx.Config.Remote.DSN)
	if err != nil {
		return err
	}

	src := postgres.New(dsn, ctx.Config.Remote.Channel)
	if err := src.Migrate(appCtx, func(msg string) {
		logger.Info(msg)
		fmt.Fprintln(ctx.Out, msg)
	}); err != nil {
		return fmt.Errorf("failed to migrate remote database: %w", err)
	}
	fmt.Fprintln(ctx.Out, "✓ Remote schema ready")
	return nil
}
