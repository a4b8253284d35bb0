package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/medwatch/internal/cli"
	"github.com/julianstephens/medwatch/internal/config"
	"github.com/julianstephens/medwatch/internal/host"
	"github.com/julianstephens/medwatch/internal/logger"
	"github.com/julianstephens/medwatch/internal/models"
	"github.com/julianstephens/medwatch/internal/remote"
	"github.com/julianstephens/medwatch/internal/remote/postgres"
	"github.com/julianstephens/medwatch/internal/replication"
	"github.com/julianstephens/medwatch/internal/scheduler"
	"github.com/julianstephens/medwatch/internal/strategy"
	"github.com/julianstephens/medwatch/internal/ui"
)

// RunCmd runs the long-lived reminder process: replication, the background worker and the chosen
// delivery strategy.
type RunCmd struct {
	Offline  bool `help:"Do not connect to the remote database; remind from the local store only."`
	CheckNow bool `name:"check-now" help:"Send today's reminder right after start if it has not been sent yet."`
}

func (c *RunCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ctx.Store.Open(sigCtx); err != nil {
		return err
	}

	fallbackAt, err := config.ParseClock(ctx.Config.Reminder.FallbackAt)
	if err != nil {
		return err
	}

	// Offline first: seed the in-memory list from the last stored snapshot
	if meds, err := ctx.Store.ListMedications(sigCtx); err != nil {
		logger.Warn("Failed to load stored medications", "error", err)
	} else if len(meds) > 0 {
		ctx.Current.Set(meds)
	}

	g, gctx := errgroup.WithContext(sigCtx)

	banners, unsubscribe := ctx.Banners.Subscribe(16)
	defer unsubscribe()
	g.Go(func() error {
		printBanners(gctx, ctx, banners)
		return nil
	})

	source, err := c.source(ctx.Config)
	if err != nil {
		ctx.Banners.Publish(ui.LevelWarning, fmt.Sprintf("Remote sync disabled: %v", err))
	}

	worker := host.NewWorker(ctx.Scheduler, ctx.Store, ctx.Waker)
	g.Go(func() error {
		return worker.Run(gctx)
	})

	detector := strategy.NewDetector(ctx.Probe, ctx.Waker, worker, ctx.Current, ctx.Banners, ctx.Config.Wake.MinInterval)
	dec := detector.Setup(gctx)

	snapshots, stopSnapshots := ctx.Current.Subscribe()
	defer stopSnapshots()
	g.Go(func() error {
		printSnapshots(gctx, ctx, snapshots)
		return nil
	})

	if source != nil {
		feed := replication.NewFeed(source, ctx.Store, ctx.Current, ctx.Banners)
		if dec.Strategy == strategy.Background {
			feed.SetForward(worker.UpdateMedicines)
		}
		g.Go(func() error {
			if err := feed.Run(gctx); err != nil {
				ctx.Banners.Publish(ui.LevelError, fmt.Sprintf("Remote sync stopped: %v", err))
			}
			return nil
		})
	}

	switch dec.Strategy {
	case strategy.Background:
		g.Go(func() error {
			return ctx.Waker.Run(gctx, ctx.Config.Wake.Poll, worker.HandleWake)
		})
	default:
		timer := scheduler.NewDailyTimer(ctx.Scheduler, fallbackAt)
		g.Go(func() error {
			return timer.Run(gctx)
		})
	}

	if dec.Strategy == strategy.Background {
		if st, err := worker.SyncStatus(gctx); err != nil {
			logger.Warn("Failed to read sync status", "error", err)
		} else {
			logger.Info("Background sync status", "registered", st.Registered, "tags", st.Tags)
		}
	}

	if c.CheckNow {
		g.Go(func() error {
			checkNow(gctx, ctx, worker)
			return nil
		})
	}

	logger.Info("medwatch running", "strategy", dec.Strategy.String())
	fmt.Fprintf(ctx.Out, "medwatch running (%s strategy). Press Ctrl+C to stop.\n", dec.Strategy)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (c *RunCmd) source(cfg *config.Config) (remote.Source, error) {
	if c.Offline {
		return nil, errors.New("offline mode")
	}
	dsn, err := postgres.ResolveDSN(cfg.Remote.DSN)
	if err != nil {
		return nil, err
	}
	return postgres.New(dsn, cfg.Remote.Channel), nil
}

func checkNow(ctx context.Context, app *cli.Context, worker *host.Worker) {
	res, err := worker.CheckNow(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("Startup check failed", "error", err)
		}
		return
	}
	if res.Sent {
		app.Banners.Publish(ui.LevelSuccess, "Morning reminder sent.")
		return
	}
	logger.Info("Startup check sent nothing", "state", res.State.String(), "reason", res.Reason)
}

func printSnapshots(ctx context.Context, app *cli.Context, snapshots <-chan []models.Medication) {
	for {
		select {
		case <-ctx.Done():
			return
		case meds, ok := <-snapshots:
			if !ok {
				return
			}
			fmt.Fprintf(app.Out, "ℹ %d medications (%d active)\n", len(meds), len(models.FilterActive(meds)))
		}
	}
}

func printBanners(ctx context.Context, app *cli.Context, banners <-chan ui.Banner) {
	for {
		select {
		case <-ctx.Done():
			return
		case b, ok := <-banners:
			if !ok {
				return
			}
			fmt.Fprintf(app.Out, "%s %s\n", bannerPrefix(b.Level), b.Text)
		}
	}
}

func bannerPrefix(l ui.Level) string {
	switch l {
	case ui.LevelSuccess:
		return "✓"
	case ui.LevelWarning:
		return "⚠️"
	case ui.LevelError:
		return "❌"
	default:
		return "ℹ"
	}
}
