package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/medwatch/internal/cli"
	"github.com/julianstephens/medwatch/internal/constants"
	"github.com/julianstephens/medwatch/internal/notifier"
	"github.com/julianstephens/medwatch/internal/platform"
)

const (
	testTitle = "🖖 Vítej na palubě, admirále!"
	testBody  = "Notifikace jsou aktivní!\n\nBudeš dostávat denní přehled léků každé ráno v 8:00."
)

// TestNotifyCmd shows a notification immediately through the configured sinks.
type TestNotifyCmd struct{}

func (c *TestNotifyCmd) Run(ctx *cli.Context) error {
	if !platform.Granted(platform.StaticPermission(ctx.Config.Notify.Permission)) {
		return fmt.Errorf("notification permission is %q; set notify.permission to %q first",
			ctx.Config.Notify.Permission, constants.PermissionGranted)
	}

	n := notifier.Notification{
		Title:   testTitle,
		Body:    testBody,
		Icon:    constants.NotificationIcon,
		Badge:   constants.NotificationBadge,
		Tag:     "test",
		Vibrate: constants.VibratePattern,
		Data: notifier.Data{
			Type:      "test",
			Timestamp: time.Now(),
			URL:       constants.NotificationLaunchURL,
		},
	}

	if err := ctx.Surface.Show(context.Background(), n); err != nil {
		return fmt.Errorf("failed to send test notification: %w", err)
	}
	fmt.Fprintln(ctx.Out, "✓ Test notification sent")
	return nil
}

// ActivateCmd handles a click on a reminder: focus the open dashboard or open a new one.
type ActivateCmd struct {
	URL string `help:"Target to open." default:"${launch_url}"`
}

func (c *ActivateCmd) Run(ctx *cli.Context) error {
	action, err := notifier.NewActivator(ctx.Config.ConfigDir()).Activate(context.Background(), notifier.Data{
		Type: constants.LogTypeDailyReminder,
		URL:  c.URL,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Dashboard %s\n", action)
	return nil
}
