package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/medwatch/internal/cli"
	"github.com/julianstephens/medwatch/internal/cli/meds"
	"github.com/julianstephens/medwatch/internal/cli/reminders"
	"github.com/julianstephens/medwatch/internal/cli/system"
	"github.com/julianstephens/medwatch/internal/config"
	"github.com/julianstephens/medwatch/internal/constants"
	apperrors "github.com/julianstephens/medwatch/internal/errors"
	"github.com/julianstephens/medwatch/internal/logger"
)

var CLI struct {
	Version   kong.VersionFlag
	Config    string `help:"Config file path." type:"string" default:"${config_path}"`
	RemoteDSN string `name:"remote-dsn" help:"PostgreSQL connection string for medication sync. Credentials must NOT be embedded; store them with 'medwatch keyring set' instead." env:"MEDWATCH_REMOTE_DSN"`
	Debug     bool   `help:"Enable debug logging to stderr."`
	DryRun    bool   `name:"dry-run" help:"Print notifications to stdout instead of showing them."`

	Init       system.InitCmd       `cmd:"" help:"Initialize the local store (and optionally the remote schema)."`
	Tui        system.TuiCmd        `cmd:"" help:"Open the medication dashboard." default:"1"`
	Run        system.RunCmd        `cmd:"" help:"Run the reminder service: sync medications and deliver the morning reminder."`
	Status     system.StatusCmd     `cmd:"" help:"Show delivery strategy and reminder state."`
	Check      reminders.CheckCmd   `cmd:"" help:"Run one reminder check now."`
	Meds       meds.ListCmd         `cmd:"" help:"List stored medications."`
	Log        meds.LogCmd          `cmd:"" help:"Show the notification log."`
	Wake       reminders.WakeCmd    `cmd:"" help:"Manage background wake registrations."`
	TestNotify system.TestNotifyCmd `cmd:"" name:"test-notify" help:"Show a test notification."`
	Keyring    struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the remote connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability." default:"1"`
	} `cmd:"" help:"Manage the remote connection string in the OS keyring."`
	Activate system.ActivateCmd `cmd:"" hidden:"" help:"Handle a notification click (used internally)."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily medication reminders with remote sync"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.GetDefaultConfigPath(),
			"launch_url":  constants.NotificationLaunchURL,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.RemoteDSN != "" {
		cfg.Remote.DSN = CLI.RemoteDSN
	}
	if CLI.Debug {
		cfg.Log.Debug = true
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Log.Debug,
		ConfigDir: cfg.ConfigDir(),
		Stderr:    ctx.Command() == "run",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	appCtx, err := cli.NewContext(cfg, CLI.DryRun)
	if err != nil {
		apperrors.Fatalf("failed to set up %s: %v", constants.AppName, err)
	}

	err = ctx.Run(appCtx)
	appCtx.Store.Close()
	apperrors.Fatal(err)
}
