package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/medwatch/internal/cli"
	"github.com/julianstephens/medwatch/internal/keyring"
	"github.com/julianstephens/medwatch/internal/remote/postgres"
)

// KeyringSetCmd stores the remote connection string in the OS keyring
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	_, err := postgres.ValidateConnString(cmd.ConnectionString)
	if err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is the one place a password may live
		fmt.Fprintln(ctx.Out, "ℹ Connection string contains a password; it will be kept in the encrypted OS keyring.")
	}

	if err := keyring.SetRemoteDSN(cmd.ConnectionString); err != nil {
		return err
	}

	fmt.Fprintln(ctx.Out, "✓ Connection string stored in OS keyring")
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetRemoteDSN()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'medwatch keyring set' to store one")
		}
		return err
	}

	fmt.Fprintln(ctx.Out, maskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteRemoteDSN(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}

	fmt.Fprintln(ctx.Out, "✓ Connection string deleted from OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Fprintln(ctx.Out, "❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}

	fmt.Fprintln(ctx.Out, "✓ OS keyring is available")
	if _, err := keyring.GetRemoteDSN(); err == nil {
		fmt.Fprintln(ctx.Out, "✓ Connection string is stored in keyring")
	} else if errors.Is(err, keyring.ErrNotFound) {
		fmt.Fprintln(ctx.Out, "ℹ No connection string stored in keyring")
	}
	return nil
}

// maskPassword hides the password of a URL or key=value connection string
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		idx := strings.Index(connStr, "://")
		remaining := connStr[idx+3:]
		if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
			userInfo := remaining[:atIdx]
			if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
				return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + remaining[atIdx:]
			}
		}
		return connStr
	}

	parts := strings.Fields(connStr)
	for i, part := range parts {
		if strings.HasPrefix(strings.ToLower(part), "password=") {
			parts[i] = "password=****"
		}
	}
	return strings.Join(parts, " ")
}
