package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/medwatch/internal/constants"
)

var (
	// ErrNotFound is returned when no remote DSN is stored
	ErrNotFound = errors.New("remote connection string not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetRemoteDSN retrieves the remote store connection string from the OS keyring.
func GetRemoteDSN() (string, error) {
	dsn, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return dsn, nil
}

// SetRemoteDSN stores the remote store connection string. Unlike config files, the keyring may hold a password.
func SetRemoteDSN(dsn string) error {
	if dsn == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, dsn); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	return nil
}

func DeleteRemoteDSN() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	return nil
}

// IsAvailable is a best-effort check that the OS keyring answers reads.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
