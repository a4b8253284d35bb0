package postgres

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lib/pq"

	"github.com/julianstephens/medwatch/internal/keyring"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
	ErrNoConnectionString      = errors.New("no remote connection string configured")
)

var keyringGetFunc = keyring.GetRemoteDSN

// ResolveDSN picks the configured connection string (flag, config file or MEDWATCH_REMOTE_DSN),
// falling back to the OS keyring. Configured strings must not carry a password.
func ResolveDSN(configured string) (string, error) {
	if strings.TrimSpace(configured) != "" {
		if _, err := ValidateConnString(configured); err != nil {
			return "", err
		}
		return configured, nil
	}

	dsn, err := keyringGetFunc()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoConnectionString
		}
		return "", err
	}
	return dsn, nil
}

// ValidateConnString checks connStr is a PostgreSQL URI or DSN without a password.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		parsedURL, err := url.Parse(connStr)
		if err != nil {
			return false, fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}

		if _, isSet := parsedURL.User.Password(); isSet {
			return false, ErrEmbeddedCredentials
		}

		if parsedURL.Host == "" && parsedURL.User == nil && (parsedURL.Path == "" || parsedURL.Path == "/") {
			return false, fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return true, nil
	}

	for _, pair := range strings.Fields(connStr) {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[0]), "password") {
			return false, ErrEmbeddedCredentials
		}
	}

	return true, nil
}
