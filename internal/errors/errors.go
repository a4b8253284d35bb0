package errors

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/julianstephens/medwatch/internal/logger"
)

var (
	// ErrCapabilityAbsent is returned when the host cannot provide recurring background wakes.
	ErrCapabilityAbsent = errors.New("background wake capability is not available")
	// ErrPermissionDenied covers declined notification permission and rejected wake registrations.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrStorage wraps local durable store failures.
	ErrStorage = errors.New("local storage failure")
	// ErrRemoteUnavailable marks a remote store that cannot currently be reached.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)

// RemoteKind categorizes a remote feed failure for the user-facing message.
type RemoteKind string

const (
	RemotePermissionDenied RemoteKind = "permission-denied"
	RemoteUnavailable      RemoteKind = "unavailable"
	RemoteOther            RemoteKind = "other"
)

// ClassifyRemote maps a subscription error to its category.
func ClassifyRemote(err error) RemoteKind {
	if err == nil {
		return RemoteOther
	}
	if errors.Is(err, ErrPermissionDenied) {
		return RemotePermissionDenied
	}
	if errors.Is(err, ErrRemoteUnavailable) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return RemoteUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return RemoteUnavailable
	}
	return RemoteOther
}

// RemoteMessage returns the banner text for a remote failure category.
func RemoteMessage(kind RemoteKind) string {
	switch kind {
	case RemotePermissionDenied:
		return "You do not have permission to access the medication data!"
	case RemoteUnavailable:
		return "The database is currently unavailable. Try again later."
	default:
		return "Error while synchronizing data with the cloud!"
	}
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
