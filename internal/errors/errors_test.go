package errors

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
	if got := Format(errors.New("boom")); got != "Error: boom" {
		t.Errorf("Format() = %q, want %q", got, "Error: boom")
	}
	if got := Formatf("bad %s", "date"); got != "Error: bad date" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestClassifyRemote(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want RemoteKind
	}{
		{"nil", nil, RemoteOther},
		{"permission", fmt.Errorf("query medications: %w", ErrPermissionDenied), RemotePermissionDenied},
		{"unavailable sentinel", fmt.Errorf("listen: %w", ErrRemoteUnavailable), RemoteUnavailable},
		{"bad conn", driver.ErrBadConn, RemoteUnavailable},
		{"deadline", context.DeadlineExceeded, RemoteUnavailable},
		{"net error", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, RemoteUnavailable},
		{"other", errors.New("syntax error"), RemoteOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyRemote(tt.err); got != tt.want {
				t.Errorf("ClassifyRemote() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRemoteMessageDistinct(t *testing.T) {
	seen := map[string]RemoteKind{}
	for _, kind := range []RemoteKind{RemotePermissionDenied, RemoteUnavailable, RemoteOther} {
		msg := RemoteMessage(kind)
		if msg == "" {
			t.Errorf("RemoteMessage(%q) is empty", kind)
		}
		if prev, ok := seen[msg]; ok {
			t.Errorf("RemoteMessage(%q) duplicates %q", kind, prev)
		}
		seen[msg] = kind
	}
}
