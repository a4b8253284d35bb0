package notifier

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/julianstephens/medwatch/internal/constants"
)

// Action is what activating a notification did.
type Action string

const (
	ActionFocused Action = "focused"
	ActionOpened  Action = "opened"
)

// launchFunc starts a new dashboard page for url.
var launchFunc = func(ctx context.Context, url string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}
	cmd := exec.Command(exe, "tui", "--url", url)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch dashboard: %w", err)
	}
	return cmd.Process.Release()
}

// Activator handles a click on a reminder: reuse an open dashboard page or open a new one.
type Activator struct {
	dir string
}

func NewActivator(configDir string) *Activator {
	return &Activator{dir: configDir}
}

func (a *Activator) Activate(ctx context.Context, data Data) (Action, error) {
	url := data.URL
	if url == "" {
		url = constants.NotificationLaunchURL
	}

	if pid, err := LivePage(a.dir); err == nil {
		return ActionFocused, touchFocus(a.dir, pid, url)
	}

	if err := launchFunc(ctx, url); err != nil {
		return "", err
	}
	return ActionOpened, nil
}

func pageLockPath(dir string) string {
	return filepath.Join(dir, constants.PageLockfileName)
}

func focusPath(dir string) string {
	return pageLockPath(dir) + ".focus"
}

// AcquirePageLock records the current process as the open dashboard page.
// The returned func removes the lockfile.
func AcquirePageLock(dir string) (func(), error) {
	if pid, err := LivePage(dir); err == nil && pid != os.Getpid() {
		return nil, fmt.Errorf("dashboard already open (pid %d)", pid)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lockfile directory: %w", err)
	}

	path := pageLockPath(dir)
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0600); err != nil {
		return nil, fmt.Errorf("failed to write page lockfile: %w", err)
	}

	return func() {
		os.Remove(path)
		os.Remove(focusPath(dir))
	}, nil
}

// LivePage returns the pid of the open dashboard page. Stale lockfiles are reported as errors.
func LivePage(dir string) (int, error) {
	content, err := os.ReadFile(pageLockPath(dir))
	if err != nil {
		return 0, errors.New("no dashboard page open")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, errors.New("invalid process ID in page lockfile")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return 0, fmt.Errorf("dashboard process %d not running", pid)
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return 0, fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.AppName, process.Executable())
	}

	return pid, nil
}

// touchFocus asks the page to navigate to url; the page polls this file.
func touchFocus(dir string, pid int, url string) error {
	if err := os.WriteFile(focusPath(dir), []byte(url), 0600); err != nil {
		return fmt.Errorf("failed to signal dashboard %d: %w", pid, err)
	}
	return nil
}

// TakeFocusRequest returns and clears a pending focus request.
func TakeFocusRequest(dir string) (string, bool) {
	path := focusPath(dir)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	os.Remove(path)
	return strings.TrimSpace(string(content)), true
}
