package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/medwatch/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// Tray delivers notifications to the desktop tray companion over its local webhook.
type Tray struct {
	timeout time.Duration
}

type WebhookPayload struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
	Tag        string `json:"tag,omitempty"`
	Icon       string `json:"icon,omitempty"`
	Urgent     bool   `json:"urgent"`
	Data       Data   `json:"data"`
}

func NewTray(timeout time.Duration) *Tray {
	if timeout <= 0 {
		timeout = constants.NotifyTimeout
	}
	return &Tray{timeout: timeout}
}

func (t *Tray) Show(ctx context.Context, n Notification) error {
	trayAppConfigPath, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findAndValidateTrayProcess(filepath.Join(trayAppConfigPath, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := WebhookPayload{
		Title:      n.Title,
		Text:       n.Body,
		DurationMs: constants.NotificationDurationMs,
		Tag:        n.Tag,
		Icon:       n.Icon,
		Urgent:     n.Urgent,
		Data:       n.Data,
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	return sendNotification(ctx, port, secret, payload)
}

// GetTrayAppConfigDir returns the configuration directory used by the tray application.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	// settings.json may point the lockfile elsewhere
	settingsPath := filepath.Join(trayConfigDir, "settings.json")
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return trayConfigDir, nil
	}

	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil {
		if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
			return *store.Settings.LockfileDir, nil
		}
	}

	return trayConfigDir, nil
}

// findAndValidateTrayProcess parses a port|pid|secret lockfile and checks the pid is a live tray process.
func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", errors.New("medwatch-tray is not running")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := strings.TrimSpace(parts[0])
	if port == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", errors.New("medwatch-tray process not running")
	}

	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return "", "", fmt.Errorf("process with PID %d is not medwatch-tray (is %s)", pid, process.Executable())
	}

	return port, secret, nil
}

func sendNotification(ctx context.Context, port string, secret string, payload WebhookPayload) error {
	url := fmt.Sprintf("http://127.0.0.1:%s", port)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Medwatch-Secret", secret)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}
