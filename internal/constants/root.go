package constants

import "time"

const (
	AppName            = "medwatch"
	DefaultKeyringUser = "remote-connection"
	DefaultConfigDir   = "~/.config/medwatch"
	DefaultStorePath   = "~/.config/medwatch/medwatch.db"
	Version            = "v0.3.0"

	// DateFormat is the calendar date layout used for medication dates and log keys (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the wall clock layout used for reminder windows (HH:MM)
	TimeFormat = "15:04"

	// Reminder window and fallback fire time
	DefaultWindowStart = "07:45"
	DefaultWindowEnd   = "08:15"
	DefaultFallbackAt  = "08:00"

	// Notification log types
	LogTypeDailyReminder = "daily-reminder"
	LogMessageSent       = "Morning medication overview sent"

	// Recurring wake tags
	WakeTagPeriodic = "medicine-check-sync"
	WakeTagOneShot  = "medicine-check"

	DefaultWakeMinInterval = 12 * time.Hour
	DefaultWakePoll        = time.Minute

	// Remote replication
	DefaultRemoteChannel       = "medications_changed"
	RemoteMinReconnectInterval = 10 * time.Second
	RemoteMaxReconnectInterval = time.Minute

	// Notify constants
	NotifyTimeout          = 10 * time.Second
	NotifierLockfileName   = "medwatch-notifier.lock"
	PageLockfileName       = "medwatch-page.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.medwatch"
	TrayExecutablePrefix   = "medwatch-tray"
	NotificationIcon       = "medwatch://icons/image_192x192.png"
	NotificationBadge      = "medwatch://icons/image_72x72.png"
	NotificationLaunchURL  = "medwatch://dashboard"

	// Notification permission states
	PermissionGranted = "granted"
	PermissionDenied  = "denied"
	PermissionDefault = "default"
)

// VibratePattern is the short vibration pattern attached to reminder notifications.
var VibratePattern = []int{200, 100, 200}
