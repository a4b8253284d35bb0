package config

import (
	"github.com/knadh/koanf/providers/confmap"

	"github.com/julianstephens/medwatch/internal/constants"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"store": map[string]interface{}{
			"path": constants.DefaultStorePath,
		},
		"remote": map[string]interface{}{
			"dsn":     "",
			"channel": constants.DefaultRemoteChannel,
		},
		"reminder": map[string]interface{}{
			"window_start": constants.DefaultWindowStart,
			"window_end":   constants.DefaultWindowEnd,
			"fallback_at":  constants.DefaultFallbackAt,
		},
		"wake": map[string]interface{}{
			"capability":   CapabilityAuto,
			"min_interval": constants.DefaultWakeMinInterval.String(),
			"poll":         constants.DefaultWakePoll.String(),
		},
		"notify": map[string]interface{}{
			"tray":       true,
			"urls":       []string{},
			"permission": constants.PermissionGranted,
			"timeout":    constants.NotifyTimeout.String(),
		},
		"platform": map[string]interface{}{
			"install_dir": "",
		},
		"log": map[string]interface{}{
			"debug": false,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return constants.DefaultConfigDir + "/config.yaml"
}
